package oss

import (
	"context"
	"os"
	"sync"

	"VidTube.com/cmd/model"
	"github.com/google/uuid"
)

// MemoryStore 只记录对象名，本地运行和测试使用
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]string)}
}

func (s *MemoryStore) Upload(ctx context.Context, localPath, contentType string) (*model.Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, err
	}
	name, err := objectName(uuid.NewString(), contentType)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.objects[name] = localPath
	s.mu.Unlock()
	return &model.Blob{ID: name, URL: "memory://" + name}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.objects, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[id]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
