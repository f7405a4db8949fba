package mq

import (
	"time"

	"VidTube.com/cmd/model"
	"github.com/google/uuid"
)

// CascadeEvent 主记录已删除但依赖记录未清理，需要重放级联
type CascadeEvent struct {
	EventID   string           `json:"event_id"`
	Kind      model.EntityKind `json:"kind"`
	EntityID  int64            `json:"entity_id"`
	Attempt   int              `json:"attempt"`
	Timestamp int64            `json:"timestamp"`
}

func NewCascadeEvent(kind model.EntityKind, id int64) *CascadeEvent {
	return &CascadeEvent{
		EventID:   uuid.NewString(),
		Kind:      kind,
		EntityID:  id,
		Timestamp: time.Now().Unix(),
	}
}

// MaxCascadeAttempts 超过后丢弃并记录错误
const MaxCascadeAttempts = 5
