package lock

import (
	"context"
	"sync"
)

// Locker 按 key 互斥，unlock 只能调用一次
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type keyedMutex struct {
	ch   chan struct{}
	refs int
}

// LocalLocker 进程内的按 key 互斥锁，没有等待者的 key 会被回收
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyedMutex)}
}

func (l *LocalLocker) acquireRef(key string) *keyedMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &keyedMutex{ch: make(chan struct{}, 1)}
		l.locks[key] = m
	}
	m.refs++
	return m
}

func (l *LocalLocker) releaseRef(key string, m *keyedMutex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m.refs--
	if m.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	m := l.acquireRef(key)
	select {
	case m.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, m)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			<-m.ch
			l.releaseRef(key, m)
		})
	}, nil
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
