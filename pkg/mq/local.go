package mq

import (
	"context"
	"errors"

	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var ErrQueueFull = errors.New("cascade queue full")

// LocalQueue 没有 RabbitMQ 时的进程内队列，进程退出即丢失
type LocalQueue struct {
	events chan *CascadeEvent
}

func NewLocalQueue(size int) *LocalQueue {
	return &LocalQueue{events: make(chan *CascadeEvent, size)}
}

func (q *LocalQueue) DeferCascade(ctx context.Context, kind model.EntityKind, id int64) error {
	select {
	case q.events <- NewCascadeEvent(kind, id):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Run 消费队列直到 ctx 取消，失败的事件按次数重新入队
func (q *LocalQueue) Run(ctx context.Context, handler CascadeEventHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-q.events:
			if err := handler.HandleCascadeEvent(ctx, event); err != nil {
				event.Attempt++
				if event.Attempt >= MaxCascadeAttempts {
					hlog.CtxErrorf(ctx, "Dropping cascade event %s after %d attempts: %v", event.EventID, event.Attempt, err)
					continue
				}
				select {
				case q.events <- event:
				default:
					hlog.CtxErrorf(ctx, "Dropping cascade event %s: queue full", event.EventID)
				}
			}
		}
	}
}

func (q *LocalQueue) Len() int {
	return len(q.events)
}
