package mq

import (
	"context"

	"VidTube.com/cmd/model"
)

// CascadeDeferrer 把未完成的级联交给后台重放
type CascadeDeferrer interface {
	DeferCascade(ctx context.Context, kind model.EntityKind, id int64) error
}

type CascadeEventHandler interface {
	HandleCascadeEvent(ctx context.Context, event *CascadeEvent) error
}

// 确保Producer和LocalQueue实现CascadeDeferrer接口
var (
	_ CascadeDeferrer = (*Producer)(nil)
	_ CascadeDeferrer = (*LocalQueue)(nil)
)
