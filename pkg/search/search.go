package search

import (
	"context"

	"VidTube.com/cmd/model"
)

// VideoIndex 视频全文索引，只返回候选 ID，可见性由存储层过滤
type VideoIndex interface {
	Index(ctx context.Context, v *model.Video) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]int64, error)
}
