package service

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/lock"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/search"
)

// IDGenerator 雪花 ID
type IDGenerator interface {
	NextID() int64
}

type Options struct {
	StoreTimeout     time.Duration
	MaxHistory       int // 观看历史上限，0 表示不限
	SearchCandidates int // 全文索引最多返回的候选数
}

// Deps Blobs、Index、Deferrer 可以为 nil
type Deps struct {
	Store    dal.Store
	Locker   lock.Locker
	Blobs    oss.BlobStore
	Index    search.VideoIndex
	Deferrer mq.CascadeDeferrer
	IDGen    IDGenerator
	Options  Options
}

type Service struct {
	store dal.Store
	blobs oss.BlobStore
	index search.VideoIndex
	idGen IDGenerator
	opts  Options

	Toggles *ToggleEngine
	Views   *Composer
	Cascade *CascadeCoordinator
}

func New(d Deps) *Service {
	if d.Options.StoreTimeout <= 0 {
		d.Options.StoreTimeout = constants.DefaultStoreTimeout
	}
	if d.Options.SearchCandidates <= 0 {
		d.Options.SearchCandidates = 200
	}
	if d.Locker == nil {
		d.Locker = lock.NewLocalLocker()
	}
	s := &Service{
		store: d.Store,
		blobs: d.Blobs,
		index: d.Index,
		idGen: d.IDGen,
		opts:  d.Options,
	}
	s.Toggles = &ToggleEngine{store: d.Store, locker: d.Locker, idGen: d.IDGen, opts: d.Options}
	s.Views = &Composer{store: d.Store, index: d.Index, opts: d.Options}
	s.Cascade = &CascadeCoordinator{store: d.Store, blobs: d.Blobs, index: d.Index, deferrer: d.Deferrer}
	return s
}

func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opts.StoreTimeout)
}
