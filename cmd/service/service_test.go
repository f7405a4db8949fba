package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/dal/memdb"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/oss"
	"github.com/stretchr/testify/require"
)

type seqIDs struct {
	n atomic.Int64
}

func (s *seqIDs) NextID() int64 {
	return 1000 + s.n.Add(1)
}

type recordingDeferrer struct {
	mu     sync.Mutex
	events []model.EntityKind
	ids    []int64
}

func (d *recordingDeferrer) DeferCascade(ctx context.Context, kind model.EntityKind, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, kind)
	d.ids = append(d.ids, id)
	return nil
}

// failingCascadeStore 事务内删除点赞总是失败，事务外正常
type failingCascadeStore struct {
	dal.Store
}

func (s failingCascadeStore) Transaction(ctx context.Context, fn func(tx dal.Store) error) error {
	return s.Store.Transaction(ctx, func(tx dal.Store) error {
		return fn(failingTx{tx})
	})
}

type failingTx struct {
	dal.Store
}

func (failingTx) DeleteLikesByTargets(context.Context, model.TargetKind, []int64) (int64, error) {
	return 0, errors.New("likes table locked")
}

type fixture struct {
	svc      *Service
	store    *memdb.Store
	blobs    *oss.MemoryStore
	deferred *recordingDeferrer
	ids      *seqIDs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memdb.New(),
		blobs:    oss.NewMemoryStore(),
		deferred: &recordingDeferrer{},
		ids:      &seqIDs{},
	}
	f.svc = f.service(f.store, Options{MaxHistory: 3})
	return f
}

func (f *fixture) service(store dal.Store, opts Options) *Service {
	return New(Deps{
		Store:    store,
		Blobs:    f.blobs,
		Deferrer: f.deferred,
		IDGen:    f.ids,
		Options:  opts,
	})
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	id := f.ids.NextID()
	require.NoError(t, f.store.CreateUser(context.Background(), &model.User{
		ID:       id,
		UserName: name,
		Email:    name + "@example.com",
		FullName: name,
	}))
	return id
}

func (f *fixture) video(t *testing.T, ownerID int64, title string, published bool) int64 {
	t.Helper()
	id := f.ids.NextID()
	require.NoError(t, f.store.CreateVideo(context.Background(), &model.Video{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		IsPublished: published,
	}))
	return id
}

func (f *fixture) comment(t *testing.T, videoID, ownerID int64) int64 {
	t.Helper()
	id := f.ids.NextID()
	require.NoError(t, f.store.CreateComment(context.Background(), &model.Comment{
		ID:      id,
		VideoID: videoID,
		OwnerID: ownerID,
		Content: "nice",
	}))
	return id
}

func (f *fixture) like(t *testing.T, userID int64, target model.LikeTarget) {
	t.Helper()
	res, err := f.svc.Toggles.ToggleLike(context.Background(), userID, target)
	require.NoError(t, err)
	require.True(t, res.Active)
}

func (f *fixture) subscribe(t *testing.T, subscriberID, channelID int64) {
	t.Helper()
	res, err := f.svc.Toggles.ToggleSubscription(context.Background(), subscriberID, channelID)
	require.NoError(t, err)
	require.True(t, res.Active)
}

func (f *fixture) likeCount(t *testing.T, target model.LikeTarget) int64 {
	t.Helper()
	counts, err := f.store.CountLikes(context.Background(), target.Kind, []int64{target.ID})
	require.NoError(t, err)
	return counts[target.ID]
}

// tempFile 写一个临时文件作为上传源
func tempFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))
	return p
}
