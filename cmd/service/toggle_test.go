package service

import (
	"context"
	"sync"
	"testing"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	published := f.video(t, alice, "intro", true)
	draft := f.video(t, alice, "draft", false)

	t.Run("flips", func(t *testing.T) {
		res, err := f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(published))
		require.NoError(t, err)
		assert.True(t, res.Active)
		assert.Equal(t, int64(1), f.likeCount(t, model.VideoTarget(published)))

		res, err = f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(published))
		require.NoError(t, err)
		assert.False(t, res.Active)
		assert.Equal(t, int64(0), f.likeCount(t, model.VideoTarget(published)))
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.svc.Toggles.ToggleLike(ctx, 0, model.VideoTarget(published))
		assert.ErrorIs(t, err, errno.Forbidden)
	})

	t.Run("bad target", func(t *testing.T) {
		_, err := f.svc.Toggles.ToggleLike(ctx, bob, model.LikeTarget{Kind: 9, ID: published})
		assert.ErrorIs(t, err, errno.InvalidInput)
		_, err = f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(0))
		assert.ErrorIs(t, err, errno.InvalidInput)
		_, err = f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(424242))
		assert.ErrorIs(t, err, errno.InvalidTarget)
		_, err = f.svc.Toggles.ToggleLike(ctx, bob, model.TweetTarget(424242))
		assert.ErrorIs(t, err, errno.InvalidTarget)
	})

	t.Run("unpublished video", func(t *testing.T) {
		_, err := f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(draft))
		assert.ErrorIs(t, err, errno.InvalidTarget)

		res, err := f.svc.Toggles.ToggleLike(ctx, alice, model.VideoTarget(draft))
		require.NoError(t, err)
		assert.True(t, res.Active)
	})

	t.Run("comment on hidden video", func(t *testing.T) {
		c := f.comment(t, draft, alice)
		_, err := f.svc.Toggles.ToggleLike(ctx, bob, model.CommentTarget(c))
		assert.ErrorIs(t, err, errno.InvalidTarget)
	})

	t.Run("self like allowed", func(t *testing.T) {
		res, err := f.svc.Toggles.ToggleLike(ctx, alice, model.VideoTarget(published))
		require.NoError(t, err)
		assert.True(t, res.Active)
	})
}

func TestToggleSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	res, err := f.svc.Toggles.ToggleSubscription(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, res.Active)

	_, err = f.svc.Toggles.ToggleSubscription(ctx, alice, alice)
	assert.ErrorIs(t, err, errno.InvalidInput)

	_, err = f.svc.Toggles.ToggleSubscription(ctx, alice, 424242)
	assert.ErrorIs(t, err, errno.InvalidTarget)

	res, err = f.svc.Toggles.ToggleSubscription(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, res.Active)
}

func TestToggleRace(t *testing.T) {
	for _, n := range []int{40, 41} {
		f := newFixture(t)
		alice := f.user(t, "alice")
		bob := f.user(t, "bob")
		v := f.video(t, alice, "race", true)

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			flips = map[bool]int{}
		)
		for i := 0; i < n; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				res, err := f.svc.Toggles.ToggleLike(context.Background(), bob, model.VideoTarget(v))
				if assert.NoError(t, err) {
					mu.Lock()
					flips[res.Active]++
					mu.Unlock()
				}
			}()
			go func() {
				defer wg.Done()
				_, err := f.svc.Toggles.ToggleSubscription(context.Background(), bob, alice)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		want := int64(n % 2)
		assert.Equal(t, want, f.likeCount(t, model.VideoTarget(v)), "n=%d", n)
		assert.Equal(t, flips[true]-flips[false], int(want))

		subs, err := f.store.CountSubscribers(context.Background(), []int64{alice})
		require.NoError(t, err)
		assert.Equal(t, want, subs[alice])
	}
}

// vanishingStore 边写入成功后立即删除目标，模拟级联删除与切换交错
type vanishingStore struct {
	dal.Store
	videoID   int64
	channelID int64
}

func (s vanishingStore) CreateLike(ctx context.Context, l *model.Like) error {
	if err := s.Store.CreateLike(ctx, l); err != nil {
		return err
	}
	return s.Store.DeleteVideo(ctx, s.videoID)
}

func (s vanishingStore) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := s.Store.CreateSubscription(ctx, sub); err != nil {
		return err
	}
	return s.Store.DeleteUser(ctx, s.channelID)
}

func TestToggleTargetDeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v := f.video(t, alice, "intro", true)
	svc := f.service(vanishingStore{Store: f.store, videoID: v, channelID: alice}, Options{})

	_, err := svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(v))
	assert.ErrorIs(t, err, errno.InvalidTarget)
	_, err = f.store.GetLike(ctx, bob, model.VideoTarget(v))
	assert.ErrorIs(t, err, dal.ErrNotFound)

	_, err = svc.Toggles.ToggleSubscription(ctx, bob, alice)
	assert.ErrorIs(t, err, errno.InvalidTarget)
	_, err = f.store.GetSubscription(ctx, bob, alice)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}
