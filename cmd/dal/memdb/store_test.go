package memdb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, id int64, name string) *model.User {
	t.Helper()
	u := &model.User{ID: id, UserName: name, Email: name + "@example.com"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, 1, "alice")

	err := s.CreateUser(ctx, &model.User{ID: 2, UserName: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, dal.ErrDuplicate)

	err = s.CreateUser(ctx, &model.User{ID: 2, UserName: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, dal.ErrDuplicate)

	bob := seedUser(t, s, 2, "bob")
	bob.UserName = "alice"
	assert.ErrorIs(t, s.UpdateUser(ctx, bob), dal.ErrDuplicate)

	bob.UserName = "robert"
	require.NoError(t, s.UpdateUser(ctx, bob))
	got, err := s.GetUserByName(ctx, "robert")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	_, err = s.GetUserByName(ctx, "bob")
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := seedUser(t, s, 1, "alice")

	require.NoError(t, s.SetRefreshToken(ctx, 1, "t1"))
	assert.ErrorIs(t, s.SwapRefreshToken(ctx, 1, "other", "t2"), dal.ErrNotFound)
	require.NoError(t, s.SwapRefreshToken(ctx, 1, "t1", "t2"))
	assert.ErrorIs(t, s.SwapRefreshToken(ctx, 1, "t1", "t3"), dal.ErrNotFound)
	assert.ErrorIs(t, s.SwapRefreshToken(ctx, 9, "t2", "t3"), dal.ErrNotFound)

	// UpdateUser 传入的旧快照不能覆盖令牌
	u.FullName = "Alice"
	require.NoError(t, s.UpdateUser(ctx, u))
	got, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.RefreshTokenRef)

	require.NoError(t, s.SetRefreshToken(ctx, 1, ""))
	require.NoError(t, s.SetRefreshToken(ctx, 9, ""))
	got, err = s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.RefreshTokenRef)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedUser(t, s, 1, "alice")
	require.NoError(t, s.PushWatchHistory(ctx, 1, 10, 0))

	u, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	u.WatchHistory[0] = 99
	u.FullName = "changed"

	again, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, again.WatchHistory)
	assert.Empty(t, again.FullName)
}

func TestFindVideos(t *testing.T) {
	ctx := context.Background()
	s := New()
	videos := []*model.Video{
		{ID: 1, OwnerID: 1, Title: "Go Basics", IsPublished: true, ViewCount: 5, DurationSeconds: 30},
		{ID: 2, OwnerID: 1, Title: "Draft", IsPublished: false, ViewCount: 1},
		{ID: 3, OwnerID: 2, Title: "cooking", Description: "learn GO while cooking", IsPublished: true, ViewCount: 5},
		{ID: 4, OwnerID: 2, Title: "Another", IsPublished: true, ViewCount: 9},
	}
	for _, v := range videos {
		require.NoError(t, s.CreateVideo(ctx, v))
	}

	t.Run("published only hides drafts from others", func(t *testing.T) {
		got, total, err := s.FindVideos(ctx, dal.VideoQuery{PublishedOnly: true, VisibleTo: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, got, 3)
	})

	t.Run("owner sees own drafts", func(t *testing.T) {
		_, total, err := s.FindVideos(ctx, dal.VideoQuery{PublishedOnly: true, VisibleTo: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		got, total, err := s.FindVideos(ctx, dal.VideoQuery{Search: "go", PublishedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.ElementsMatch(t, []int64{1, 3}, []int64{got[0].ID, got[1].ID})
	})

	t.Run("sort by views desc breaks ties by id", func(t *testing.T) {
		got, _, err := s.FindVideos(ctx, dal.VideoQuery{SortBy: dal.SortViews, Desc: true})
		require.NoError(t, err)
		ids := make([]int64, len(got))
		for i, v := range got {
			ids[i] = v.ID
		}
		assert.Equal(t, []int64{4, 1, 3, 2}, ids)
	})

	t.Run("window", func(t *testing.T) {
		got, total, err := s.FindVideos(ctx, dal.VideoQuery{Desc: true, Offset: 3, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("ids restriction", func(t *testing.T) {
		_, total, err := s.FindVideos(ctx, dal.VideoQuery{IDs: []int64{}})
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestLikeUniqueIndex(t *testing.T) {
	ctx := context.Background()
	s := New()
	target := model.VideoTarget(7)

	require.NoError(t, s.CreateLike(ctx, &model.Like{ID: 1, LikedByID: 1, TargetKind: target.Kind, TargetID: target.ID}))
	err := s.CreateLike(ctx, &model.Like{ID: 2, LikedByID: 1, TargetKind: target.Kind, TargetID: target.ID})
	assert.ErrorIs(t, err, dal.ErrDuplicate)

	// 不同类型的同一 ID 是不同目标
	require.NoError(t, s.CreateLike(ctx, &model.Like{ID: 3, LikedByID: 1, TargetKind: model.TargetComment, TargetID: 7}))

	counts, err := s.CountLikes(ctx, model.TargetVideo, []int64{7, 8})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[7])
	assert.Zero(t, counts[8])

	deleted, err := s.DeleteLike(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteLike(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetLike(ctx, 1, target)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestConcurrentCreateLike(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := s.CreateLike(ctx, &model.Like{ID: id, LikedByID: 1, TargetKind: model.TargetTweet, TargetID: 9})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateSubscription(ctx, &model.Subscription{ID: 1, SubscriberID: 2, ChannelID: 1}))
	require.NoError(t, s.CreateSubscription(ctx, &model.Subscription{ID: 2, SubscriberID: 3, ChannelID: 1}))
	require.NoError(t, s.CreateSubscription(ctx, &model.Subscription{ID: 3, SubscriberID: 1, ChannelID: 2}))
	assert.ErrorIs(t, s.CreateSubscription(ctx, &model.Subscription{ID: 4, SubscriberID: 2, ChannelID: 1}), dal.ErrDuplicate)

	subs, total, err := s.FindSubscriptions(ctx, dal.SubscriptionQuery{ChannelID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(3), subs[0].SubscriberID, "newest first")

	counts, err := s.CountSubscribers(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 2, 2: 1}, counts)

	n, err := s.DeleteSubscriptionsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	_, total, err = s.FindSubscriptions(ctx, dal.SubscriptionQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaylistSetSemantics(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreatePlaylist(ctx, &model.Playlist{ID: 1, OwnerID: 1, Name: "mix"}))

	added, err := s.AddPlaylistVideo(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddPlaylistVideo(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.AddPlaylistVideo(ctx, 1, 11)
	require.NoError(t, err)

	n, err := s.PruneVideoFromPlaylists(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	p, err := s.GetPlaylist(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, p.VideoIDs)

	_, err = s.AddPlaylistVideo(ctx, 2, 10)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateVideo(ctx, &model.Video{ID: 1, OwnerID: 1, IsPublished: true}))
	require.NoError(t, s.CreateComment(ctx, &model.Comment{ID: 1, VideoID: 1, OwnerID: 2}))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx dal.Store) error {
		if _, err := tx.DeleteComments(ctx, dal.CommentQuery{VideoID: 1}); err != nil {
			return err
		}
		if err := tx.DeleteVideo(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetVideo(ctx, 1)
	assert.NoError(t, err)
	_, err = s.GetComment(ctx, 1)
	assert.NoError(t, err)

	require.NoError(t, s.Transaction(ctx, func(tx dal.Store) error {
		return tx.DeleteVideo(ctx, 1)
	}))
	_, err = s.GetVideo(ctx, 1)
	assert.ErrorIs(t, err, dal.ErrNotFound)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().GetUser(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChannelTotals(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateVideo(ctx, &model.Video{ID: 1, OwnerID: 1, IsPublished: true, ViewCount: 3}))
	require.NoError(t, s.CreateVideo(ctx, &model.Video{ID: 2, OwnerID: 1, IsPublished: false, ViewCount: 4}))
	require.NoError(t, s.CreateLike(ctx, &model.Like{ID: 1, LikedByID: 2, TargetKind: model.TargetVideo, TargetID: 2}))

	all, err := s.ChannelTotals(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, dal.ChannelTotals{Videos: 2, Views: 7, Likes: 1}, all)

	public, err := s.ChannelTotals(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, dal.ChannelTotals{Videos: 1, Views: 3, Likes: 0}, public)
}
