package service

import (
	"context"
	"testing"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoFeedPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	want := map[int64]bool{}
	for i := 0; i < 23; i++ {
		want[f.video(t, alice, "clip", true)] = true
	}

	seen := map[int64]bool{}
	for page := 1; page <= 5; page++ {
		res, err := f.svc.Views.VideoFeed(ctx, 0, FeedQuery{Page: Page{Page: page, Limit: 5}})
		require.NoError(t, err)
		assert.Equal(t, int64(23), res.TotalItems)
		assert.Equal(t, int64(5), res.TotalPages)
		for _, item := range res.Items {
			assert.False(t, seen[item.ID], "video %d seen twice", item.ID)
			seen[item.ID] = true
			require.NotNil(t, item.Owner)
			assert.Equal(t, "alice", item.Owner.UserName)
		}
	}
	assert.Equal(t, want, seen)

	res, err := f.svc.Views.VideoFeed(ctx, 0, FeedQuery{Page: Page{Page: 6, Limit: 5}})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = f.svc.Views.VideoFeed(ctx, 0, FeedQuery{Page: Page{Limit: 1000}})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Limit)
	assert.Len(t, res.Items, 23)

	_, err = f.svc.Views.VideoFeed(ctx, 0, FeedQuery{Page: Page{Page: -1}})
	assert.ErrorIs(t, err, errno.InvalidInput)
	_, err = f.svc.Views.VideoFeed(ctx, 0, FeedQuery{SortBy: "likes"})
	assert.ErrorIs(t, err, errno.InvalidInput)
}

func TestVideoFeedSortAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	first := f.video(t, alice, "Go Concurrency", true)
	second := f.video(t, alice, "cooking pasta", true)
	require.NoError(t, f.store.IncrVideoViews(ctx, first))

	res, err := f.svc.Views.VideoFeed(ctx, 0, FeedQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, second, res.Items[0].ID)

	res, err = f.svc.Views.VideoFeed(ctx, 0, FeedQuery{SortBy: "views", SortType: "desc"})
	require.NoError(t, err)
	assert.Equal(t, first, res.Items[0].ID)

	res, err = f.svc.Views.VideoFeed(ctx, 0, FeedQuery{Query: "concurrency"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, first, res.Items[0].ID)
}

func TestViewIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	public := f.video(t, alice, "public", true)
	draft := f.video(t, alice, "draft", false)

	ids := func(items []*VideoItem) []int64 {
		out := make([]int64, len(items))
		for i, v := range items {
			out[i] = v.ID
		}
		return out
	}

	res, err := f.svc.Views.VideoFeed(ctx, bob, FeedQuery{OwnerID: alice})
	require.NoError(t, err)
	assert.Equal(t, []int64{public}, ids(res.Items))

	res, err = f.svc.Views.VideoFeed(ctx, alice, FeedQuery{OwnerID: alice})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{public, draft}, ids(res.Items))

	// 作者本人的公共流不包含草稿
	res, err = f.svc.Views.VideoFeed(ctx, alice, FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int64{public}, ids(res.Items))

	_, err = f.svc.Views.VideoDetail(ctx, bob, draft)
	assert.ErrorIs(t, err, errno.NotFound)
	_, err = f.svc.Views.VideoDetail(ctx, 0, draft)
	assert.ErrorIs(t, err, errno.NotFound)
	detail, err := f.svc.Views.VideoDetail(ctx, alice, draft)
	require.NoError(t, err)
	assert.False(t, detail.IsPublished)

	_, err = f.svc.Views.VideoComments(ctx, bob, draft, Page{})
	assert.ErrorIs(t, err, errno.NotFound)

	channel, err := f.svc.Views.ChannelVideos(ctx, bob, alice, Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{public}, ids(channel.Items))
	channel, err = f.svc.Views.ChannelVideos(ctx, alice, alice, Page{})
	require.NoError(t, err)
	assert.Len(t, channel.Items, 2)
}

func TestVideoDetailJoins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v := f.video(t, alice, "intro", true)
	f.like(t, bob, model.VideoTarget(v))
	f.subscribe(t, bob, alice)

	detail, err := f.svc.Views.VideoDetail(ctx, bob, v)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.LikesCount)
	assert.True(t, detail.IsLiked)
	assert.True(t, detail.IsSubscribed)
	assert.Equal(t, int64(1), detail.SubscribersCount)
	assert.Equal(t, alice, detail.Owner.ID)

	anon, err := f.svc.Views.VideoDetail(ctx, 0, v)
	require.NoError(t, err)
	assert.False(t, anon.IsLiked)
	assert.False(t, anon.IsSubscribed)
	assert.Equal(t, int64(1), anon.LikesCount)

	_, err = f.svc.Views.VideoDetail(ctx, bob, 424242)
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestMissingOwnerYieldsNilProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.video(t, 777, "orphan", true)

	res, err := f.svc.Views.VideoFeed(ctx, 0, FeedQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, v, res.Items[0].ID)
	assert.Nil(t, res.Items[0].Owner)
}

func TestLikeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v := f.video(t, alice, "intro", true)

	f.like(t, bob, model.VideoTarget(v))
	stats, err := f.svc.Views.ChannelStats(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalLikes)
	assert.Equal(t, int64(1), stats.TotalVideos)

	res, err := f.svc.Toggles.ToggleLike(ctx, bob, model.VideoTarget(v))
	require.NoError(t, err)
	assert.False(t, res.Active)

	stats, err = f.svc.Views.ChannelStats(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLikes)
}

func TestChannelStatsCountsDraftsForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	pub := f.video(t, alice, "public", true)
	f.video(t, alice, "draft", false)
	require.NoError(t, f.store.IncrVideoViews(ctx, pub))
	f.subscribe(t, bob, alice)

	own, err := f.svc.Views.ChannelStats(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), own.TotalVideos)
	assert.Equal(t, int64(1), own.TotalViews)
	assert.Equal(t, int64(1), own.TotalSubscribers)

	other, err := f.svc.Views.ChannelStats(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.TotalVideos)

	_, err = f.svc.Views.ChannelStats(ctx, bob, 424242)
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestSubscribeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	f.subscribe(t, a, c)
	f.subscribe(t, b, c)
	f.subscribe(t, a, b)

	res, err := f.svc.Views.ChannelSubscribers(ctx, a, c, Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(2), res.TotalItems)

	rows := map[int64]*SubscriberItem{}
	for _, item := range res.Items {
		rows[item.Subscriber.ID] = item
	}
	require.Contains(t, rows, b)
	assert.True(t, rows[b].IsSubscribed)
	assert.Equal(t, int64(1), rows[b].SubscribersCount)
	require.Contains(t, rows, a)
	assert.False(t, rows[a].IsSubscribed)
	assert.Equal(t, int64(0), rows[a].SubscribersCount)
	assert.Equal(t, b, res.Items[0].Subscriber.ID)

	anon, err := f.svc.Views.ChannelSubscribers(ctx, 0, c, Page{})
	require.NoError(t, err)
	for _, item := range anon.Items {
		assert.False(t, item.IsSubscribed)
	}

	channels, err := f.svc.Views.SubscribedChannels(ctx, a, Page{})
	require.NoError(t, err)
	require.Len(t, channels.Items, 2)
	assert.Equal(t, b, channels.Items[0].Channel.ID)
	assert.Equal(t, int64(1), channels.Items[0].SubscribersCount)
	assert.Equal(t, c, channels.Items[1].Channel.ID)
	assert.Equal(t, int64(2), channels.Items[1].SubscribersCount)

	empty, err := f.svc.Views.SubscribedChannels(ctx, 0, Page{})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	profile, err := f.svc.Views.ChannelProfile(ctx, a, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	_, err = f.svc.Views.ChannelProfile(ctx, a, "nobody")
	assert.ErrorIs(t, err, errno.NotFound)
	_, err = f.svc.Views.ChannelSubscribers(ctx, a, 424242, Page{})
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestVideoComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v := f.video(t, alice, "intro", true)
	older := f.comment(t, v, alice)
	newer := f.comment(t, v, bob)
	f.like(t, alice, model.CommentTarget(newer))

	res, err := f.svc.Views.VideoComments(ctx, alice, v, Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, newer, res.Items[0].ID)
	assert.Equal(t, older, res.Items[1].ID)
	assert.Equal(t, int64(1), res.Items[0].LikesCount)
	assert.True(t, res.Items[0].IsLiked)
	assert.Equal(t, "bob", res.Items[0].Owner.UserName)
	assert.False(t, res.Items[1].IsLiked)
}

func TestUserTweets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	tw, err := f.svc.CreateTweet(ctx, alice, "hello")
	require.NoError(t, err)
	f.like(t, bob, model.TweetTarget(tw.ID))

	res, err := f.svc.Views.UserTweets(ctx, bob, alice, Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "hello", res.Items[0].Content)
	assert.True(t, res.Items[0].IsLiked)
	assert.Equal(t, int64(1), res.Items[0].LikesCount)

	_, err = f.svc.Views.UserTweets(ctx, bob, 424242, Page{})
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestWatchHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v1 := f.video(t, alice, "one", true)
	v2 := f.video(t, alice, "two", true)
	v3 := f.video(t, alice, "three", true)
	v4 := f.video(t, alice, "four", true)

	for _, v := range []int64{v1, v2, v1, v3, v4} {
		require.NoError(t, f.svc.RecordView(ctx, bob, v))
	}
	// 上限为 3
	u, err := f.store.GetUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{v4, v3, v1}, u.WatchHistory)

	got, err := f.store.GetVideo(ctx, v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)

	state, err := f.svc.TogglePublish(ctx, alice, v3)
	require.NoError(t, err)
	assert.False(t, state.IsPublished)
	res, err := f.svc.Views.WatchHistory(ctx, bob, Page{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalItems)
	require.Len(t, res.Items, 1)
	assert.Equal(t, v4, res.Items[0].ID)

	res, err = f.svc.Views.WatchHistory(ctx, bob, Page{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, v1, res.Items[0].ID)

	anon, err := f.svc.Views.WatchHistory(ctx, 0, Page{})
	require.NoError(t, err)
	assert.Empty(t, anon.Items)
}

func TestLikedVideos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v1 := f.video(t, alice, "one", true)
	v2 := f.video(t, alice, "two", true)
	f.like(t, bob, model.VideoTarget(v1))
	f.like(t, bob, model.VideoTarget(v2))
	require.NoError(t, f.svc.DeleteVideo(ctx, alice, v1))

	res, err := f.svc.Views.LikedVideos(ctx, bob, Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, v2, res.Items[0].Video.ID)
	assert.False(t, res.Items[0].LikedAt.IsZero())
}
