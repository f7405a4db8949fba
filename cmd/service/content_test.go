package service

import (
	"context"
	"testing"

	"VidTube.com/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.svc.Register(ctx, &RegisterRequest{
		UserName: " Alice ",
		Email:    "Alice@Example.com",
		FullName: "Alice Liddell",
		Password: "secret",
		Avatar:   &Upload{Path: tempFile(t, "a.png"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.AvatarURL)
	assert.Empty(t, u.CoverURL)

	_, err = f.svc.Register(ctx, &RegisterRequest{UserName: "ALICE", Email: "x@example.com", FullName: "x", Password: "p"})
	assert.ErrorIs(t, err, errno.Conflict)
	_, err = f.svc.Register(ctx, &RegisterRequest{UserName: "other", Email: "alice@example.com", FullName: "x", Password: "p"})
	assert.ErrorIs(t, err, errno.Conflict)
	_, err = f.svc.Register(ctx, &RegisterRequest{UserName: "other", Email: "not-an-email", FullName: "x", Password: "p"})
	assert.ErrorIs(t, err, errno.InvalidInput)

	got, err := f.svc.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	got, err = f.svc.Authenticate(ctx, "ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, errno.Forbidden)
	_, err = f.svc.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, errno.NotFound)

	require.NoError(t, f.svc.ChangePassword(ctx, u.ID, "secret", "better"))
	_, err = f.svc.Authenticate(ctx, "alice", "better")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, u.ID, "secret", "again"), errno.InvalidInput)
}

func TestAccountUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")

	first, err := f.svc.UpdateAvatar(ctx, alice, &Upload{Path: tempFile(t, "1.png"), ContentType: "image/png"})
	require.NoError(t, err)
	require.Equal(t, 1, f.blobs.Len())

	second, err := f.svc.UpdateAvatar(ctx, alice, &Upload{Path: tempFile(t, "2.jpg"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarURL, second.AvatarURL)
	assert.Equal(t, 1, f.blobs.Len())

	cover, err := f.svc.UpdateCover(ctx, alice, &Upload{Path: tempFile(t, "c.png"), ContentType: "image/png"})
	require.NoError(t, err)
	assert.NotEmpty(t, cover.CoverURL)
	assert.Equal(t, 2, f.blobs.Len())

	_, err = f.svc.UpdateAvatar(ctx, alice, &Upload{Path: tempFile(t, "x.gif"), ContentType: "image/gif"})
	assert.ErrorIs(t, err, errno.InvalidInput)
	_, err = f.svc.UpdateAvatar(ctx, 0, &Upload{Path: tempFile(t, "1.png"), ContentType: "image/png"})
	assert.ErrorIs(t, err, errno.Forbidden)

	updated, err := f.svc.UpdateAccount(ctx, alice, &UpdateAccountRequest{FullName: "Alice L"})
	require.NoError(t, err)
	assert.Equal(t, "Alice L", updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = f.svc.UpdateAccount(ctx, alice, &UpdateAccountRequest{Email: "bob@example.com"})
	assert.ErrorIs(t, err, errno.Conflict)

	me, err := f.svc.CurrentUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Alice L", me.FullName)
	_, err = f.svc.CurrentUser(ctx, 0)
	assert.ErrorIs(t, err, errno.Forbidden)
}

func TestOwnershipGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v := f.video(t, alice, "intro", true)
	c, err := f.svc.AddComment(ctx, alice, v, "mine")
	require.NoError(t, err)
	tw, err := f.svc.CreateTweet(ctx, alice, "mine")
	require.NoError(t, err)
	pl, err := f.svc.CreatePlaylist(ctx, alice, "mine", "")
	require.NoError(t, err)

	for _, viewer := range []int64{bob, 0} {
		_, err = f.svc.UpdateVideo(ctx, viewer, v, &UpdateVideoRequest{Title: "stolen"})
		assert.ErrorIs(t, err, errno.Forbidden)
		_, err = f.svc.TogglePublish(ctx, viewer, v)
		assert.ErrorIs(t, err, errno.Forbidden)
		assert.ErrorIs(t, f.svc.DeleteVideo(ctx, viewer, v), errno.Forbidden)
		_, err = f.svc.UpdateComment(ctx, viewer, c.ID, "stolen")
		assert.ErrorIs(t, err, errno.Forbidden)
		assert.ErrorIs(t, f.svc.DeleteComment(ctx, viewer, c.ID), errno.Forbidden)
		_, err = f.svc.UpdateTweet(ctx, viewer, tw.ID, "stolen")
		assert.ErrorIs(t, err, errno.Forbidden)
		assert.ErrorIs(t, f.svc.DeleteTweet(ctx, viewer, tw.ID), errno.Forbidden)
		_, err = f.svc.UpdatePlaylist(ctx, viewer, pl.ID, "stolen", "")
		assert.ErrorIs(t, err, errno.Forbidden)
		_, err = f.svc.AddPlaylistVideo(ctx, viewer, pl.ID, v)
		assert.ErrorIs(t, err, errno.Forbidden)
		_, err = f.svc.RemovePlaylistVideo(ctx, viewer, pl.ID, v)
		assert.ErrorIs(t, err, errno.Forbidden)
		assert.ErrorIs(t, f.svc.DeletePlaylist(ctx, viewer, pl.ID), errno.Forbidden)
	}

	got, err := f.store.GetVideo(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, "intro", got.Title)

	_, err = f.svc.UpdateVideo(ctx, alice, 424242, &UpdateVideoRequest{Title: "x"})
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestVideoOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	_, err := f.svc.PublishVideo(ctx, alice, &PublishVideoRequest{Title: "no files"})
	assert.ErrorIs(t, err, errno.InvalidInput)
	_, err = f.svc.PublishVideo(ctx, 0, &PublishVideoRequest{Title: "anon"})
	assert.ErrorIs(t, err, errno.Forbidden)

	v := publish(t, f, alice, "first cut")
	assert.True(t, v.IsPublished)
	assert.Equal(t, "alice", v.Owner.UserName)

	updated, err := f.svc.UpdateVideo(ctx, alice, v.ID, &UpdateVideoRequest{
		Description: "director's cut",
		Thumbnail:   &Upload{Path: tempFile(t, "new.png"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "first cut", updated.Title)
	assert.Equal(t, "director's cut", updated.Description)
	assert.NotEqual(t, v.ThumbnailURL, updated.ThumbnailURL)
	assert.Equal(t, 2, f.blobs.Len())

	state, err := f.svc.TogglePublish(ctx, alice, v.ID)
	require.NoError(t, err)
	assert.False(t, state.IsPublished)

	assert.ErrorIs(t, f.svc.RecordView(ctx, bob, v.ID), errno.NotFound)
	require.NoError(t, f.svc.RecordView(ctx, alice, v.ID))
	_, err = f.svc.AddComment(ctx, bob, v.ID, "hi")
	assert.ErrorIs(t, err, errno.NotFound)

	state, err = f.svc.TogglePublish(ctx, alice, v.ID)
	require.NoError(t, err)
	assert.True(t, state.IsPublished)
	require.NoError(t, f.svc.RecordView(ctx, 0, v.ID))

	got, err := f.store.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
}

func TestCommentAndTweetOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	v := f.video(t, alice, "intro", true)

	_, err := f.svc.AddComment(ctx, 0, v, "anon")
	assert.ErrorIs(t, err, errno.Forbidden)
	_, err = f.svc.AddComment(ctx, alice, v, "   ")
	assert.ErrorIs(t, err, errno.InvalidInput)
	_, err = f.svc.AddComment(ctx, alice, 424242, "lost")
	assert.ErrorIs(t, err, errno.NotFound)

	c, err := f.svc.AddComment(ctx, alice, v, "first")
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Owner.UserName)
	edited, err := f.svc.UpdateComment(ctx, alice, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.Equal(t, c.CreatedAt, edited.CreatedAt)

	tw, err := f.svc.CreateTweet(ctx, alice, "hello")
	require.NoError(t, err)
	tw, err = f.svc.UpdateTweet(ctx, alice, tw.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", tw.Content)
	_, err = f.svc.CreateTweet(ctx, alice, "")
	assert.ErrorIs(t, err, errno.InvalidInput)
}

func TestPlaylistOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	v1 := f.video(t, alice, "one", true)
	v2 := f.video(t, alice, "two", true)
	bobDraft := f.video(t, bob, "draft", false)
	ownDraft := f.video(t, alice, "own draft", false)

	pl, err := f.svc.CreatePlaylist(ctx, alice, "faves", "best of")
	require.NoError(t, err)

	for _, id := range []int64{v2, v1, v2} {
		pl, err = f.svc.AddPlaylistVideo(ctx, alice, pl.ID, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, pl.VideoCount)

	_, err = f.svc.AddPlaylistVideo(ctx, alice, pl.ID, bobDraft)
	assert.ErrorIs(t, err, errno.InvalidTarget)
	_, err = f.svc.AddPlaylistVideo(ctx, alice, pl.ID, 424242)
	assert.ErrorIs(t, err, errno.InvalidTarget)
	pl, err = f.svc.AddPlaylistVideo(ctx, alice, pl.ID, ownDraft)
	require.NoError(t, err)
	assert.Equal(t, 3, pl.VideoCount)

	// 其他人看不到作者的草稿
	detail, err := f.svc.Views.PlaylistDetail(ctx, bob, pl.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, v2, detail.Videos[0].ID)
	assert.Equal(t, v1, detail.Videos[1].ID)
	assert.Equal(t, "alice", detail.Owner.UserName)

	pl, err = f.svc.RemovePlaylistVideo(ctx, alice, pl.ID, v2)
	require.NoError(t, err)
	assert.Equal(t, 2, pl.VideoCount)

	pl, err = f.svc.UpdatePlaylist(ctx, alice, pl.ID, "", "renamed description")
	require.NoError(t, err)
	assert.Equal(t, "faves", pl.Name)
	assert.Equal(t, "renamed description", pl.Description)

	list, err := f.svc.Views.UserPlaylists(ctx, alice, Page{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Items[0].VideoCount)

	require.NoError(t, f.svc.DeletePlaylist(ctx, alice, pl.ID))
	_, err = f.svc.Views.PlaylistDetail(ctx, alice, pl.ID)
	assert.ErrorIs(t, err, errno.NotFound)
}

func TestAssertOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	v, err := f.store.GetVideo(context.Background(), f.video(t, alice, "x", true))
	require.NoError(t, err)

	assert.NoError(t, AssertOwner(v, alice))
	assert.ErrorIs(t, AssertOwner(v, alice+1), errno.Forbidden)
	assert.ErrorIs(t, AssertOwner(v, 0), errno.Forbidden)
	assert.ErrorIs(t, AssertOwner(nil, alice), errno.Forbidden)
}
