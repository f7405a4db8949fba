package service

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/pkg/errno"
)

// PlaylistDetail 视频按加入顺序，跳过已删除和不可见的
func (c *Composer) PlaylistDetail(ctx context.Context, viewerID, playlistID int64) (*PlaylistDetail, error) {
	defer observeView("playlist_detail", time.Now())
	if playlistID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	pl, err := c.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	videos, err := c.store.VideosByIDs(ctx, pl.VideoIDs)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	visible := visibleInOrder(pl.VideoIDs, videos, viewerID)
	items, err := c.videoItems(ctx, viewerID, visible)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	owners, err := c.store.UsersByIDs(ctx, []int64{pl.OwnerID})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	item := playlistItemOf(pl)
	item.VideoCount = len(items)
	return &PlaylistDetail{
		PlaylistItem: *item,
		Owner:        profileOf(owners[pl.OwnerID]),
		Videos:       items,
	}, nil
}

func (c *Composer) UserPlaylists(ctx context.Context, userID int64, p Page) (*PageResult[*PlaylistItem], error) {
	defer observeView("user_playlists", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	if _, err := c.store.GetUser(ctx, userID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	pls, total, err := c.store.FindPlaylists(ctx, dal.PlaylistQuery{
		OwnerID: userID,
		Offset:  page.offset(),
		Limit:   page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*PlaylistItem, len(pls))
	for i, pl := range pls {
		items[i] = playlistItemOf(pl)
	}
	return newPageResult(items, page, total), nil
}
