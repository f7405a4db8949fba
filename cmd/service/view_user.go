package service

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

// WatchHistory 跳过已删除或不可见的视频后再分页
func (c *Composer) WatchHistory(ctx context.Context, viewerID int64, p Page) (*PageResult[*VideoItem], error) {
	defer observeView("watch_history", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if viewerID == 0 {
		return newPageResult[*VideoItem](nil, page, 0), nil
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	u, err := c.store.GetUser(ctx, viewerID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if len(u.WatchHistory) == 0 {
		return newPageResult[*VideoItem](nil, page, 0), nil
	}
	videos, err := c.store.VideosByIDs(ctx, u.WatchHistory)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	visible := visibleInOrder(u.WatchHistory, videos, viewerID)
	items, err := c.videoItems(ctx, viewerID, dal.Window(visible, page.offset(), page.Limit))
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return newPageResult(items, page, int64(len(visible))), nil
}

// LikedVideos 观看者点赞过的视频，按点赞时间倒序
func (c *Composer) LikedVideos(ctx context.Context, viewerID int64, p Page) (*PageResult[*LikedVideoItem], error) {
	defer observeView("liked_videos", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if viewerID == 0 {
		return newPageResult[*LikedVideoItem](nil, page, 0), nil
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	likes, _, err := c.store.FindLikes(ctx, dal.LikeQuery{LikedByID: viewerID, Kind: model.TargetVideo})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	ids := make([]int64, len(likes))
	likedAt := make(map[int64]time.Time, len(likes))
	for i, l := range likes {
		ids[i] = l.TargetID
		likedAt[l.TargetID] = l.CreatedAt
	}
	videos, err := c.store.VideosByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	visible := visibleInOrder(ids, videos, viewerID)
	vitems, err := c.videoItems(ctx, viewerID, dal.Window(visible, page.offset(), page.Limit))
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*LikedVideoItem, len(vitems))
	for i, v := range vitems {
		items[i] = &LikedVideoItem{Video: v, LikedAt: likedAt[v.ID]}
	}
	return newPageResult(items, page, int64(len(visible))), nil
}
