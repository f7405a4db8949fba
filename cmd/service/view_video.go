package service

import (
	"context"
	"strings"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type FeedQuery struct {
	Page
	OwnerID  int64  `query:"owner_id"`
	Query    string `query:"query"`
	SortBy   string `query:"sort_by"`
	SortType string `query:"sort_type"`
}

func (q FeedQuery) order() (string, bool, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = dal.SortCreatedAt
	}
	if !dal.ValidSort(sortBy) {
		return "", false, errno.InvalidInput.WithMessage("unknown sort_by")
	}
	switch strings.ToLower(q.SortType) {
	case "", "desc":
		return sortBy, true, nil
	case "asc":
		return sortBy, false, nil
	}
	return "", false, errno.InvalidInput.WithMessage("sort_type must be asc or desc")
}

// VideoFeed 公开视频流，作者本人按 owner_id 查询时包含未发布视频
func (c *Composer) VideoFeed(ctx context.Context, viewerID int64, q FeedQuery) (*PageResult[*VideoItem], error) {
	defer observeView("video_feed", time.Now())
	page, err := q.Page.normalize()
	if err != nil {
		return nil, err
	}
	sortBy, desc, err := q.order()
	if err != nil {
		return nil, err
	}
	if q.OwnerID < 0 {
		return nil, errno.InvalidInput
	}

	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	vq := dal.VideoQuery{
		OwnerID:       q.OwnerID,
		PublishedOnly: true,
		SortBy:        sortBy,
		Desc:          desc,
		Offset:        page.offset(),
		Limit:         page.Limit,
	}
	if viewerID != 0 && q.OwnerID == viewerID {
		vq.VisibleTo = viewerID
	}
	if text := strings.TrimSpace(q.Query); text != "" {
		vq.Search = text
		if c.index != nil {
			ids, err := c.index.Search(ctx, text, c.opts.SearchCandidates)
			if err != nil {
				hlog.CtxWarnf(ctx, "video index search failed, falling back to store: %v", err)
			} else {
				vq.IDs, vq.Search = ids, ""
			}
		}
	}

	videos, total, err := c.store.FindVideos(ctx, vq)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items, err := c.videoItems(ctx, viewerID, videos)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return newPageResult(items, page, total), nil
}

// VideoDetail 未发布且不是作者时按不存在处理
func (c *Composer) VideoDetail(ctx context.Context, viewerID, videoID int64) (*VideoDetail, error) {
	defer observeView("video_detail", time.Now())
	if videoID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	v, err := c.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if !v.VisibleTo(viewerID) {
		return nil, errno.NotFound
	}
	j, err := c.join(ctx, joinPlan{
		viewerID: viewerID,
		owners:   []int64{v.OwnerID},
		likeKind: model.TargetVideo,
		likeIDs:  []int64{v.ID},
		channels: []int64{v.OwnerID},
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return &VideoDetail{
		VideoItem:        *videoItemOf(v, j),
		IsLiked:          j.liked[v.ID],
		IsSubscribed:     j.subscribed[v.OwnerID],
		SubscribersCount: j.subscribers[v.OwnerID],
	}, nil
}

// ChannelVideos 频道视频管理页，作者本人可见未发布视频
func (c *Composer) ChannelVideos(ctx context.Context, viewerID, channelID int64, p Page) (*PageResult[*VideoItem], error) {
	defer observeView("channel_videos", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if channelID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	if _, err := c.store.GetUser(ctx, channelID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	videos, total, err := c.store.FindVideos(ctx, dal.VideoQuery{
		OwnerID:       channelID,
		PublishedOnly: viewerID != channelID,
		SortBy:        dal.SortCreatedAt,
		Desc:          true,
		Offset:        page.offset(),
		Limit:         page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items, err := c.videoItems(ctx, viewerID, videos)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return newPageResult(items, page, total), nil
}
