package handlers

import (
	"context"

	"VidTube.com/cmd/service"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

type FeedParam struct {
	Page     *int   `query:"page"`
	Limit    *int   `query:"limit"`
	Query    string `query:"query"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	UserID   int64  `query:"userId"`
}

func (h *Handler) VideoFeed(ctx context.Context, c *app.RequestContext) {
	var p FeedParam
	if err := c.BindQuery(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	page, err := PageParam{Page: p.Page, Limit: p.Limit}.page()
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.VideoFeed(ctx, ViewerID(c), service.FeedQuery{
		Page:     page,
		OwnerID:  p.UserID,
		Query:    p.Query,
		SortBy:   p.SortBy,
		SortType: p.SortType,
	})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

type PublishVideoParam struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Duration    float64 `form:"duration"`
}

func (h *Handler) PublishVideo(ctx context.Context, c *app.RequestContext) {
	var p PublishVideoParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	var up uploads
	defer up.cleanup(ctx)
	media, err := up.file(c, "videoFile")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	thumb, err := up.file(c, "thumbnail")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	v, err := h.svc.PublishVideo(ctx, ViewerID(c), &service.PublishVideoRequest{
		Title:           p.Title,
		Description:     p.Description,
		DurationSeconds: p.Duration,
		Media:           media,
		Thumbnail:       thumb,
	})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, v)
}

func (h *Handler) VideoDetail(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	v, err := h.svc.Views.VideoDetail(ctx, ViewerID(c), id)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, v)
}

type UpdateVideoParam struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

func (h *Handler) UpdateVideo(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	var p UpdateVideoParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	req := &service.UpdateVideoRequest{Title: p.Title, Description: p.Description}
	var up uploads
	defer up.cleanup(ctx)
	if isMultipart(c) {
		if req.Thumbnail, err = up.file(c, "thumbnail"); err != nil {
			SendResponse(c, err, nil)
			return
		}
	}
	v, err := h.svc.UpdateVideo(ctx, ViewerID(c), id, req)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, v)
}

func (h *Handler) DeleteVideo(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, h.svc.DeleteVideo(ctx, ViewerID(c), id), nil)
}

func (h *Handler) TogglePublish(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	state, err := h.svc.TogglePublish(ctx, ViewerID(c), id)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, state)
}

func (h *Handler) RecordView(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, h.svc.RecordView(ctx, ViewerID(c), id), nil)
}

func (h *Handler) ChannelStats(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "channelId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	stats, err := h.svc.Views.ChannelStats(ctx, ViewerID(c), id)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, stats)
}

func (h *Handler) ChannelVideos(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "channelId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.ChannelVideos(ctx, ViewerID(c), id, page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}
