package handlers

import (
	"context"

	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

func (h *Handler) ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "channelId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Toggles.ToggleSubscription(ctx, ViewerID(c), id)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func (h *Handler) ChannelSubscribers(ctx context.Context, c *app.RequestContext) {
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
	res, err := h.svc.Views.ChannelSubscribers(ctx, ViewerID(c), id, page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func (h *Handler) SubscribedChannels(ctx context.Context, c *app.RequestContext) {
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.SubscribedChannels(ctx, ViewerID(c), page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}
