package handlers

import (
	"context"

	"VidTube.com/cmd/service"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

type PlaylistParam struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

func (h *Handler) CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	var p PlaylistParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	pl, err := h.svc.CreatePlaylist(ctx, ViewerID(c), p.Name, p.Description)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, pl)
}

func (h *Handler) PlaylistDetail(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	pl, err := h.svc.Views.PlaylistDetail(ctx, ViewerID(c), id)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, pl)
}

func (h *Handler) UserPlaylists(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "userId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.UserPlaylists(ctx, id, page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func (h *Handler) UpdatePlaylist(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	var p PlaylistParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	pl, err := h.svc.UpdatePlaylist(ctx, ViewerID(c), id, p.Name, p.Description)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, pl)
}

func (h *Handler) DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, h.svc.DeletePlaylist(ctx, ViewerID(c), id), nil)
}

func (h *Handler) AddPlaylistVideo(ctx context.Context, c *app.RequestContext) {
	h.changePlaylist(ctx, c, h.svc.AddPlaylistVideo)
}

func (h *Handler) RemovePlaylistVideo(ctx context.Context, c *app.RequestContext) {
	h.changePlaylist(ctx, c, h.svc.RemovePlaylistVideo)
}

func (h *Handler) changePlaylist(ctx context.Context, c *app.RequestContext,
	change func(ctx context.Context, viewerID, playlistID, videoID int64) (*service.PlaylistItem, error)) {
	playlistID, err := pathID(c, "playlistId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	videoID, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	pl, err := change(ctx, ViewerID(c), playlistID, videoID)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, pl)
}
