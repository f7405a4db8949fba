package handlers

import (
	"context"

	"VidTube.com/cmd/service"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

type RegisterParam struct {
	UserName string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	FullName string `form:"fullName" json:"fullName"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) Register(ctx context.Context, c *app.RequestContext) {
	var p RegisterParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	var up uploads
	defer up.cleanup(ctx)
	req := &service.RegisterRequest{UserName: p.UserName, Email: p.Email, FullName: p.FullName, Password: p.Password}
	if isMultipart(c) {
		var err error
		if req.Avatar, err = up.file(c, "avatar"); err != nil {
			SendResponse(c, err, nil)
			return
		}
		if req.Cover, err = up.file(c, "coverImage"); err != nil {
			SendResponse(c, err, nil)
			return
		}
	}
	u, err := h.svc.Register(ctx, req)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, u)
}

func (h *Handler) Logout(ctx context.Context, c *app.RequestContext) {
	SendResponse(c, h.svc.Logout(ctx, ViewerID(c)), nil)
}

func (h *Handler) CurrentUser(ctx context.Context, c *app.RequestContext) {
	u, err := h.svc.CurrentUser(ctx, ViewerID(c))
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, u)
}

type UpdateAccountParam struct {
	FullName string `form:"fullName" json:"fullName"`
	Email    string `form:"email" json:"email"`
}

func (h *Handler) UpdateAccount(ctx context.Context, c *app.RequestContext) {
	var p UpdateAccountParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	u, err := h.svc.UpdateAccount(ctx, ViewerID(c), &service.UpdateAccountRequest{FullName: p.FullName, Email: p.Email})
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, u)
}

type ChangePasswordParam struct {
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

func (h *Handler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	var p ChangePasswordParam
	if err := c.Bind(&p); err != nil {
		SendResponse(c, errno.InvalidInput.WithMessage(err.Error()), nil)
		return
	}
	SendResponse(c, h.svc.ChangePassword(ctx, ViewerID(c), p.OldPassword, p.NewPassword), nil)
}

func (h *Handler) UpdateAvatar(ctx context.Context, c *app.RequestContext) {
	h.replaceImage(ctx, c, "avatar", h.svc.UpdateAvatar)
}

func (h *Handler) UpdateCover(ctx context.Context, c *app.RequestContext) {
	h.replaceImage(ctx, c, "coverImage", h.svc.UpdateCover)
}

func (h *Handler) replaceImage(ctx context.Context, c *app.RequestContext, field string,
	replace func(context.Context, int64, *service.Upload) (*service.CurrentUser, error)) {
	var up uploads
	defer up.cleanup(ctx)
	file, err := up.file(c, field)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	u, err := replace(ctx, ViewerID(c), file)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, u)
}

func (h *Handler) DeleteAccount(ctx context.Context, c *app.RequestContext) {
	SendResponse(c, h.svc.DeleteAccount(ctx, ViewerID(c)), nil)
}

func (h *Handler) ChannelProfile(ctx context.Context, c *app.RequestContext) {
	p, err := h.svc.Views.ChannelProfile(ctx, ViewerID(c), c.Param("username"))
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, p)
}

func (h *Handler) WatchHistory(ctx context.Context, c *app.RequestContext) {
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.WatchHistory(ctx, ViewerID(c), page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func isMultipart(c *app.RequestContext) bool {
	return len(c.Request.Header.MultipartFormBoundary()) > 0
}
