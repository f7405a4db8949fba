package handlers

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

type ContentParam struct {
	Content string `form:"content" json:"content"`
}

func bindContent(c *app.RequestContext) (string, error) {
	var p ContentParam
	if err := c.Bind(&p); err != nil {
		return "", errno.InvalidInput.WithMessage(err.Error())
	}
	return p.Content, nil
}

func (h *Handler) VideoComments(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.VideoComments(ctx, ViewerID(c), id, page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func (h *Handler) AddComment(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "videoId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	cm, err := h.svc.AddComment(ctx, ViewerID(c), id, content)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, cm)
}

func (h *Handler) UpdateComment(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	cm, err := h.svc.UpdateComment(ctx, ViewerID(c), id, content)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, cm)
}

func (h *Handler) DeleteComment(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "commentId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, h.svc.DeleteComment(ctx, ViewerID(c), id), nil)
}

func (h *Handler) CreateTweet(ctx context.Context, c *app.RequestContext) {
	content, err := bindContent(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	t, err := h.svc.CreateTweet(ctx, ViewerID(c), content)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, t)
}

func (h *Handler) UserTweets(ctx context.Context, c *app.RequestContext) {
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
	res, err := h.svc.Views.UserTweets(ctx, ViewerID(c), id, page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}

func (h *Handler) UpdateTweet(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	content, err := bindContent(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	t, err := h.svc.UpdateTweet(ctx, ViewerID(c), id, content)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, t)
}

func (h *Handler) DeleteTweet(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "tweetId")
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, h.svc.DeleteTweet(ctx, ViewerID(c), id), nil)
}

// ToggleLike 返回一个按目标类型绑定路径参数的点赞处理函数
func (h *Handler) ToggleLike(kind model.TargetKind, param string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		id, err := pathID(c, param)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		res, err := h.svc.Toggles.ToggleLike(ctx, ViewerID(c), model.LikeTarget{Kind: kind, ID: id})
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		SendResponse(c, errno.Success, res)
	}
}

func (h *Handler) LikedVideos(ctx context.Context, c *app.RequestContext) {
	page, err := bindPage(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.Views.LikedVideos(ctx, ViewerID(c), page)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, errno.Success, res)
}
