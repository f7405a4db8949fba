package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/lock"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type EdgeKind int8

const (
	EdgeLike EdgeKind = iota + 1
	EdgeSubscription
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeLike:
		return "like"
	case EdgeSubscription:
		return "subscription"
	}
	return "unknown"
}

type ToggleResult struct {
	Active bool `json:"active"`
}

// ToggleEngine 存在则删除，不存在则创建，每对 (主体, 目标) 至多一条边
type ToggleEngine struct {
	store  dal.Store
	locker lock.Locker
	idGen  IDGenerator
	opts   Options
}

func (e *ToggleEngine) ToggleLike(ctx context.Context, viewerID int64, target model.LikeTarget) (*ToggleResult, error) {
	return e.Toggle(ctx, EdgeLike, viewerID, target)
}

func (e *ToggleEngine) ToggleSubscription(ctx context.Context, viewerID, channelID int64) (*ToggleResult, error) {
	return e.Toggle(ctx, EdgeSubscription, viewerID, model.LikeTarget{ID: channelID})
}

// Toggle 订阅边只使用 target.ID
func (e *ToggleEngine) Toggle(ctx context.Context, kind EdgeKind, subjectID int64, target model.LikeTarget) (*ToggleResult, error) {
	if subjectID == 0 {
		return nil, errno.Forbidden
	}
	if target.ID <= 0 {
		return nil, errno.InvalidInput
	}
	switch kind {
	case EdgeLike:
		if !target.Kind.Valid() {
			return nil, errno.InvalidInput.WithMessage("unknown like target")
		}
	case EdgeSubscription:
		if subjectID == target.ID {
			return nil, errno.InvalidInput.WithMessage("cannot subscribe to yourself")
		}
	default:
		return nil, errno.InvalidInput
	}

	ctx, cancel := withTimeout(ctx, e.opts)
	defer cancel()

	if err := e.checkTarget(ctx, kind, subjectID, target); err != nil {
		return nil, err
	}

	unlock, err := e.locker.Lock(ctx, pairKey(kind, subjectID, target))
	if err != nil {
		hlog.CtxWarnf(ctx, "acquire toggle lock failed: %v", err)
		return nil, errno.TransientStoreFailure
	}
	defer unlock()

	var active bool
	if kind == EdgeLike {
		active, err = e.flipLike(ctx, subjectID, target)
	} else {
		active, err = e.flipSubscription(ctx, subjectID, target.ID)
	}
	if err != nil {
		return nil, storeErr(ctx, err, errno.InvalidTarget)
	}
	// 目标可能在校验之后被级联删除，新建的边需要再确认一次
	if active {
		if err := e.checkTarget(ctx, kind, subjectID, target); err != nil {
			if errors.Is(err, errno.InvalidTarget) {
				e.dropEdge(ctx, kind, subjectID, target)
			}
			return nil, err
		}
	}
	toggleTotal.WithLabelValues(kind.String(), strconv.FormatBool(active)).Inc()
	return &ToggleResult{Active: active}, nil
}

// dropEdge 删除指向已不存在目标的边，失败只记日志，残留的边读取时会被忽略
func (e *ToggleEngine) dropEdge(ctx context.Context, kind EdgeKind, subjectID int64, target model.LikeTarget) {
	var err error
	if kind == EdgeSubscription {
		var sub *model.Subscription
		if sub, err = e.store.GetSubscription(ctx, subjectID, target.ID); err == nil {
			_, err = e.store.DeleteSubscription(ctx, sub.ID)
		}
	} else {
		var like *model.Like
		if like, err = e.store.GetLike(ctx, subjectID, target); err == nil {
			_, err = e.store.DeleteLike(ctx, like.ID)
		}
	}
	if err != nil && !errors.Is(err, dal.ErrNotFound) {
		hlog.CtxWarnf(ctx, "drop dangling %s edge of user %d: %v", kind, subjectID, err)
	}
}

func pairKey(kind EdgeKind, subjectID int64, target model.LikeTarget) string {
	if kind == EdgeSubscription {
		return fmt.Sprintf("%s:%d:%d", kind, subjectID, target.ID)
	}
	return fmt.Sprintf("%s:%d:%s:%d", kind, subjectID, target.Kind, target.ID)
}

// checkTarget 目标必须存在且对主体可见
func (e *ToggleEngine) checkTarget(ctx context.Context, kind EdgeKind, subjectID int64, target model.LikeTarget) error {
	var err error
	if kind == EdgeSubscription {
		_, err = e.store.GetUser(ctx, target.ID)
		return storeErr(ctx, err, errno.InvalidTarget)
	}
	switch target.Kind {
	case model.TargetVideo:
		var v *model.Video
		if v, err = e.store.GetVideo(ctx, target.ID); err == nil && !v.VisibleTo(subjectID) {
			return errno.InvalidTarget
		}
	case model.TargetComment:
		var c *model.Comment
		if c, err = e.store.GetComment(ctx, target.ID); err == nil {
			var v *model.Video
			// 评论所属视频已删除或不可见时同样视为无效目标
			if v, err = e.store.GetVideo(ctx, c.VideoID); err == nil && !v.VisibleTo(subjectID) {
				return errno.InvalidTarget
			}
		}
	case model.TargetTweet:
		_, err = e.store.GetTweet(ctx, target.ID)
	}
	return storeErr(ctx, err, errno.InvalidTarget)
}

func (e *ToggleEngine) flipLike(ctx context.Context, subjectID int64, target model.LikeTarget) (bool, error) {
	existing, err := e.store.GetLike(ctx, subjectID, target)
	switch {
	case err == nil:
		// 并发删除导致影响 0 行时结果同样是未激活
		if _, err := e.store.DeleteLike(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, dal.ErrNotFound):
		err = e.store.CreateLike(ctx, &model.Like{
			ID:         e.idGen.NextID(),
			LikedByID:  subjectID,
			TargetKind: target.Kind,
			TargetID:   target.ID,
		})
		if err == nil || errors.Is(err, dal.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	return false, err
}

func (e *ToggleEngine) flipSubscription(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	existing, err := e.store.GetSubscription(ctx, subscriberID, channelID)
	switch {
	case err == nil:
		if _, err := e.store.DeleteSubscription(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, dal.ErrNotFound):
		err = e.store.CreateSubscription(ctx, &model.Subscription{
			ID:           e.idGen.NextID(),
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		})
		if err == nil || errors.Is(err, dal.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	return false, err
}
