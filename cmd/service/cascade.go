package service

import (
	"context"
	"errors"
	"fmt"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/search"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Released 事务提交后需要释放的外部资源
type Released struct {
	Blobs  []string
	Videos []int64 // 需要从全文索引删除的视频
}

func (r *Released) addVideo(v *model.Video) {
	r.Videos = append(r.Videos, v.ID)
	for _, b := range []model.Blob{v.Media, v.Thumbnail} {
		if !b.Empty() {
			r.Blobs = append(r.Blobs, b.ID)
		}
	}
}

// CascadeCoordinator 删除实体时清理依赖记录
type CascadeCoordinator struct {
	store    dal.Store
	blobs    oss.BlobStore
	index    search.VideoIndex
	deferrer mq.CascadeDeferrer
}

type cascadeStepError struct {
	err error
}

func (e *cascadeStepError) Error() string {
	return fmt.Sprintf("cascade step: %v", e.err)
}

func (e *cascadeStepError) Unwrap() error {
	return e.err
}

// Apply 在 tx 中删除 (kind, id) 的依赖记录，不删除主记录本身
func (c *CascadeCoordinator) Apply(ctx context.Context, tx dal.Store, kind model.EntityKind, id int64) (*Released, error) {
	r := &Released{}
	var err error
	switch kind {
	case model.KindVideo:
		err = c.videoDependents(ctx, tx, id)
		r.Videos = append(r.Videos, id)
	case model.KindComment:
		_, err = tx.DeleteLikesByTargets(ctx, model.TargetComment, []int64{id})
	case model.KindTweet:
		_, err = tx.DeleteLikesByTargets(ctx, model.TargetTweet, []int64{id})
	case model.KindPlaylist:
	case model.KindUser:
		err = c.userDependents(ctx, tx, id, r)
	default:
		return nil, errno.InvalidInput.WithMessage("unknown entity kind")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// videoDependents 评论的点赞、评论、视频的点赞、播放列表中的引用
func (c *CascadeCoordinator) videoDependents(ctx context.Context, tx dal.Store, videoID int64) error {
	q := dal.CommentQuery{VideoID: videoID}
	commentIDs, err := tx.CommentIDs(ctx, q)
	if err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if _, err := tx.DeleteLikesByTargets(ctx, model.TargetComment, commentIDs); err != nil {
			return err
		}
		if _, err := tx.DeleteComments(ctx, q); err != nil {
			return err
		}
	}
	if _, err := tx.DeleteLikesByTargets(ctx, model.TargetVideo, []int64{videoID}); err != nil {
		return err
	}
	_, err = tx.PruneVideoFromPlaylists(ctx, videoID)
	return err
}

func (c *CascadeCoordinator) userDependents(ctx context.Context, tx dal.Store, userID int64, r *Released) error {
	videoIDs, err := tx.VideoIDsByOwner(ctx, userID)
	if err != nil {
		return err
	}
	videos, err := tx.VideosByIDs(ctx, videoIDs)
	if err != nil {
		return err
	}
	for _, id := range videoIDs {
		if err := c.videoDependents(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.DeleteVideo(ctx, id); err != nil && !errors.Is(err, dal.ErrNotFound) {
			return err
		}
		if v, ok := videos[id]; ok {
			r.addVideo(v)
		} else {
			r.Videos = append(r.Videos, id)
		}
	}

	// 在别人视频下的评论
	own := dal.CommentQuery{OwnerID: userID}
	commentIDs, err := tx.CommentIDs(ctx, own)
	if err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if _, err := tx.DeleteLikesByTargets(ctx, model.TargetComment, commentIDs); err != nil {
			return err
		}
		if _, err := tx.DeleteComments(ctx, own); err != nil {
			return err
		}
	}

	tweetIDs, err := tx.TweetIDsByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if len(tweetIDs) > 0 {
		if _, err := tx.DeleteLikesByTargets(ctx, model.TargetTweet, tweetIDs); err != nil {
			return err
		}
		if _, err := tx.DeleteTweetsByOwner(ctx, userID); err != nil {
			return err
		}
	}

	if _, err := tx.DeletePlaylistsByOwner(ctx, userID); err != nil {
		return err
	}
	if _, err := tx.DeleteLikesByUser(ctx, userID); err != nil {
		return err
	}
	_, err = tx.DeleteSubscriptionsByUser(ctx, userID)
	return err
}

// Delete 级联和主记录在同一事务中删除。级联失败时单独删除主记录，
// 级联交给 deferrer 重放。primary 的错误原样返回。
func (c *CascadeCoordinator) Delete(ctx context.Context, kind model.EntityKind, id int64, primary func(ctx context.Context, tx dal.Store) error, blobs ...string) error {
	var released *Released
	err := c.store.Transaction(ctx, func(tx dal.Store) error {
		r, err := c.Apply(ctx, tx, kind, id)
		if err != nil {
			return &cascadeStepError{err: err}
		}
		released = r
		return primary(ctx, tx)
	})

	outcome := "applied"
	var stepErr *cascadeStepError
	switch {
	case err == nil:
	case errors.As(err, &stepErr) && ctx.Err() == nil:
		hlog.CtxErrorf(ctx, "Cascade for %s %d failed, deleting primary alone: %v", kind, id, stepErr.err)
		if err := primary(ctx, c.store); err != nil {
			cascadeTotal.WithLabelValues(string(kind), "failed").Inc()
			return err
		}
		outcome = "deferred"
		c.deferCascade(ctx, kind, id)
		released = &Released{}
		if kind == model.KindVideo {
			released.Videos = []int64{id}
		}
	default:
		cascadeTotal.WithLabelValues(string(kind), "failed").Inc()
		if stepErr != nil {
			return stepErr.err
		}
		return err
	}

	released.Blobs = append(released.Blobs, blobs...)
	c.release(ctx, released)
	cascadeTotal.WithLabelValues(string(kind), outcome).Inc()
	return nil
}

func (c *CascadeCoordinator) deferCascade(ctx context.Context, kind model.EntityKind, id int64) {
	if c.deferrer == nil {
		hlog.CtxErrorf(ctx, "No cascade deferrer configured, %s %d left with dangling dependents", kind, id)
		return
	}
	if err := c.deferrer.DeferCascade(context.WithoutCancel(ctx), kind, id); err != nil {
		hlog.CtxErrorf(ctx, "Defer cascade for %s %d failed: %v", kind, id, err)
	}
}

// release 释放文件和索引，失败只记录日志
func (c *CascadeCoordinator) release(ctx context.Context, r *Released) {
	ctx = context.WithoutCancel(ctx)
	if c.blobs != nil {
		for _, id := range r.Blobs {
			if id == "" {
				continue
			}
			if err := c.blobs.Delete(ctx, id); err != nil {
				hlog.CtxWarnf(ctx, "Release blob %s failed: %v", id, err)
			}
		}
	}
	if c.index != nil {
		for _, id := range r.Videos {
			if err := c.index.Remove(ctx, id); err != nil {
				hlog.CtxWarnf(ctx, "Remove video %d from index failed: %v", id, err)
			}
		}
	}
}

// Replay 重新执行一次级联，主记录已经不存在
func (c *CascadeCoordinator) Replay(ctx context.Context, kind model.EntityKind, id int64) error {
	var released *Released
	err := c.store.Transaction(ctx, func(tx dal.Store) error {
		r, err := c.Apply(ctx, tx, kind, id)
		released = r
		return err
	})
	if err != nil {
		cascadeTotal.WithLabelValues(string(kind), "replay_failed").Inc()
		return err
	}
	c.release(ctx, released)
	cascadeTotal.WithLabelValues(string(kind), "replayed").Inc()
	return nil
}

func (c *CascadeCoordinator) HandleCascadeEvent(ctx context.Context, event *mq.CascadeEvent) error {
	if event == nil || !event.Kind.Valid() || event.EntityID <= 0 {
		hlog.CtxWarnf(ctx, "Skipping malformed cascade event: %+v", event)
		return nil
	}
	hlog.CtxInfof(ctx, "Replaying cascade %s %d (attempt %d)", event.Kind, event.EntityID, event.Attempt)
	return c.Replay(ctx, event.Kind, event.EntityID)
}

var _ mq.CascadeEventHandler = (*CascadeCoordinator)(nil)
