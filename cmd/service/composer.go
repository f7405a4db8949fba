package service

import (
	"context"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/search"
	"golang.org/x/sync/errgroup"
)

// Composer 读视图：过滤、关联、计算、排序、投影、分页。
// 过滤排序分页由存储层完成，关联按外键批量并发查询。
type Composer struct {
	store dal.Store
	index search.VideoIndex
	opts  Options
}

// joinPlan 一页数据需要关联的外键
type joinPlan struct {
	viewerID int64
	owners   []int64
	likeKind model.TargetKind
	likeIDs  []int64
	channels []int64 // 需要订阅数和观看者订阅状态的用户
}

type joined struct {
	users       map[int64]*model.User
	likes       map[int64]int64
	liked       map[int64]bool
	subscribers map[int64]int64
	subscribed  map[int64]bool
}

// owner 缺失的所有者返回 nil，不报错
func (j *joined) owner(id int64) *UserProfile {
	return profileOf(j.users[id])
}

func uniq(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (c *Composer) join(ctx context.Context, plan joinPlan) (*joined, error) {
	j := &joined{
		users:       map[int64]*model.User{},
		likes:       map[int64]int64{},
		liked:       map[int64]bool{},
		subscribers: map[int64]int64{},
		subscribed:  map[int64]bool{},
	}
	g, gctx := errgroup.WithContext(ctx)
	if owners := uniq(plan.owners); len(owners) > 0 {
		g.Go(func() (err error) {
			j.users, err = c.store.UsersByIDs(gctx, owners)
			return err
		})
	}
	if ids := uniq(plan.likeIDs); len(ids) > 0 {
		g.Go(func() (err error) {
			j.likes, err = c.store.CountLikes(gctx, plan.likeKind, ids)
			return err
		})
		if plan.viewerID != 0 {
			g.Go(func() (err error) {
				j.liked, err = c.store.LikedBy(gctx, plan.viewerID, plan.likeKind, ids)
				return err
			})
		}
	}
	if channels := uniq(plan.channels); len(channels) > 0 {
		g.Go(func() (err error) {
			j.subscribers, err = c.store.CountSubscribers(gctx, channels)
			return err
		})
		if plan.viewerID != 0 {
			g.Go(func() (err error) {
				j.subscribed, err = c.store.SubscribedTo(gctx, plan.viewerID, channels)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return j, nil
}

func videoItemOf(v *model.Video, j *joined) *VideoItem {
	return &VideoItem{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		VideoURL:        v.Media.URL,
		ThumbnailURL:    v.Thumbnail.URL,
		DurationSeconds: v.DurationSeconds,
		ViewCount:       v.ViewCount,
		IsPublished:     v.IsPublished,
		CreatedAt:       v.CreatedAt,
		Owner:           j.owner(v.OwnerID),
		LikesCount:      j.likes[v.ID],
	}
}

// videoItems 关联所有者和点赞数
func (c *Composer) videoItems(ctx context.Context, viewerID int64, videos []*model.Video) ([]*VideoItem, error) {
	plan := joinPlan{viewerID: viewerID, likeKind: model.TargetVideo}
	for _, v := range videos {
		plan.owners = append(plan.owners, v.OwnerID)
		plan.likeIDs = append(plan.likeIDs, v.ID)
	}
	j, err := c.join(ctx, plan)
	if err != nil {
		return nil, err
	}
	items := make([]*VideoItem, len(videos))
	for i, v := range videos {
		items[i] = videoItemOf(v, j)
	}
	return items, nil
}

// visibleInOrder 按 ids 顺序取出存在且对观看者可见的视频
func visibleInOrder(ids []int64, videos map[int64]*model.Video, viewerID int64) []*model.Video {
	out := make([]*model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := videos[id]; ok && v.VisibleTo(viewerID) {
			out = append(out, v)
		}
	}
	return out
}
