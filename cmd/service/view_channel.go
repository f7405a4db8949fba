package service

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"golang.org/x/sync/errgroup"
)

// ChannelStats 频道主本人统计全部视频，其他人只统计已发布的
func (c *Composer) ChannelStats(ctx context.Context, viewerID, channelID int64) (*ChannelStats, error) {
	defer observeView("channel_stats", time.Now())
	if channelID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	if _, err := c.store.GetUser(ctx, channelID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	var (
		totals dal.ChannelTotals
		subs   map[int64]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = c.store.ChannelTotals(gctx, channelID, viewerID != channelID)
		return err
	})
	g.Go(func() (err error) {
		subs, err = c.store.CountSubscribers(gctx, []int64{channelID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return &ChannelStats{
		TotalVideos:      totals.Videos,
		TotalViews:       totals.Views,
		TotalLikes:       totals.Likes,
		TotalSubscribers: subs[channelID],
	}, nil
}

// ChannelProfile 按用户名查询频道主页
func (c *Composer) ChannelProfile(ctx context.Context, viewerID int64, userName string) (*ChannelProfile, error) {
	defer observeView("channel_profile", time.Now())
	name := model.NormalizeName(userName)
	if name == "" {
		return nil, errno.InvalidInput.WithMessage("username is required")
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	u, err := c.store.GetUserByName(ctx, name)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	var (
		subscribers  map[int64]int64
		subscribedTo int64
		subscribed   map[int64]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		subscribers, err = c.store.CountSubscribers(gctx, []int64{u.ID})
		return err
	})
	g.Go(func() (err error) {
		subscribedTo, err = c.store.CountSubscriptions(gctx, u.ID)
		return err
	})
	if viewerID != 0 {
		g.Go(func() (err error) {
			subscribed, err = c.store.SubscribedTo(gctx, viewerID, []int64{u.ID})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return &ChannelProfile{
		UserProfile:       *profileOf(u),
		Email:             u.Email,
		CoverURL:          u.Cover.URL,
		SubscribersCount:  subscribers[u.ID],
		SubscribedToCount: subscribedTo,
		IsSubscribed:      subscribed[u.ID],
	}, nil
}
