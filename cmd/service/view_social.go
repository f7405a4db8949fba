package service

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

// VideoComments 根视频必须对观看者可见
func (c *Composer) VideoComments(ctx context.Context, viewerID, videoID int64, p Page) (*PageResult[*CommentItem], error) {
	defer observeView("video_comments", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
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
	comments, total, err := c.store.FindComments(ctx, dal.CommentQuery{
		VideoID: videoID,
		Offset:  page.offset(),
		Limit:   page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	plan := joinPlan{viewerID: viewerID, likeKind: model.TargetComment}
	for _, cm := range comments {
		plan.owners = append(plan.owners, cm.OwnerID)
		plan.likeIDs = append(plan.likeIDs, cm.ID)
	}
	j, err := c.join(ctx, plan)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*CommentItem, len(comments))
	for i, cm := range comments {
		items[i] = &CommentItem{
			ID:         cm.ID,
			VideoID:    cm.VideoID,
			Content:    cm.Content,
			CreatedAt:  cm.CreatedAt,
			UpdatedAt:  cm.UpdatedAt,
			Owner:      j.owner(cm.OwnerID),
			LikesCount: j.likes[cm.ID],
			IsLiked:    j.liked[cm.ID],
		}
	}
	return newPageResult(items, page, total), nil
}

func (c *Composer) UserTweets(ctx context.Context, viewerID, userID int64, p Page) (*PageResult[*TweetItem], error) {
	defer observeView("user_tweets", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	if _, err := c.store.GetUser(ctx, userID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	tweets, total, err := c.store.FindTweets(ctx, dal.TweetQuery{
		OwnerID: userID,
		Offset:  page.offset(),
		Limit:   page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	plan := joinPlan{viewerID: viewerID, likeKind: model.TargetTweet, owners: []int64{userID}}
	for _, t := range tweets {
		plan.likeIDs = append(plan.likeIDs, t.ID)
	}
	j, err := c.join(ctx, plan)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*TweetItem, len(tweets))
	for i, t := range tweets {
		items[i] = &TweetItem{
			ID:         t.ID,
			Content:    t.Content,
			CreatedAt:  t.CreatedAt,
			UpdatedAt:  t.UpdatedAt,
			Owner:      j.owner(t.OwnerID),
			LikesCount: j.likes[t.ID],
			IsLiked:    j.liked[t.ID],
		}
	}
	return newPageResult(items, page, total), nil
}

// ChannelSubscribers 每一行的订阅数和订阅状态都针对订阅者本人
func (c *Composer) ChannelSubscribers(ctx context.Context, viewerID, channelID int64, p Page) (*PageResult[*SubscriberItem], error) {
	defer observeView("channel_subscribers", time.Now())
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
	subs, total, err := c.store.FindSubscriptions(ctx, dal.SubscriptionQuery{
		ChannelID: channelID,
		Offset:    page.offset(),
		Limit:     page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}

	plan := joinPlan{viewerID: viewerID}
	for _, s := range subs {
		plan.owners = append(plan.owners, s.SubscriberID)
		plan.channels = append(plan.channels, s.SubscriberID)
	}
	j, err := c.join(ctx, plan)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*SubscriberItem, len(subs))
	for i, s := range subs {
		items[i] = &SubscriberItem{
			Subscriber:       j.owner(s.SubscriberID),
			SubscribersCount: j.subscribers[s.SubscriberID],
			IsSubscribed:     j.subscribed[s.SubscriberID],
			SubscribedAt:     s.CreatedAt,
		}
	}
	return newPageResult(items, page, total), nil
}

// SubscribedChannels 匿名用户返回空页
func (c *Composer) SubscribedChannels(ctx context.Context, viewerID int64, p Page) (*PageResult[*ChannelItem], error) {
	defer observeView("subscribed_channels", time.Now())
	page, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if viewerID == 0 {
		return newPageResult[*ChannelItem](nil, page, 0), nil
	}
	ctx, cancel := withTimeout(ctx, c.opts)
	defer cancel()

	subs, total, err := c.store.FindSubscriptions(ctx, dal.SubscriptionQuery{
		SubscriberID: viewerID,
		Offset:       page.offset(),
		Limit:        page.Limit,
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	plan := joinPlan{}
	for _, s := range subs {
		plan.owners = append(plan.owners, s.ChannelID)
		plan.channels = append(plan.channels, s.ChannelID)
	}
	j, err := c.join(ctx, plan)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	items := make([]*ChannelItem, len(subs))
	for i, s := range subs {
		items[i] = &ChannelItem{
			Channel:          j.owner(s.ChannelID),
			SubscribersCount: j.subscribers[s.ChannelID],
			SubscribedAt:     s.CreatedAt,
		}
	}
	return newPageResult(items, page, total), nil
}
