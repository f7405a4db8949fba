package service

import (
	"context"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

func (s *Service) CreateTweet(ctx context.Context, viewerID int64, content string) (*TweetItem, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.InvalidInput.WithMessage("content is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	t := &model.Tweet{ID: s.idGen.NextID(), OwnerID: viewerID, Content: content}
	if err := s.store.CreateTweet(ctx, t); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadTweet(ctx, t.ID)
}

func (s *Service) UpdateTweet(ctx context.Context, viewerID, tweetID int64, content string) (*TweetItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.InvalidInput.WithMessage("content is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	t, err := s.ownedTweet(ctx, viewerID, tweetID)
	if err != nil {
		return nil, err
	}
	t.Content = content
	if err := s.store.UpdateTweet(ctx, t); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadTweet(ctx, t.ID)
}

func (s *Service) DeleteTweet(ctx context.Context, viewerID, tweetID int64) error {
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	t, err := s.ownedTweet(ctx, viewerID, tweetID)
	if err != nil {
		return err
	}
	err = s.Cascade.Delete(ctx, model.KindTweet, t.ID, func(ctx context.Context, tx dal.Store) error {
		return tx.DeleteTweet(ctx, t.ID)
	})
	return storeErr(ctx, err, errno.NotFound)
}

func (s *Service) ownedTweet(ctx context.Context, viewerID, tweetID int64) (*model.Tweet, error) {
	if tweetID <= 0 {
		return nil, errno.InvalidInput
	}
	t, err := s.store.GetTweet(ctx, tweetID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if err := AssertOwner(t, viewerID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) reloadTweet(ctx context.Context, id int64) (*TweetItem, error) {
	t, err := s.store.GetTweet(ctx, id)
	if err != nil {
		return nil, refetchErr(ctx, "tweet", id, err)
	}
	j, err := s.Views.join(ctx, joinPlan{
		owners:   []int64{t.OwnerID},
		likeKind: model.TargetTweet,
		likeIDs:  []int64{t.ID},
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return &TweetItem{
		ID:         t.ID,
		Content:    t.Content,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		Owner:      j.owner(t.OwnerID),
		LikesCount: j.likes[t.ID],
	}, nil
}
