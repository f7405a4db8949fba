package service

import (
	"context"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

func (s *Service) AddComment(ctx context.Context, viewerID, videoID int64, content string) (*CommentItem, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	content = strings.TrimSpace(content)
	if videoID <= 0 || content == "" {
		return nil, errno.InvalidInput.WithMessage("video and content are required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if !v.VisibleTo(viewerID) {
		return nil, errno.NotFound
	}
	c := &model.Comment{
		ID:      s.idGen.NextID(),
		VideoID: videoID,
		OwnerID: viewerID,
		Content: content,
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadComment(ctx, c.ID)
}

func (s *Service) UpdateComment(ctx context.Context, viewerID, commentID int64, content string) (*CommentItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.InvalidInput.WithMessage("content is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	c, err := s.ownedComment(ctx, viewerID, commentID)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.store.UpdateComment(ctx, c); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadComment(ctx, c.ID)
}

func (s *Service) DeleteComment(ctx context.Context, viewerID, commentID int64) error {
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	c, err := s.ownedComment(ctx, viewerID, commentID)
	if err != nil {
		return err
	}
	err = s.Cascade.Delete(ctx, model.KindComment, c.ID, func(ctx context.Context, tx dal.Store) error {
		return tx.DeleteComment(ctx, c.ID)
	})
	return storeErr(ctx, err, errno.NotFound)
}

func (s *Service) ownedComment(ctx context.Context, viewerID, commentID int64) (*model.Comment, error) {
	if commentID <= 0 {
		return nil, errno.InvalidInput
	}
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if err := AssertOwner(c, viewerID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) reloadComment(ctx context.Context, id int64) (*CommentItem, error) {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, refetchErr(ctx, "comment", id, err)
	}
	j, err := s.Views.join(ctx, joinPlan{
		owners:   []int64{c.OwnerID},
		likeKind: model.TargetComment,
		likeIDs:  []int64{c.ID},
	})
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return &CommentItem{
		ID:         c.ID,
		VideoID:    c.VideoID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Owner:      j.owner(c.OwnerID),
		LikesCount: j.likes[c.ID],
	}, nil
}
