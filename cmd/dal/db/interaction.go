package db

import (
	"context"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	return wrapErr(s.db.WithContext(ctx).Create(c).Error, "CreateComment %d", c.ID)
}

func (s *Store) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapErr(err, "GetComment %d", id)
	}
	return &c, nil
}

func (s *Store) UpdateComment(ctx context.Context, c *model.Comment) error {
	err := s.db.WithContext(ctx).Model(c).Select("content", "updated_at").Updates(c).Error
	return wrapErr(err, "UpdateComment %d", c.ID)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return wrapErr(res.Error, "DeleteComment %d", id)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func commentFilter(q dal.CommentQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.VideoID != 0 {
			tx = tx.Where("video_id = ?", q.VideoID)
		}
		if q.OwnerID != 0 {
			tx = tx.Where("owner_id = ?", q.OwnerID)
		}
		return tx
	}
}

func (s *Store) FindComments(ctx context.Context, q dal.CommentQuery) ([]*model.Comment, int64, error) {
	comments := make([]*model.Comment, 0)
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Comment{}).Scopes(commentFilter(q)).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindComments count")
	}
	if total == 0 {
		return comments, 0, nil
	}
	err := s.db.WithContext(ctx).
		Scopes(commentFilter(q), newestFirst, window(q.Offset, q.Limit)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, wrapErr(err, "FindComments")
	}
	return comments, total, nil
}

func (s *Store) CommentIDs(ctx context.Context, q dal.CommentQuery) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Scopes(commentFilter(q), newestFirst, window(q.Offset, q.Limit)).
		Pluck("id", &ids).Error
	return ids, wrapErr(err, "CommentIDs")
}

func (s *Store) DeleteComments(ctx context.Context, q dal.CommentQuery) (int64, error) {
	if q.VideoID == 0 && q.OwnerID == 0 {
		return 0, errors.New("DeleteComments: empty filter")
	}
	res := s.db.WithContext(ctx).Scopes(commentFilter(q)).Delete(&model.Comment{})
	return res.RowsAffected, wrapErr(res.Error, "DeleteComments video=%d owner=%d", q.VideoID, q.OwnerID)
}

func (s *Store) CreateTweet(ctx context.Context, t *model.Tweet) error {
	return wrapErr(s.db.WithContext(ctx).Create(t).Error, "CreateTweet %d", t.ID)
}

func (s *Store) GetTweet(ctx context.Context, id int64) (*model.Tweet, error) {
	var t model.Tweet
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, wrapErr(err, "GetTweet %d", id)
	}
	return &t, nil
}

func (s *Store) UpdateTweet(ctx context.Context, t *model.Tweet) error {
	err := s.db.WithContext(ctx).Model(t).Select("content", "updated_at").Updates(t).Error
	return wrapErr(err, "UpdateTweet %d", t.ID)
}

func (s *Store) DeleteTweet(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Tweet{}, id)
	if res.Error != nil {
		return wrapErr(res.Error, "DeleteTweet %d", id)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func tweetFilter(ownerID int64) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if ownerID != 0 {
			tx = tx.Where("owner_id = ?", ownerID)
		}
		return tx
	}
}

func (s *Store) FindTweets(ctx context.Context, q dal.TweetQuery) ([]*model.Tweet, int64, error) {
	tweets := make([]*model.Tweet, 0)
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Tweet{}).Scopes(tweetFilter(q.OwnerID)).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindTweets count")
	}
	if total == 0 {
		return tweets, 0, nil
	}
	err := s.db.WithContext(ctx).
		Scopes(tweetFilter(q.OwnerID), newestFirst, window(q.Offset, q.Limit)).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, wrapErr(err, "FindTweets")
	}
	return tweets, total, nil
}

func (s *Store) TweetIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.WithContext(ctx).Model(&model.Tweet{}).
		Scopes(tweetFilter(ownerID), newestFirst).Pluck("id", &ids).Error
	return ids, wrapErr(err, "TweetIDsByOwner %d", ownerID)
}

func (s *Store) DeleteTweetsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&model.Tweet{})
	return res.RowsAffected, wrapErr(res.Error, "DeleteTweetsByOwner %d", ownerID)
}

func (s *Store) GetLike(ctx context.Context, likedByID int64, target model.LikeTarget) (*model.Like, error) {
	var l model.Like
	err := s.db.WithContext(ctx).
		Where("liked_by_id = ? AND target_kind = ? AND target_id = ?", likedByID, target.Kind, target.ID).
		First(&l).Error
	if err != nil {
		return nil, wrapErr(err, "GetLike user=%d %s=%d", likedByID, target.Kind, target.ID)
	}
	return &l, nil
}

func (s *Store) CreateLike(ctx context.Context, l *model.Like) error {
	return wrapErr(s.db.WithContext(ctx).Create(l).Error, "CreateLike %d", l.ID)
}

func (s *Store) DeleteLike(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Like{}, id)
	if res.Error != nil {
		return false, wrapErr(res.Error, "DeleteLike %d", id)
	}
	return res.RowsAffected > 0, nil
}

type countRow struct {
	ID int64
	N  int64
}

func (s *Store) CountLikes(ctx context.Context, kind model.TargetKind, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Select("target_id AS id, COUNT(*) AS n").
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Group("target_id").Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "CountLikes %s", kind)
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

func (s *Store) LikedBy(ctx context.Context, userID int64, kind model.TargetKind, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	if len(ids) == 0 || userID == 0 {
		return out, nil
	}
	var liked []int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("liked_by_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, ids).
		Pluck("target_id", &liked).Error
	if err != nil {
		return nil, wrapErr(err, "LikedBy user=%d %s", userID, kind)
	}
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}

func (s *Store) FindLikes(ctx context.Context, q dal.LikeQuery) ([]*model.Like, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.LikedByID != 0 {
			tx = tx.Where("liked_by_id = ?", q.LikedByID)
		}
		if q.Kind != 0 {
			tx = tx.Where("target_kind = ?", q.Kind)
		}
		return tx
	}
	likes := make([]*model.Like, 0)
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Like{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindLikes count")
	}
	if total == 0 {
		return likes, 0, nil
	}
	err := s.db.WithContext(ctx).Scopes(filter, newestFirst, window(q.Offset, q.Limit)).Find(&likes).Error
	if err != nil {
		return nil, 0, wrapErr(err, "FindLikes")
	}
	return likes, total, nil
}

func (s *Store) DeleteLikesByTargets(ctx context.Context, kind model.TargetKind, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Delete(&model.Like{})
	return res.RowsAffected, wrapErr(res.Error, "DeleteLikesByTargets %s", kind)
}

func (s *Store) DeleteLikesByUser(ctx context.Context, userID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("liked_by_id = ?", userID).Delete(&model.Like{})
	return res.RowsAffected, wrapErr(res.Error, "DeleteLikesByUser %d", userID)
}
