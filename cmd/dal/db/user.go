package db

import (
	"context"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var userColumns = []string{
	"user_name", "email", "full_name", "password_hash",
	"avatar_id", "avatar_url", "cover_id", "cover_url",
	"updated_at",
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return wrapErr(s.db.WithContext(ctx).Create(u).Error, "CreateUser %s", u.UserName)
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrapErr(err, "GetUser %d", id)
	}
	return &u, nil
}

func (s *Store) GetUserByName(ctx context.Context, userName string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("user_name = ?", userName).First(&u).Error; err != nil {
		return nil, wrapErr(err, "GetUserByName %s", userName)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrapErr(err, "GetUserByEmail %s", email)
	}
	return &u, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	out := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapErr(err, "UsersByIDs")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateUser 观看历史和刷新令牌单独维护，这里不覆盖
func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Model(u).Select(userColumns).Updates(u).Error
	return wrapErr(err, "UpdateUser %d", u.ID)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return wrapErr(res.Error, "DeleteUser %d", id)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func (s *Store) PushWatchHistory(ctx context.Context, userID, videoID int64, max int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "watch_history").First(&u, userID).Error; err != nil {
			return err
		}
		u.WatchHistory = model.PushHistory(u.WatchHistory, videoID, max)
		return tx.Model(&u).Select("watch_history").Updates(&u).Error
	})
	return wrapErr(err, "PushWatchHistory user=%d video=%d", userID, videoID)
}

func (s *Store) SetRefreshToken(ctx context.Context, userID int64, ref string) error {
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("refresh_token_ref", ref).Error
	return wrapErr(err, "SetRefreshToken %d", userID)
}

func (s *Store) SwapRefreshToken(ctx context.Context, userID int64, old, ref string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND refresh_token_ref = ?", userID, old).
		Update("refresh_token_ref", ref)
	if res.Error != nil {
		return wrapErr(res.Error, "SwapRefreshToken %d", userID)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}
