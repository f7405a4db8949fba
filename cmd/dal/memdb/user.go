package memdb

import (
	"context"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.users[u.ID]; ok {
		return dal.ErrDuplicate
	}
	if _, ok := s.t.userNames[u.UserName]; ok {
		return dal.ErrDuplicate
	}
	if _, ok := s.t.userEmails[u.Email]; ok {
		return dal.ErrDuplicate
	}
	now := s.t.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.t.users[u.ID] = cloneUser(u)
	s.t.userNames[u.UserName] = u.ID
	s.t.userEmails[u.Email] = u.ID
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := s.t.users[id]
	if !ok {
		return nil, dal.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByName(ctx context.Context, userName string) (*model.User, error) {
	return s.userByIndex(ctx, func(t *tables) (int64, bool) {
		id, ok := t.userNames[userName]
		return id, ok
	})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userByIndex(ctx, func(t *tables) (int64, bool) {
		id, ok := t.userEmails[email]
		return id, ok
	})
}

func (s *Store) userByIndex(ctx context.Context, lookup func(*tables) (int64, bool)) (*model.User, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	id, ok := lookup(s.t)
	if !ok {
		return nil, dal.ErrNotFound
	}
	return cloneUser(s.t.users[id]), nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make(map[int64]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.t.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	old, ok := s.t.users[u.ID]
	if !ok {
		return dal.ErrNotFound
	}
	if id, ok := s.t.userNames[u.UserName]; ok && id != u.ID {
		return dal.ErrDuplicate
	}
	if id, ok := s.t.userEmails[u.Email]; ok && id != u.ID {
		return dal.ErrDuplicate
	}
	delete(s.t.userNames, old.UserName)
	delete(s.t.userEmails, old.Email)
	// 观看历史和刷新令牌有各自的写入口
	u.WatchHistory = old.WatchHistory
	u.RefreshTokenRef = old.RefreshTokenRef
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = s.t.now()
	s.t.users[u.ID] = cloneUser(u)
	s.t.userNames[u.UserName] = u.ID
	s.t.userEmails[u.Email] = u.ID
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := s.t.users[id]
	if !ok {
		return dal.ErrNotFound
	}
	delete(s.t.userNames, u.UserName)
	delete(s.t.userEmails, u.Email)
	delete(s.t.users, id)
	return nil
}

func (s *Store) PushWatchHistory(ctx context.Context, userID, videoID int64, max int) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := s.t.users[userID]
	if !ok {
		return dal.ErrNotFound
	}
	u.WatchHistory = model.PushHistory(u.WatchHistory, videoID, max)
	return nil
}

func (s *Store) SetRefreshToken(ctx context.Context, userID int64, ref string) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if u, ok := s.t.users[userID]; ok {
		u.RefreshTokenRef = ref
	}
	return nil
}

func (s *Store) SwapRefreshToken(ctx context.Context, userID int64, old, ref string) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := s.t.users[userID]
	if !ok || u.RefreshTokenRef != old {
		return dal.ErrNotFound
	}
	u.RefreshTokenRef = ref
	return nil
}
