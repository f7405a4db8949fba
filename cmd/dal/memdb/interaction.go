package memdb

import (
	"context"
	"slices"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.comments[c.ID]; ok {
		return dal.ErrDuplicate
	}
	now := s.t.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	cc := *c
	s.t.comments[c.ID] = &cc
	return nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := s.t.comments[id]
	if !ok {
		return nil, dal.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (s *Store) UpdateComment(ctx context.Context, c *model.Comment) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	old, ok := s.t.comments[c.ID]
	if !ok {
		return dal.ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.t.now()
	cc := *c
	s.t.comments[c.ID] = &cc
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.comments[id]; !ok {
		return dal.ErrNotFound
	}
	delete(s.t.comments, id)
	return nil
}

func (s *Store) matchComments(q dal.CommentQuery) []*model.Comment {
	matched := make([]*model.Comment, 0)
	for _, c := range s.t.comments {
		if q.VideoID != 0 && c.VideoID != q.VideoID {
			continue
		}
		if q.OwnerID != 0 && c.OwnerID != q.OwnerID {
			continue
		}
		matched = append(matched, c)
	}
	slices.SortFunc(matched, func(a, b *model.Comment) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return matched
}

func (s *Store) FindComments(ctx context.Context, q dal.CommentQuery) ([]*model.Comment, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	matched := s.matchComments(q)
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Comment, len(page))
	for i, c := range page {
		cc := *c
		out[i] = &cc
	}
	return out, int64(len(matched)), nil
}

func (s *Store) CommentIDs(ctx context.Context, q dal.CommentQuery) ([]int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	matched := dal.Window(s.matchComments(q), q.Offset, q.Limit)
	ids := make([]int64, len(matched))
	for i, c := range matched {
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *Store) DeleteComments(ctx context.Context, q dal.CommentQuery) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, c := range s.matchComments(q) {
		delete(s.t.comments, c.ID)
		n++
	}
	return n, nil
}

func (s *Store) CreateTweet(ctx context.Context, t *model.Tweet) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.tweets[t.ID]; ok {
		return dal.ErrDuplicate
	}
	now := s.t.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	tc := *t
	s.t.tweets[t.ID] = &tc
	return nil
}

func (s *Store) GetTweet(ctx context.Context, id int64) (*model.Tweet, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, ok := s.t.tweets[id]
	if !ok {
		return nil, dal.ErrNotFound
	}
	tc := *t
	return &tc, nil
}

func (s *Store) UpdateTweet(ctx context.Context, t *model.Tweet) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	old, ok := s.t.tweets[t.ID]
	if !ok {
		return dal.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = s.t.now()
	tc := *t
	s.t.tweets[t.ID] = &tc
	return nil
}

func (s *Store) DeleteTweet(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.tweets[id]; !ok {
		return dal.ErrNotFound
	}
	delete(s.t.tweets, id)
	return nil
}

func (s *Store) matchTweets(ownerID int64) []*model.Tweet {
	matched := make([]*model.Tweet, 0)
	for _, t := range s.t.tweets {
		if ownerID == 0 || t.OwnerID == ownerID {
			matched = append(matched, t)
		}
	}
	slices.SortFunc(matched, func(a, b *model.Tweet) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return matched
}

func (s *Store) FindTweets(ctx context.Context, q dal.TweetQuery) ([]*model.Tweet, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	matched := s.matchTweets(q.OwnerID)
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Tweet, len(page))
	for i, t := range page {
		tc := *t
		out[i] = &tc
	}
	return out, int64(len(matched)), nil
}

func (s *Store) TweetIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	matched := s.matchTweets(ownerID)
	ids := make([]int64, len(matched))
	for i, t := range matched {
		ids[i] = t.ID
	}
	return ids, nil
}

func (s *Store) DeleteTweetsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for id, t := range s.t.tweets {
		if t.OwnerID == ownerID {
			delete(s.t.tweets, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) GetLike(ctx context.Context, likedByID int64, target model.LikeTarget) (*model.Like, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	id, ok := s.t.likeIdx[likeKey{userID: likedByID, target: target}]
	if !ok {
		return nil, dal.ErrNotFound
	}
	l := *s.t.likes[id]
	return &l, nil
}

func (s *Store) CreateLike(ctx context.Context, l *model.Like) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	key := likeKey{userID: l.LikedByID, target: l.Target()}
	if _, ok := s.t.likeIdx[key]; ok {
		return dal.ErrDuplicate
	}
	if _, ok := s.t.likes[l.ID]; ok {
		return dal.ErrDuplicate
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.t.now()
	}
	lc := *l
	s.t.likes[l.ID] = &lc
	s.t.likeIdx[key] = l.ID
	return nil
}

func (s *Store) deleteLike(l *model.Like) {
	delete(s.t.likeIdx, likeKey{userID: l.LikedByID, target: l.Target()})
	delete(s.t.likes, l.ID)
}

func (s *Store) DeleteLike(ctx context.Context, id int64) (bool, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	l, ok := s.t.likes[id]
	if !ok {
		return false, nil
	}
	s.deleteLike(l)
	return true, nil
}

func (s *Store) CountLikes(ctx context.Context, kind model.TargetKind, ids []int64) (map[int64]int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	want := idSet(ids)
	out := make(map[int64]int64, len(ids))
	for _, l := range s.t.likes {
		if l.TargetKind != kind {
			continue
		}
		if _, ok := want[l.TargetID]; ok {
			out[l.TargetID]++
		}
	}
	return out, nil
}

func (s *Store) LikedBy(ctx context.Context, userID int64, kind model.TargetKind, ids []int64) (map[int64]bool, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.t.likeIdx[likeKey{userID: userID, target: model.LikeTarget{Kind: kind, ID: id}}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (s *Store) FindLikes(ctx context.Context, q dal.LikeQuery) ([]*model.Like, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	matched := make([]*model.Like, 0)
	for _, l := range s.t.likes {
		if q.LikedByID != 0 && l.LikedByID != q.LikedByID {
			continue
		}
		if q.Kind != 0 && l.TargetKind != q.Kind {
			continue
		}
		matched = append(matched, l)
	}
	slices.SortFunc(matched, func(a, b *model.Like) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Like, len(page))
	for i, l := range page {
		lc := *l
		out[i] = &lc
	}
	return out, int64(len(matched)), nil
}

func (s *Store) DeleteLikesByTargets(ctx context.Context, kind model.TargetKind, ids []int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	want := idSet(ids)
	var n int64
	for _, l := range s.t.likes {
		if l.TargetKind != kind {
			continue
		}
		if _, ok := want[l.TargetID]; ok {
			s.deleteLike(l)
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteLikesByUser(ctx context.Context, userID int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, l := range s.t.likes {
		if l.LikedByID == userID {
			s.deleteLike(l)
			n++
		}
	}
	return n, nil
}
