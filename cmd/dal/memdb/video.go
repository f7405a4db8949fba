package memdb

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.videos[v.ID]; ok {
		return dal.ErrDuplicate
	}
	now := s.t.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	s.t.videos[v.ID] = cloneVideo(v)
	return nil
}

func (s *Store) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	v, ok := s.t.videos[id]
	if !ok {
		return nil, dal.ErrNotFound
	}
	return cloneVideo(v), nil
}

func (s *Store) UpdateVideo(ctx context.Context, v *model.Video) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	old, ok := s.t.videos[v.ID]
	if !ok {
		return dal.ErrNotFound
	}
	v.CreatedAt = old.CreatedAt
	v.ViewCount = old.ViewCount
	v.UpdatedAt = s.t.now()
	s.t.videos[v.ID] = cloneVideo(v)
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.videos[id]; !ok {
		return dal.ErrNotFound
	}
	delete(s.t.videos, id)
	return nil
}

func matchVideo(v *model.Video, q dal.VideoQuery, ids map[int64]struct{}, search string) bool {
	if q.OwnerID != 0 && v.OwnerID != q.OwnerID {
		return false
	}
	if ids != nil {
		if _, ok := ids[v.ID]; !ok {
			return false
		}
	}
	if q.PublishedOnly && !v.VisibleTo(q.VisibleTo) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(v.Title), search) &&
		!strings.Contains(strings.ToLower(v.Description), search) {
		return false
	}
	return true
}

func compareVideo(a, b *model.Video, sortBy string, desc bool) int {
	var c int
	switch sortBy {
	case dal.SortViews:
		c = cmp.Compare(a.ViewCount, b.ViewCount)
	case dal.SortDuration:
		c = cmp.Compare(a.DurationSeconds, b.DurationSeconds)
	case dal.SortTitle:
		c = strings.Compare(a.Title, b.Title)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return compareID(a.ID, b.ID)
}

func (s *Store) FindVideos(ctx context.Context, q dal.VideoQuery) ([]*model.Video, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	var ids map[int64]struct{}
	if q.IDs != nil {
		ids = idSet(q.IDs)
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]*model.Video, 0)
	for _, v := range s.t.videos {
		if matchVideo(v, q, ids, search) {
			matched = append(matched, v)
		}
	}
	slices.SortFunc(matched, func(a, b *model.Video) int {
		return compareVideo(a, b, q.SortBy, q.Desc)
	})
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Video, len(page))
	for i, v := range page {
		out[i] = cloneVideo(v)
	}
	return out, int64(len(matched)), nil
}

func (s *Store) VideosByIDs(ctx context.Context, ids []int64) (map[int64]*model.Video, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make(map[int64]*model.Video, len(ids))
	for _, id := range ids {
		if v, ok := s.t.videos[id]; ok {
			out[id] = cloneVideo(v)
		}
	}
	return out, nil
}

func (s *Store) VideoIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ids := make([]int64, 0)
	for id, v := range s.t.videos {
		if v.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) IncrVideoViews(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	v, ok := s.t.videos[id]
	if !ok {
		return dal.ErrNotFound
	}
	v.ViewCount++
	return nil
}

func (s *Store) ChannelTotals(ctx context.Context, ownerID int64, publishedOnly bool) (dal.ChannelTotals, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return dal.ChannelTotals{}, err
	}
	defer unlock()

	var totals dal.ChannelTotals
	videoIDs := make(map[int64]struct{})
	for _, v := range s.t.videos {
		if v.OwnerID != ownerID || (publishedOnly && !v.IsPublished) {
			continue
		}
		totals.Videos++
		totals.Views += v.ViewCount
		videoIDs[v.ID] = struct{}{}
	}
	for _, l := range s.t.likes {
		if l.TargetKind != model.TargetVideo {
			continue
		}
		if _, ok := videoIDs[l.TargetID]; ok {
			totals.Likes++
		}
	}
	return totals, nil
}
