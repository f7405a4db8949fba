package memdb

import (
	"context"
	"slices"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

func (s *Store) CreatePlaylist(ctx context.Context, p *model.Playlist) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.playlists[p.ID]; ok {
		return dal.ErrDuplicate
	}
	now := s.t.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.t.playlists[p.ID] = clonePlaylist(p)
	return nil
}

func (s *Store) GetPlaylist(ctx context.Context, id int64) (*model.Playlist, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.t.playlists[id]
	if !ok {
		return nil, dal.ErrNotFound
	}
	return clonePlaylist(p), nil
}

// UpdatePlaylist 只更新名称和描述，视频列表通过 Add/Remove 维护
func (s *Store) UpdatePlaylist(ctx context.Context, p *model.Playlist) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	old, ok := s.t.playlists[p.ID]
	if !ok {
		return dal.ErrNotFound
	}
	old.Name = p.Name
	old.Description = p.Description
	old.UpdatedAt = s.t.now()
	return nil
}

func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.t.playlists[id]; !ok {
		return dal.ErrNotFound
	}
	delete(s.t.playlists, id)
	return nil
}

func (s *Store) FindPlaylists(ctx context.Context, q dal.PlaylistQuery) ([]*model.Playlist, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	matched := make([]*model.Playlist, 0)
	for _, p := range s.t.playlists {
		if q.OwnerID == 0 || p.OwnerID == q.OwnerID {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, func(a, b *model.Playlist) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Playlist, len(page))
	for i, p := range page {
		out[i] = clonePlaylist(p)
	}
	return out, int64(len(matched)), nil
}

func (s *Store) AddPlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	p, ok := s.t.playlists[playlistID]
	if !ok {
		return false, dal.ErrNotFound
	}
	if slices.Contains(p.VideoIDs, videoID) {
		return false, nil
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	p.UpdatedAt = s.t.now()
	return true, nil
}

func (s *Store) RemovePlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	p, ok := s.t.playlists[playlistID]
	if !ok {
		return false, dal.ErrNotFound
	}
	i := slices.Index(p.VideoIDs, videoID)
	if i < 0 {
		return false, nil
	}
	p.VideoIDs = slices.Delete(p.VideoIDs, i, i+1)
	p.UpdatedAt = s.t.now()
	return true, nil
}

func (s *Store) PruneVideoFromPlaylists(ctx context.Context, videoID int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, p := range s.t.playlists {
		if i := slices.Index(p.VideoIDs, videoID); i >= 0 {
			p.VideoIDs = slices.Delete(p.VideoIDs, i, i+1)
			n++
		}
	}
	return n, nil
}

func (s *Store) DeletePlaylistsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for id, p := range s.t.playlists {
		if p.OwnerID == ownerID {
			delete(s.t.playlists, id)
			n++
		}
	}
	return n, nil
}
