package service

import (
	"context"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
)

func (s *Service) CreatePlaylist(ctx context.Context, viewerID int64, name, description string) (*PlaylistItem, error) {
	if viewerID == 0 {
		return nil, errno.Forbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errno.InvalidInput.WithMessage("name is required")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	p := &model.Playlist{
		ID:          s.idGen.NextID(),
		OwnerID:     viewerID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.store.CreatePlaylist(ctx, p); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadPlaylist(ctx, p.ID)
}

func (s *Service) UpdatePlaylist(ctx context.Context, viewerID, playlistID int64, name, description string) (*PlaylistItem, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return nil, errno.InvalidInput.WithMessage("nothing to update")
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	p, err := s.ownedPlaylist(ctx, viewerID, playlistID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		p.Name = name
	}
	if description != "" {
		p.Description = description
	}
	if err := s.store.UpdatePlaylist(ctx, p); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadPlaylist(ctx, p.ID)
}

func (s *Service) DeletePlaylist(ctx context.Context, viewerID, playlistID int64) error {
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	p, err := s.ownedPlaylist(ctx, viewerID, playlistID)
	if err != nil {
		return err
	}
	err = s.Cascade.Delete(ctx, model.KindPlaylist, p.ID, func(ctx context.Context, tx dal.Store) error {
		return tx.DeletePlaylist(ctx, p.ID)
	})
	return storeErr(ctx, err, errno.NotFound)
}

// AddPlaylistVideo 集合语义，重复添加不报错
func (s *Service) AddPlaylistVideo(ctx context.Context, viewerID, playlistID, videoID int64) (*PlaylistItem, error) {
	if videoID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	p, err := s.ownedPlaylist(ctx, viewerID, playlistID)
	if err != nil {
		return nil, err
	}
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.InvalidTarget)
	}
	if !v.VisibleTo(viewerID) {
		return nil, errno.InvalidTarget
	}
	if _, err := s.store.AddPlaylistVideo(ctx, p.ID, videoID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadPlaylist(ctx, p.ID)
}

func (s *Service) RemovePlaylistVideo(ctx context.Context, viewerID, playlistID, videoID int64) (*PlaylistItem, error) {
	if videoID <= 0 {
		return nil, errno.InvalidInput
	}
	ctx, cancel := withTimeout(ctx, s.opts)
	defer cancel()

	p, err := s.ownedPlaylist(ctx, viewerID, playlistID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.RemovePlaylistVideo(ctx, p.ID, videoID); err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	return s.reloadPlaylist(ctx, p.ID)
}

func (s *Service) ownedPlaylist(ctx context.Context, viewerID, playlistID int64) (*model.Playlist, error) {
	if playlistID <= 0 {
		return nil, errno.InvalidInput
	}
	p, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, storeErr(ctx, err, errno.NotFound)
	}
	if err := AssertOwner(p, viewerID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) reloadPlaylist(ctx context.Context, id int64) (*PlaylistItem, error) {
	p, err := s.store.GetPlaylist(ctx, id)
	if err != nil {
		return nil, refetchErr(ctx, "playlist", id, err)
	}
	return playlistItemOf(p), nil
}
