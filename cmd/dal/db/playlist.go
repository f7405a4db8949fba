package db

import (
	"context"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// fillVideoIDs 按加入顺序装载播放列表中的视频
func (s *Store) fillVideoIDs(ctx context.Context, playlists ...*model.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Playlist, len(playlists))
	ids := make([]int64, 0, len(playlists))
	for _, p := range playlists {
		p.VideoIDs = []int64{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	var rows []model.PlaylistVideo
	if err := s.db.WithContext(ctx).Where("playlist_id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		p := byID[r.PlaylistID]
		p.VideoIDs = append(p.VideoIDs, r.VideoID)
	}
	return nil
}

func (s *Store) CreatePlaylist(ctx context.Context, p *model.Playlist) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for _, vid := range p.VideoIDs {
			if err := tx.Create(&model.PlaylistVideo{PlaylistID: p.ID, VideoID: vid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr(err, "CreatePlaylist %d", p.ID)
}

func (s *Store) GetPlaylist(ctx context.Context, id int64) (*model.Playlist, error) {
	var p model.Playlist
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapErr(err, "GetPlaylist %d", id)
	}
	if err := s.fillVideoIDs(ctx, &p); err != nil {
		return nil, wrapErr(err, "GetPlaylist videos %d", id)
	}
	return &p, nil
}

func (s *Store) UpdatePlaylist(ctx context.Context, p *model.Playlist) error {
	err := s.db.WithContext(ctx).Model(p).Select("name", "description", "updated_at").Updates(p).Error
	return wrapErr(err, "UpdatePlaylist %d", p.ID)
}

func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Playlist{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrapErr(err, "DeletePlaylist %d", id)
}

func (s *Store) FindPlaylists(ctx context.Context, q dal.PlaylistQuery) ([]*model.Playlist, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.OwnerID != 0 {
			tx = tx.Where("owner_id = ?", q.OwnerID)
		}
		return tx
	}
	playlists := make([]*model.Playlist, 0)
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Playlist{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindPlaylists count")
	}
	if total == 0 {
		return playlists, 0, nil
	}
	if err := s.db.WithContext(ctx).Scopes(filter, newestFirst, window(q.Offset, q.Limit)).Find(&playlists).Error; err != nil {
		return nil, 0, wrapErr(err, "FindPlaylists")
	}
	if err := s.fillVideoIDs(ctx, playlists...); err != nil {
		return nil, 0, wrapErr(err, "FindPlaylists videos")
	}
	return playlists, total, nil
}

func (s *Store) touchPlaylist(tx *gorm.DB, playlistID int64) error {
	return tx.Model(&model.Playlist{}).Where("id = ?", playlistID).Update("updated_at", time.Now()).Error
}

func (s *Store) AddPlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Playlist{}).Where("id = ?", playlistID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		err := tx.Create(&model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		if err != nil {
			return err
		}
		added = true
		return s.touchPlaylist(tx, playlistID)
	})
	return added, wrapErr(err, "AddPlaylistVideo %d<-%d", playlistID, videoID)
}

func (s *Store) RemovePlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Playlist{}).Where("id = ?", playlistID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		res := tx.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).Delete(&model.PlaylistVideo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return s.touchPlaylist(tx, playlistID)
	})
	return removed, wrapErr(err, "RemovePlaylistVideo %d->%d", playlistID, videoID)
}

func (s *Store) PruneVideoFromPlaylists(ctx context.Context, videoID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{})
	return res.RowsAffected, wrapErr(res.Error, "PruneVideoFromPlaylists %d", videoID)
}

func (s *Store) DeletePlaylistsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.Playlist{}).Select("id").Where("owner_id = ?", ownerID)
		if err := tx.Where("playlist_id IN (?)", owned).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Where("owner_id = ?", ownerID).Delete(&model.Playlist{})
		n = res.RowsAffected
		return res.Error
	})
	return n, wrapErr(err, "DeletePlaylistsByOwner %d", ownerID)
}
