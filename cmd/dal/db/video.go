package db

import (
	"context"
	"strings"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var videoColumns = []string{
	"title", "description", "media_id", "media_url",
	"thumbnail_id", "thumbnail_url", "duration_seconds",
	"is_published", "updated_at",
}

var videoSortColumns = map[string]string{
	dal.SortCreatedAt: "created_at",
	dal.SortViews:     "view_count",
	dal.SortDuration:  "duration_seconds",
	dal.SortTitle:     "title",
}

func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	return wrapErr(s.db.WithContext(ctx).Create(v).Error, "CreateVideo %d", v.ID)
}

func (s *Store) GetVideo(ctx context.Context, id int64) (*model.Video, error) {
	var v model.Video
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, wrapErr(err, "GetVideo %d", id)
	}
	return &v, nil
}

// UpdateVideo 播放量由 IncrVideoViews 维护，这里不覆盖
func (s *Store) UpdateVideo(ctx context.Context, v *model.Video) error {
	err := s.db.WithContext(ctx).Model(v).Select(videoColumns).Updates(v).Error
	return wrapErr(err, "UpdateVideo %d", v.ID)
}

func (s *Store) DeleteVideo(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Video{}, id)
	if res.Error != nil {
		return wrapErr(res.Error, "DeleteVideo %d", id)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func videoFilter(q dal.VideoQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.OwnerID != 0 {
			tx = tx.Where("owner_id = ?", q.OwnerID)
		}
		if q.IDs != nil {
			tx = tx.Where("id IN ?", q.IDs)
		}
		if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
			like := "%" + escapeLike(search) + "%"
			tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
		}
		if q.PublishedOnly {
			if q.VisibleTo != 0 {
				tx = tx.Where("(is_published = ? OR owner_id = ?)", true, q.VisibleTo)
			} else {
				tx = tx.Where("is_published = ?", true)
			}
		}
		return tx
	}
}

func videoOrder(q dal.VideoQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		col, ok := videoSortColumns[q.SortBy]
		if !ok {
			col = "created_at"
		}
		return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
}

func (s *Store) FindVideos(ctx context.Context, q dal.VideoQuery) ([]*model.Video, int64, error) {
	videos := make([]*model.Video, 0)
	if q.IDs != nil && len(q.IDs) == 0 {
		return videos, 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Video{}).Scopes(videoFilter(q)).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindVideos count")
	}
	if total == 0 {
		return videos, 0, nil
	}
	err := s.db.WithContext(ctx).
		Scopes(videoFilter(q), videoOrder(q), window(q.Offset, q.Limit)).
		Find(&videos).Error
	if err != nil {
		return nil, 0, wrapErr(err, "FindVideos")
	}
	return videos, total, nil
}

func (s *Store) VideosByIDs(ctx context.Context, ids []int64) (map[int64]*model.Video, error) {
	out := make(map[int64]*model.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var videos []*model.Video
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, wrapErr(err, "VideosByIDs")
	}
	for _, v := range videos {
		out[v.ID] = v
	}
	return out, nil
}

func (s *Store) VideoIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.WithContext(ctx).Model(&model.Video{}).
		Where("owner_id = ?", ownerID).Order("id").Pluck("id", &ids).Error
	return ids, wrapErr(err, "VideoIDsByOwner %d", ownerID)
}

func (s *Store) IncrVideoViews(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return wrapErr(res.Error, "IncrVideoViews %d", id)
	}
	if res.RowsAffected == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func (s *Store) ChannelTotals(ctx context.Context, ownerID int64, publishedOnly bool) (dal.ChannelTotals, error) {
	owned := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("owner_id = ?", ownerID)
		if publishedOnly {
			tx = tx.Where("is_published = ?", true)
		}
		return tx
	}

	var totals dal.ChannelTotals
	var agg struct {
		Videos int64
		Views  int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Video{}).Scopes(owned).
		Select("COUNT(*) AS videos, COALESCE(SUM(view_count), 0) AS views").
		Scan(&agg).Error; err != nil {
		return totals, wrapErr(err, "ChannelTotals videos %d", ownerID)
	}
	totals.Videos, totals.Views = agg.Videos, agg.Views

	videoIDs := s.db.Model(&model.Video{}).Scopes(owned).Select("id")
	if err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("target_kind = ? AND target_id IN (?)", model.TargetVideo, videoIDs).
		Count(&totals.Likes).Error; err != nil {
		return totals, wrapErr(err, "ChannelTotals likes %d", ownerID)
	}
	return totals, nil
}
