package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

type Video struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID         int64     `gorm:"not null;index:idx_video_owner" json:"owner_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Media           Blob      `gorm:"embedded;embeddedPrefix:media_" json:"media"`
	Thumbnail       Blob      `gorm:"embedded;embeddedPrefix:thumbnail_" json:"thumbnail"`
	DurationSeconds float64   `json:"duration_seconds"`
	ViewCount       int64     `gorm:"not null;default:0" json:"view_count"`
	IsPublished     bool      `gorm:"not null;index:idx_video_published" json:"is_published"`
	CreatedAt       time.Time `gorm:"index:idx_video_created" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return constants.VideoTableName
}

func (v *Video) GetOwnerID() int64 {
	return v.OwnerID
}

// VisibleTo 未发布的视频只对作者本人可见
func (v *Video) VisibleTo(viewerID int64) bool {
	return v.IsPublished || (viewerID != 0 && v.OwnerID == viewerID)
}

type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID     int64     `gorm:"not null;index:idx_playlist_owner" json:"owner_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	VideoIDs    []int64   `gorm:"-" json:"video_ids"` // 有序且不重复，落库在 playlist_videos
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Playlist) TableName() string {
	return constants.PlaylistTableName
}

func (p *Playlist) GetOwnerID() int64 {
	return p.OwnerID
}

// PlaylistVideo 播放列表中的视频
type PlaylistVideo struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `gorm:"not null;uniqueIndex:idx_playlist_video,priority:1"`
	VideoID    int64     `gorm:"not null;uniqueIndex:idx_playlist_video,priority:2;index:idx_playlist_video_vid"`
	CreatedAt  time.Time
}

func (PlaylistVideo) TableName() string {
	return constants.PlaylistVideoTableName
}
