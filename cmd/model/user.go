package model

import (
	"strings"
	"time"

	"VidTube.com/pkg/constants"
)

// Blob 外部对象存储中的一个文件
type Blob struct {
	ID  string `gorm:"column:id;size:255" json:"-"`
	URL string `gorm:"column:url;size:512" json:"url"`
}

func (b Blob) Empty() bool {
	return b.ID == ""
}

type User struct {
	ID              int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserName        string    `gorm:"size:64;not null;uniqueIndex:idx_user_name" json:"user_name"`
	Email           string    `gorm:"size:128;not null;uniqueIndex:idx_user_email" json:"email"`
	FullName        string    `gorm:"size:128" json:"full_name"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Avatar          Blob      `gorm:"embedded;embeddedPrefix:avatar_" json:"avatar"`
	Cover           Blob      `gorm:"embedded;embeddedPrefix:cover_" json:"cover"`
	RefreshTokenRef string    `gorm:"size:255" json:"-"`
	WatchHistory    []int64   `gorm:"serializer:json" json:"-"` // 最近观看的在前
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return constants.UserTableName
}

// NormalizeName 用户名和邮箱统一小写存储，唯一性按小写判断
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PushHistory 把 videoID 放到观看历史最前面，已存在则前移，max<=0 表示不限制长度
func PushHistory(history []int64, videoID int64, max int) []int64 {
	out := make([]int64, 0, len(history)+1)
	out = append(out, videoID)
	for _, id := range history {
		if id != videoID {
			out = append(out, id)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
