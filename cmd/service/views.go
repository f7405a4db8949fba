package service

import (
	"time"

	"VidTube.com/cmd/model"
)

// 对外的视图结构，不包含密码、刷新令牌和文件存储 ID

type UserProfile struct {
	ID        int64  `json:"id"`
	UserName  string `json:"user_name"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func profileOf(u *model.User) *UserProfile {
	if u == nil {
		return nil
	}
	return &UserProfile{
		ID:        u.ID,
		UserName:  u.UserName,
		FullName:  u.FullName,
		AvatarURL: u.Avatar.URL,
	}
}

// CurrentUser 本人可见的账户信息
type CurrentUser struct {
	UserProfile
	Email     string    `json:"email"`
	CoverURL  string    `json:"cover_url"`
	CreatedAt time.Time `json:"created_at"`
}

func currentUserOf(u *model.User) *CurrentUser {
	return &CurrentUser{
		UserProfile: *profileOf(u),
		Email:       u.Email,
		CoverURL:    u.Cover.URL,
		CreatedAt:   u.CreatedAt,
	}
}

type VideoItem struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	VideoURL        string       `json:"video_url"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	DurationSeconds float64      `json:"duration_seconds"`
	ViewCount       int64        `json:"view_count"`
	IsPublished     bool         `json:"is_published"`
	CreatedAt       time.Time    `json:"created_at"`
	Owner           *UserProfile `json:"owner"`
	LikesCount      int64        `json:"likes_count"`
}

type VideoDetail struct {
	VideoItem
	IsLiked          bool  `json:"is_liked"`
	IsSubscribed     bool  `json:"is_subscribed"`     // 观看者是否订阅了作者
	SubscribersCount int64 `json:"subscribers_count"` // 作者的订阅数
}

type CommentItem struct {
	ID         int64        `json:"id"`
	VideoID    int64        `json:"video_id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Owner      *UserProfile `json:"owner"`
	LikesCount int64        `json:"likes_count"`
	IsLiked    bool         `json:"is_liked"`
}

type TweetItem struct {
	ID         int64        `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Owner      *UserProfile `json:"owner"`
	LikesCount int64        `json:"likes_count"`
	IsLiked    bool         `json:"is_liked"`
}

type SubscriberItem struct {
	Subscriber       *UserProfile `json:"subscriber"`
	SubscribersCount int64        `json:"subscribers_count"` // 该订阅者自己的订阅数
	IsSubscribed     bool         `json:"is_subscribed"`     // 观看者是否订阅了该订阅者
	SubscribedAt     time.Time    `json:"subscribed_at"`
}

type ChannelItem struct {
	Channel          *UserProfile `json:"channel"`
	SubscribersCount int64        `json:"subscribers_count"`
	SubscribedAt     time.Time    `json:"subscribed_at"`
}

type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalLikes       int64 `json:"total_likes"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

type ChannelProfile struct {
	UserProfile
	Email             string `json:"email"`
	CoverURL          string `json:"cover_url"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

type LikedVideoItem struct {
	Video   *VideoItem `json:"video"`
	LikedAt time.Time  `json:"liked_at"`
}

type PlaylistItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	VideoCount  int       `json:"video_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func playlistItemOf(p *model.Playlist) *PlaylistItem {
	return &PlaylistItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		VideoCount:  len(p.VideoIDs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type PlaylistDetail struct {
	PlaylistItem
	Owner  *UserProfile `json:"owner"`
	Videos []*VideoItem `json:"videos"`
}

type PublishState struct {
	IsPublished bool `json:"is_published"`
}
