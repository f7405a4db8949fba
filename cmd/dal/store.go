package dal

import (
	"context"
	"errors"

	"VidTube.com/cmd/model"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate record")
	ErrUnavailable = errors.New("store unavailable")
)

// 视频排序字段
const (
	SortCreatedAt = "createdAt"
	SortViews     = "views"
	SortDuration  = "duration"
	SortTitle     = "title"
)

func ValidSort(sortBy string) bool {
	switch sortBy {
	case SortCreatedAt, SortViews, SortDuration, SortTitle:
		return true
	}
	return false
}

// VideoQuery 过滤、排序和分页都在存储层完成，同值按 ID 升序
type VideoQuery struct {
	OwnerID int64
	IDs     []int64 // 非 nil 时只在这些 ID 中查找
	Search  string  // 标题或描述包含，不区分大小写
	// PublishedOnly 为真时只返回已发布的视频，VisibleTo 本人的未发布视频除外
	PublishedOnly bool
	VisibleTo     int64
	SortBy        string
	Desc          bool
	Offset        int
	Limit         int // 0 表示不限
}

// 以下查询均按创建时间倒序
type CommentQuery struct {
	VideoID int64
	OwnerID int64
	Offset  int
	Limit   int
}

type TweetQuery struct {
	OwnerID int64
	Offset  int
	Limit   int
}

type LikeQuery struct {
	LikedByID int64
	Kind      model.TargetKind
	Offset    int
	Limit     int
}

type SubscriptionQuery struct {
	SubscriberID int64
	ChannelID    int64
	Offset       int
	Limit        int
}

type PlaylistQuery struct {
	OwnerID int64
	Offset  int
	Limit   int
}

type ChannelTotals struct {
	Videos int64
	Views  int64
	Likes  int64
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByName(ctx context.Context, userName string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	// PushWatchHistory 原子地把视频放到观看历史最前面
	PushWatchHistory(ctx context.Context, userID, videoID int64, max int) error
	// SetRefreshToken 无条件覆盖，ref 为空表示登出，用户不存在时不报错
	SetRefreshToken(ctx context.Context, userID int64, ref string) error
	// SwapRefreshToken 仅当当前值等于 old 时替换，否则返回 ErrNotFound
	SwapRefreshToken(ctx context.Context, userID int64, old, ref string) error
}

type VideoStore interface {
	CreateVideo(ctx context.Context, v *model.Video) error
	GetVideo(ctx context.Context, id int64) (*model.Video, error)
	UpdateVideo(ctx context.Context, v *model.Video) error
	DeleteVideo(ctx context.Context, id int64) error
	FindVideos(ctx context.Context, q VideoQuery) ([]*model.Video, int64, error)
	VideosByIDs(ctx context.Context, ids []int64) (map[int64]*model.Video, error)
	VideoIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	IncrVideoViews(ctx context.Context, id int64) error
	ChannelTotals(ctx context.Context, ownerID int64, publishedOnly bool) (ChannelTotals, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	UpdateComment(ctx context.Context, c *model.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	FindComments(ctx context.Context, q CommentQuery) ([]*model.Comment, int64, error)
	CommentIDs(ctx context.Context, q CommentQuery) ([]int64, error)
	DeleteComments(ctx context.Context, q CommentQuery) (int64, error)
}

type TweetStore interface {
	CreateTweet(ctx context.Context, t *model.Tweet) error
	GetTweet(ctx context.Context, id int64) (*model.Tweet, error)
	UpdateTweet(ctx context.Context, t *model.Tweet) error
	DeleteTweet(ctx context.Context, id int64) error
	FindTweets(ctx context.Context, q TweetQuery) ([]*model.Tweet, int64, error)
	TweetIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
	DeleteTweetsByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type LikeStore interface {
	GetLike(ctx context.Context, likedByID int64, target model.LikeTarget) (*model.Like, error)
	// CreateLike 同一 (用户, 目标) 已存在时返回 ErrDuplicate
	CreateLike(ctx context.Context, l *model.Like) error
	// DeleteLike 返回是否真的删除了一行
	DeleteLike(ctx context.Context, id int64) (bool, error)
	CountLikes(ctx context.Context, kind model.TargetKind, ids []int64) (map[int64]int64, error)
	LikedBy(ctx context.Context, userID int64, kind model.TargetKind, ids []int64) (map[int64]bool, error)
	FindLikes(ctx context.Context, q LikeQuery) ([]*model.Like, int64, error)
	DeleteLikesByTargets(ctx context.Context, kind model.TargetKind, ids []int64) (int64, error)
	DeleteLikesByUser(ctx context.Context, userID int64) (int64, error)
}

type SubscriptionStore interface {
	GetSubscription(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, s *model.Subscription) error
	DeleteSubscription(ctx context.Context, id int64) (bool, error)
	FindSubscriptions(ctx context.Context, q SubscriptionQuery) ([]*model.Subscription, int64, error)
	CountSubscribers(ctx context.Context, channelIDs []int64) (map[int64]int64, error)
	CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error)
	SubscribedTo(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error)
	// DeleteSubscriptionsByUser 删除用户作为订阅者和被订阅频道的全部关系
	DeleteSubscriptionsByUser(ctx context.Context, userID int64) (int64, error)
}

type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, p *model.Playlist) error
	GetPlaylist(ctx context.Context, id int64) (*model.Playlist, error)
	UpdatePlaylist(ctx context.Context, p *model.Playlist) error
	DeletePlaylist(ctx context.Context, id int64) error
	FindPlaylists(ctx context.Context, q PlaylistQuery) ([]*model.Playlist, int64, error)
	// AddPlaylistVideo 集合语义，已存在返回 false
	AddPlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error)
	RemovePlaylistVideo(ctx context.Context, playlistID, videoID int64) (bool, error)
	PruneVideoFromPlaylists(ctx context.Context, videoID int64) (int64, error)
	DeletePlaylistsByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// Store 实体存储，mysql 和内存两种实现
type Store interface {
	UserStore
	VideoStore
	CommentStore
	TweetStore
	LikeStore
	SubscriptionStore
	PlaylistStore

	// Transaction fn 返回错误时全部回滚
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Window 把 offset/limit 应用到已排序的切片上
func Window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	if offset < 0 {
		offset = 0
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
