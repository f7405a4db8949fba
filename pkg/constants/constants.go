package constants

import "time"

const (
	DataFormate = "2006-01-02 15:04:05"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultStoreTimeout = 3 * time.Second

	UserTableName          = "users"
	VideoTableName         = "videos"
	CommentTableName       = "comments"
	TweetTableName         = "tweets"
	LikeTableName          = "likes"
	SubscriptionTableName  = "subscriptions"
	PlaylistTableName      = "playlists"
	PlaylistVideoTableName = "playlist_videos"

	IdentityKey = "viewer_id"
	TokenIDKey  = "jti"

	// Redis 锁前缀
	ToggleLockPrefix = "lock:toggle:"
	ToggleLockExpiry = 5 * time.Second

	CascadeEventExchange = "cascade_events"
	CascadeEventQueue    = "cascade_event_queue"

	VideoIndexName = "videos"

	ToggleResource = "toggle"
)
