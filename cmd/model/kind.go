package model

// EntityKind 级联删除和权限检查使用的实体类型
type EntityKind string

const (
	KindUser     EntityKind = "user"
	KindVideo    EntityKind = "video"
	KindComment  EntityKind = "comment"
	KindTweet    EntityKind = "tweet"
	KindPlaylist EntityKind = "playlist"
)

func (k EntityKind) Valid() bool {
	switch k {
	case KindUser, KindVideo, KindComment, KindTweet, KindPlaylist:
		return true
	}
	return false
}

// Owned 有唯一所有者的实体
type Owned interface {
	GetOwnerID() int64
}
