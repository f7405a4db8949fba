package model

import (
	"encoding/json"
	"time"

	"VidTube.com/pkg/constants"
)

type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_comment_video" json:"video_id"`
	OwnerID   int64     `gorm:"not null;index:idx_comment_owner" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_comment_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return constants.CommentTableName
}

func (c *Comment) GetOwnerID() int64 {
	return c.OwnerID
}

type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID   int64     `gorm:"not null;index:idx_tweet_owner" json:"owner_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_tweet_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tweet) TableName() string {
	return constants.TweetTableName
}

func (t *Tweet) GetOwnerID() int64 {
	return t.OwnerID
}

// TargetKind 点赞目标类型
type TargetKind int8

const (
	TargetVideo TargetKind = iota + 1
	TargetComment
	TargetTweet
)

func (k TargetKind) String() string {
	switch k {
	case TargetVideo:
		return "video"
	case TargetComment:
		return "comment"
	case TargetTweet:
		return "tweet"
	}
	return "unknown"
}

func (k TargetKind) Valid() bool {
	return k >= TargetVideo && k <= TargetTweet
}

// LikeTarget 一个点赞恰好指向一个目标
type LikeTarget struct {
	Kind TargetKind
	ID   int64
}

func VideoTarget(id int64) LikeTarget   { return LikeTarget{Kind: TargetVideo, ID: id} }
func CommentTarget(id int64) LikeTarget { return LikeTarget{Kind: TargetComment, ID: id} }
func TweetTarget(id int64) LikeTarget   { return LikeTarget{Kind: TargetTweet, ID: id} }

func (t LikeTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int64{t.Kind.String() + "_id": t.ID})
}

type Like struct {
	ID         int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	LikedByID  int64      `gorm:"not null;uniqueIndex:idx_like_pair,priority:1" json:"liked_by"`
	TargetKind TargetKind `gorm:"not null;uniqueIndex:idx_like_pair,priority:2;index:idx_like_target,priority:1" json:"-"`
	TargetID   int64      `gorm:"not null;uniqueIndex:idx_like_pair,priority:3;index:idx_like_target,priority:2" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Like) TableName() string {
	return constants.LikeTableName
}

func (l *Like) Target() LikeTarget {
	return LikeTarget{Kind: l.TargetKind, ID: l.TargetID}
}
