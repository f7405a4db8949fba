package model

import (
	"time"

	"VidTube.com/pkg/constants"
)

// Subscription 订阅关系，SubscriberID 订阅了 ChannelID
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:idx_sub_pair,priority:1" json:"subscriber_id"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:idx_sub_pair,priority:2;index:idx_sub_channel" json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return constants.SubscriptionTableName
}
