package db

import (
	"context"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
	"gorm.io/gorm"
)

func (s *Store) GetSubscription(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&sub).Error
	if err != nil {
		return nil, wrapErr(err, "GetSubscription %d->%d", subscriberID, channelID)
	}
	return &sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return wrapErr(s.db.WithContext(ctx).Create(sub).Error, "CreateSubscription %d", sub.ID)
}

func (s *Store) DeleteSubscription(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Subscription{}, id)
	if res.Error != nil {
		return false, wrapErr(res.Error, "DeleteSubscription %d", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) FindSubscriptions(ctx context.Context, q dal.SubscriptionQuery) ([]*model.Subscription, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.SubscriberID != 0 {
			tx = tx.Where("subscriber_id = ?", q.SubscriberID)
		}
		if q.ChannelID != 0 {
			tx = tx.Where("channel_id = ?", q.ChannelID)
		}
		return tx
	}
	subs := make([]*model.Subscription, 0)
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Subscription{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err, "FindSubscriptions count")
	}
	if total == 0 {
		return subs, 0, nil
	}
	err := s.db.WithContext(ctx).Scopes(filter, newestFirst, window(q.Offset, q.Limit)).Find(&subs).Error
	if err != nil {
		return nil, 0, wrapErr(err, "FindSubscriptions")
	}
	return subs, total, nil
}

func (s *Store) CountSubscribers(ctx context.Context, channelIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	var rows []countRow
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Select("channel_id AS id, COUNT(*) AS n").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "CountSubscribers")
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

func (s *Store) CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).Count(&n).Error
	return n, wrapErr(err, "CountSubscriptions %d", subscriberID)
}

func (s *Store) SubscribedTo(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(channelIDs))
	if len(channelIDs) == 0 || subscriberID == 0 {
		return out, nil
	}
	var ids []int64
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", subscriberID, channelIDs).
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, wrapErr(err, "SubscribedTo %d", subscriberID)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *Store) DeleteSubscriptionsByUser(ctx context.Context, userID int64) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? OR channel_id = ?", userID, userID).
		Delete(&model.Subscription{})
	return res.RowsAffected, wrapErr(res.Error, "DeleteSubscriptionsByUser %d", userID)
}
