package memdb

import (
	"context"
	"slices"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

func (s *Store) GetSubscription(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	id, ok := s.t.subIdx[subKey{subscriberID: subscriberID, channelID: channelID}]
	if !ok {
		return nil, dal.ErrNotFound
	}
	sub := *s.t.subs[id]
	return &sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	key := subKey{subscriberID: sub.SubscriberID, channelID: sub.ChannelID}
	if _, ok := s.t.subIdx[key]; ok {
		return dal.ErrDuplicate
	}
	if _, ok := s.t.subs[sub.ID]; ok {
		return dal.ErrDuplicate
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.t.now()
	}
	sc := *sub
	s.t.subs[sub.ID] = &sc
	s.t.subIdx[key] = sub.ID
	return nil
}

func (s *Store) deleteSubscription(sub *model.Subscription) {
	delete(s.t.subIdx, subKey{subscriberID: sub.SubscriberID, channelID: sub.ChannelID})
	delete(s.t.subs, sub.ID)
}

func (s *Store) DeleteSubscription(ctx context.Context, id int64) (bool, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	sub, ok := s.t.subs[id]
	if !ok {
		return false, nil
	}
	s.deleteSubscription(sub)
	return true, nil
}

func (s *Store) FindSubscriptions(ctx context.Context, q dal.SubscriptionQuery) ([]*model.Subscription, int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	matched := make([]*model.Subscription, 0)
	for _, sub := range s.t.subs {
		if q.SubscriberID != 0 && sub.SubscriberID != q.SubscriberID {
			continue
		}
		if q.ChannelID != 0 && sub.ChannelID != q.ChannelID {
			continue
		}
		matched = append(matched, sub)
	}
	slices.SortFunc(matched, func(a, b *model.Subscription) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	page := dal.Window(matched, q.Offset, q.Limit)
	out := make([]*model.Subscription, len(page))
	for i, sub := range page {
		sc := *sub
		out[i] = &sc
	}
	return out, int64(len(matched)), nil
}

func (s *Store) CountSubscribers(ctx context.Context, channelIDs []int64) (map[int64]int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	want := idSet(channelIDs)
	out := make(map[int64]int64, len(channelIDs))
	for _, sub := range s.t.subs {
		if _, ok := want[sub.ChannelID]; ok {
			out[sub.ChannelID]++
		}
	}
	return out, nil
}

func (s *Store) CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, sub := range s.t.subs {
		if sub.SubscriberID == subscriberID {
			n++
		}
	}
	return n, nil
}

func (s *Store) SubscribedTo(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		if _, ok := s.t.subIdx[subKey{subscriberID: subscriberID, channelID: id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (s *Store) DeleteSubscriptionsByUser(ctx context.Context, userID int64) (int64, error) {
	unlock, err := s.write(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for _, sub := range s.t.subs {
		if sub.SubscriberID == userID || sub.ChannelID == userID {
			s.deleteSubscription(sub)
			n++
		}
	}
	return n, nil
}
