package memdb

import (
	"context"
	"slices"
	"sync"
	"time"

	"VidTube.com/cmd/dal"
	"VidTube.com/cmd/model"
)

type rwLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// 事务内已经持有写锁
type nopLocker struct{}

func (nopLocker) Lock()    {}
func (nopLocker) Unlock()  {}
func (nopLocker) RLock()   {}
func (nopLocker) RUnlock() {}

type likeKey struct {
	userID int64
	target model.LikeTarget
}

type subKey struct {
	subscriberID int64
	channelID    int64
}

type tables struct {
	users     map[int64]*model.User
	videos    map[int64]*model.Video
	comments  map[int64]*model.Comment
	tweets    map[int64]*model.Tweet
	likes     map[int64]*model.Like
	subs      map[int64]*model.Subscription
	playlists map[int64]*model.Playlist

	// 唯一索引
	userNames  map[string]int64
	userEmails map[string]int64
	likeIdx    map[likeKey]int64
	subIdx     map[subKey]int64

	last time.Time
}

func newTables() *tables {
	return &tables{
		users:      map[int64]*model.User{},
		videos:     map[int64]*model.Video{},
		comments:   map[int64]*model.Comment{},
		tweets:     map[int64]*model.Tweet{},
		likes:      map[int64]*model.Like{},
		subs:       map[int64]*model.Subscription{},
		playlists:  map[int64]*model.Playlist{},
		userNames:  map[string]int64{},
		userEmails: map[string]int64{},
		likeIdx:    map[likeKey]int64{},
		subIdx:     map[subKey]int64{},
	}
}

// now 单调递增，保证同一进程内的创建时间互不相同
func (t *tables) now() time.Time {
	n := time.Now()
	if !n.After(t.last) {
		n = t.last.Add(time.Nanosecond)
	}
	t.last = n
	return n
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range t.videos {
		c.videos[k] = cloneVideo(v)
	}
	for k, v := range t.comments {
		cc := *v
		c.comments[k] = &cc
	}
	for k, v := range t.tweets {
		tc := *v
		c.tweets[k] = &tc
	}
	for k, v := range t.likes {
		lc := *v
		c.likes[k] = &lc
	}
	for k, v := range t.subs {
		sc := *v
		c.subs[k] = &sc
	}
	for k, v := range t.playlists {
		c.playlists[k] = clonePlaylist(v)
	}
	for k, v := range t.userNames {
		c.userNames[k] = v
	}
	for k, v := range t.userEmails {
		c.userEmails[k] = v
	}
	for k, v := range t.likeIdx {
		c.likeIdx[k] = v
	}
	for k, v := range t.subIdx {
		c.subIdx[k] = v
	}
	c.last = t.last
	return c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.WatchHistory = slices.Clone(u.WatchHistory)
	return &c
}

func cloneVideo(v *model.Video) *model.Video {
	c := *v
	return &c
}

func clonePlaylist(p *model.Playlist) *model.Playlist {
	c := *p
	c.VideoIDs = slices.Clone(p.VideoIDs)
	if c.VideoIDs == nil {
		c.VideoIDs = []int64{}
	}
	return &c
}

// Store 内存实现，本地运行和测试使用
type Store struct {
	mu rwLocker
	t  *tables
}

var _ dal.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.RWMutex{}, t: newTables()}
}

func (s *Store) read(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	return s.mu.RUnlock, nil
}

func (s *Store) write(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

// Transaction 持有写锁执行 fn，失败时恢复快照
func (s *Store) Transaction(ctx context.Context, fn func(tx dal.Store) error) error {
	unlock, err := s.write(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	snap := s.t.clone()
	tx := &Store{mu: nopLocker{}, t: s.t}
	if err := fn(tx); err != nil {
		*s.t = *snap
		return err
	}
	return nil
}

func newestFirst(ac, bc time.Time, aID, bID int64) int {
	if c := bc.Compare(ac); c != 0 {
		return c
	}
	return compareID(aID, bID)
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func idSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
