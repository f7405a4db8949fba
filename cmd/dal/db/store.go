package db

import (
	"context"
	"database/sql/driver"
	"net"

	"VidTube.com/cmd/dal"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 基于 gorm 的实体存储
type Store struct {
	db *gorm.DB
}

var _ dal.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx dal.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// wrapErr 把驱动错误翻译成 dal 的哨兵错误，其余的附带上下文
func wrapErr(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return dal.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return dal.ErrDuplicate
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, driver.ErrBadConn), errors.As(err, &netErr):
		return errors.Wrapf(dal.ErrUnavailable, format+": %v", append(args, err)...)
	}
	return errors.Wrapf(err, format, args...)
}

func window(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if offset > 0 {
			tx = tx.Offset(offset)
		}
		if limit > 0 {
			tx = tx.Limit(limit)
		}
		return tx
	}
}

// newestFirst 创建时间倒序，同一时间按 ID 升序
func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}
