package db

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"testing"

	"VidTube.com/cmd/dal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr(nil, "noop"))
	assert.ErrorIs(t, wrapErr(gorm.ErrRecordNotFound, "GetUser %d", 1), dal.ErrNotFound)
	assert.ErrorIs(t, wrapErr(gorm.ErrDuplicatedKey, "CreateLike"), dal.ErrDuplicate)
	assert.ErrorIs(t, wrapErr(driver.ErrBadConn, "FindVideos"), dal.ErrUnavailable)
	assert.ErrorIs(t, wrapErr(context.DeadlineExceeded, "FindVideos"), context.DeadlineExceeded)

	other := stderrors.New("syntax error")
	err := wrapErr(other, "FindVideos owner=%d", 3)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "FindVideos owner=3")
}
