package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushHistory(t *testing.T) {
	t.Run("moves existing to front", func(t *testing.T) {
		got := PushHistory([]int64{3, 2, 1}, 1, 0)
		assert.Equal(t, []int64{1, 3, 2}, got)
	})
	t.Run("caps length", func(t *testing.T) {
		got := PushHistory([]int64{3, 2, 1}, 4, 3)
		assert.Equal(t, []int64{4, 3, 2}, got)
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, []int64{7}, PushHistory(nil, 7, 5))
	})
}

func TestLikeTargetJSON(t *testing.T) {
	b, err := json.Marshal(CommentTarget(42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"comment_id":42}`, string(b))
}

func TestVideoVisibleTo(t *testing.T) {
	v := &Video{OwnerID: 1, IsPublished: false}
	assert.True(t, v.VisibleTo(1))
	assert.False(t, v.VisibleTo(2))
	assert.False(t, v.VisibleTo(0))
	v.IsPublished = true
	assert.True(t, v.VisibleTo(0))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "alice", NormalizeName("  Alice "))
}
