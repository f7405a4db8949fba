package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeUnique(t *testing.T) {
	sf, err := NewSnowflakeFromNode(37)
	require.NoError(t, err)

	const n = 2000
	var mu sync.Mutex
	seen := make(map[int64]struct{}, n)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n/4; j++ {
				id := sf.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)

	_, dc, worker, _ := sf.ParseID(sf.NextID())
	assert.Equal(t, int64(1), dc)
	assert.Equal(t, int64(5), worker)
}

func TestSnowflakeNodeRange(t *testing.T) {
	_, err := NewSnowflakeFromNode(1024)
	assert.Error(t, err)
	_, err = NewSnowflakeFromNode(-1)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := Crypt("s3cret")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "99999999999999999999"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestTransfer(t *testing.T) {
	assert.Equal(t, int64(7), Transfer(float64(7)))
	assert.Equal(t, int64(7), Transfer("7"))
	assert.Equal(t, int64(-1), Transfer(struct{}{}))
}
