package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: memory
  timeout: 250ms
mysql:
  addr: db:3306
history:
  max_items: 5
`), 0o600))

	t.Setenv("VIDTUBE_REDIS_ADDR", "cache:6379")
	require.NoError(t, Load(path))

	assert.Equal(t, "memory", ConfigInfo.Store.Backend)
	assert.Equal(t, 250*time.Millisecond, StoreTimeout(time.Second))
	assert.Equal(t, "db:3306", ConfigInfo.Mysql.Addr)
	assert.Equal(t, "cache:6379", ConfigInfo.Redis.Addr)
	assert.Equal(t, 5, ConfigInfo.History.MaxItems)
	assert.Equal(t, "utf8mb4", ConfigInfo.Mysql.Charset)
	assert.Equal(t, ":8888", ConfigInfo.Server.Addr)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Second, parseDuration("bogus", time.Second))
	assert.Equal(t, time.Second, parseDuration("-1s", time.Second))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Second))
}
