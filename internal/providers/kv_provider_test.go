package providers

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvConfig(driver, dsn string) *structures.Config {
	return &structures.Config{Store: structures.StoreConfig{Driver: driver, DSN: dsn}}
}

func TestNewKVProvider_Memory(t *testing.T) {
	kv, cleanup, err := NewKVProvider(kvConfig("memory", ""), &cacheTestLogger{})
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &store.Memory{}, kv)
}

func TestNewKVProvider_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "kv.db")
	kv, cleanup, err := NewKVProvider(kvConfig("sqlite", dsn), &cacheTestLogger{})
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	ok, err := kv.SetNX(ctx, "yt:lock:UC1", "token", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewKVProvider_UnknownDriver(t *testing.T) {
	_, _, err := NewKVProvider(kvConfig("etcd", ""), &cacheTestLogger{})
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewKVProvider_RedisUnreachable(t *testing.T) {
	_, _, err := NewKVProvider(kvConfig("redis", "redis://127.0.0.1:1/0"), &cacheTestLogger{})
	assert.Error(t, err)
}
