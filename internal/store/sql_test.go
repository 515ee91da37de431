package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQL, *fakeClock) {
	t.Helper()
	s, err := NewSQLite(context.Background(), "file:"+filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := newFakeClock()
	s.now = clock.Now
	return s, clock
}

func TestSQLite_SetGet(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "yt:last:UC1", "v1", 0))
	require.NoError(t, s.Set(ctx, "yt:last:UC1", "v2", 0))

	v, err := s.Get(ctx, "yt:last:UC1")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestSQLite_Expiry(t *testing.T) {
	s, clock := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	clock.Advance(time.Minute)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SetNX(t *testing.T) {
	s, clock := newTestSQLite(t)
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "lock", "a", 90*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "lock", "b", 90*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(91 * time.Second)
	ok, err = s.SetNX(ctx, "lock", "c", 90*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_SetNXNeverOverwritesPermanentKey(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "forever", 0))
	ok, err := s.SetNX(ctx, "k", "other", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_DeleteIfEqual(t *testing.T) {
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.SetNX(ctx, "lock", "owner", time.Minute)
	require.NoError(t, err)

	ok, err := s.DeleteIfEqual(ctx, "lock", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteIfEqual(ctx, "lock", "owner")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQL_RebindPostgres(t *testing.T) {
	s := &SQL{postgres: true}
	assert.Equal(t, "SELECT $1, $2", s.rebind("SELECT ?, ?"))

	s.postgres = false
	assert.Equal(t, "SELECT ?, ?", s.rebind("SELECT ?, ?"))
}
