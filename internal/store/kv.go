// Package store holds the key-value backends shared by every poll run:
// watermarks, poll leases and resolved channel IDs.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// KV is atomic at single-key granularity. A zero ttl means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value only when key is absent or expired and reports
	// whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// DeleteIfEqual removes key only while it still holds value.
	DeleteIfEqual(ctx context.Context, key, value string) (bool, error)
	Close() error
}

// Entry is the persisted form of a memory store item.
type Entry struct {
	Value     string    `json:"v"`
	ExpiresAt time.Time `json:"e,omitempty"`
}

func (e Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Snapshotter is implemented by stores that live in process memory and
// need to be written to disk between restarts.
type Snapshotter interface {
	Snapshot() map[string]Entry
	Restore(entries map[string]Entry)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
