package store

import (
	"context"
	"sync"
	"time"
)

type Memory struct {
	mu    sync.Mutex
	items map[string]Entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock lets tests drive expiry.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		items: make(map[string]Entry),
		now:   now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(m.now()) {
		delete(m.items, key)
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = Entry{Value: value, ExpiresAt: expiry(m.now(), ttl)}
	return nil
}

func (m *Memory) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.items[key]; ok && !e.expired(now) {
		return false, nil
	}
	m.items[key] = Entry{Value: value, ExpiresAt: expiry(now, ttl)}
	return true, nil
}

func (m *Memory) DeleteIfEqual(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok || e.expired(m.now()) || e.Value != value {
		return false, nil
	}
	delete(m.items, key)
	return true, nil
}

func (m *Memory) Close() error { return nil }

// Snapshot returns live entries only.
func (m *Memory) Snapshot() map[string]Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make(map[string]Entry, len(m.items))
	for k, e := range m.items {
		if e.expired(now) {
			continue
		}
		out[k] = e
	}
	return out
}

func (m *Memory) Restore(entries map[string]Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range entries {
		if e.expired(now) {
			continue
		}
		m.items[k] = e
	}
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
