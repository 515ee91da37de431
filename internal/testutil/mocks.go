package testutil

import (
	"context"
	"sync"
	"time"
	"ytwatch/internal/models"
	"ytwatch/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu            sync.Mutex
	Outcomes      map[string]int
	Resolves      map[string]int
	Retries       int
	Notifications int
	CacheHits     int
	CacheMisses   int
	PollRuns      int
	Persists      int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncPollOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Outcomes == nil {
		m.Outcomes = make(map[string]int)
	}
	m.Outcomes[outcome]++
}
func (m *MockMetrics) IncResolve(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Resolves == nil {
		m.Resolves = make(map[string]int)
	}
	m.Resolves[strategy]++
}
func (m *MockMetrics) IncUpstreamRetries(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries++
}
func (m *MockMetrics) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications++
}
func (m *MockMetrics) ObservePollDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollRuns++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// NoCache never hits.
type NoCache struct{}

func (NoCache) Get(_ string) ([]byte, bool) { return nil, false }
func (NoCache) Set(_ string, _ []byte)      {}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SentNotification is one call recorded by MockNotifier.
type SentNotification struct {
	ChannelTitle string
	Videos       []models.VideoSummary
}

// MockNotifier records NotifyNewVideos calls. Hook runs before recording and
// may block or fail the send.
type MockNotifier struct {
	mu    sync.Mutex
	Sent  []SentNotification
	Tests int
	Hook  func(ctx context.Context) error
}

func (m *MockNotifier) NotifyNewVideos(ctx context.Context, channelTitle string, videos []models.VideoSummary) error {
	if m.Hook != nil {
		if err := m.Hook(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentNotification{ChannelTitle: channelTitle, Videos: videos})
	return nil
}

func (m *MockNotifier) SendTest(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tests++
	return nil
}

func (m *MockNotifier) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
