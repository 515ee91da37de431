package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"ytwatch/internal/models"
	"ytwatch/internal/providers"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"

	"github.com/google/uuid"
)

const (
	WatermarkPrefix = "yt:last:"
	LockPrefix      = "yt:lock:"

	// storeTimeout bounds writes that must land even after the caller gave up.
	storeTimeout = 5 * time.Second
)

// Lease is a held PollLock. The store entry outlives the process by at most TTL.
type Lease struct {
	Key        string
	Token      string
	AcquiredAt time.Time
	TTL        time.Duration
}

// Remaining is the time left before the store drops the lock on its own.
func (l *Lease) Remaining(now time.Time) time.Duration {
	left := l.TTL - now.Sub(l.AcquiredAt)
	if left < 0 {
		return 0
	}
	return left
}

type VideoNotifier interface {
	NotifyNewVideos(ctx context.Context, channelTitle string, videos []models.VideoSummary) error
}

type GateResult struct {
	Outcome   models.Outcome
	Detail    string
	VideoID   string
	NewVideos []models.VideoSummary
}

type NotificationGateInterface interface {
	Evaluate(ctx context.Context, snap *models.ChannelSnapshot) (*GateResult, error)
}

// NotificationGate decides whether a snapshot holds unseen uploads and, if so,
// sends exactly one notification and moves the watermark.
//
// The lease is released when Evaluate returns, so a channel can be processed
// again right away instead of waiting out the lock TTL. The TTL only matters
// when a poller dies while holding the lease. Once a notification has been
// accepted the watermark is written on a context detached from the caller, so
// cancelling a poll mid-send cannot cause the same video to be sent again.
type NotificationGate struct {
	kv       store.KV
	notifier VideoNotifier
	lockTTL  time.Duration
	margin   time.Duration
	logger   providers.Logger
	now      func() time.Time
}

func NewNotificationGate(conf *structures.Config, kv store.KV, notifier VideoNotifier, logger providers.Logger) *NotificationGate {
	return &NotificationGate{
		kv:       kv,
		notifier: notifier,
		lockTTL:  conf.Poll.LockTTL,
		margin:   conf.Poll.LeaseMargin,
		logger:   logger,
		now:      time.Now,
	}
}

func (g *NotificationGate) Evaluate(ctx context.Context, snap *models.ChannelSnapshot) (*GateResult, error) {
	newest, ok := snap.Newest()
	if !ok {
		return &GateResult{Outcome: models.OutcomeUnchanged, Detail: "no videos"}, nil
	}

	lease, err := g.acquire(ctx, snap.ID)
	if errors.Is(err, ErrLockContention) {
		return &GateResult{Outcome: models.OutcomeSkipped, Detail: "poll in progress"}, nil
	}
	if err != nil {
		return nil, err
	}
	defer g.release(ctx, lease)

	key := WatermarkPrefix + snap.ID
	last, err := g.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("read watermark %s: %w", snap.ID, err)
	}
	if last == newest.ID {
		return &GateResult{Outcome: models.OutcomeUnchanged, Detail: "no new video", VideoID: newest.ID}, nil
	}

	fresh := NewSince(snap.Uploads, last)

	if left := lease.Remaining(g.now()); left < g.margin {
		return nil, fmt.Errorf("%w: %s left on %s", ErrLeaseExpired, left, lease.Key)
	}
	if err := g.notifier.NotifyNewVideos(ctx, snap.Title, fresh); err != nil {
		return nil, err
	}
	if err := g.storeWatermark(ctx, key, newest.ID); err != nil {
		return nil, fmt.Errorf("store watermark %s after notifying: %w", snap.ID, err)
	}

	g.logger.Infof(providers.TypePoll, "channel %s: notified %d new video(s), watermark %s -> %s", snap.ID, len(fresh), last, newest.ID)
	return &GateResult{Outcome: models.OutcomeNotified, VideoID: newest.ID, NewVideos: fresh}, nil
}

func (g *NotificationGate) acquire(ctx context.Context, channelID string) (*Lease, error) {
	lease := &Lease{
		Key:        LockPrefix + channelID,
		Token:      uuid.NewString(),
		AcquiredAt: g.now(),
		TTL:        g.lockTTL,
	}
	ok, err := g.kv.SetNX(ctx, lease.Key, lease.Token, lease.TTL)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", lease.Key, err)
	}
	if !ok {
		return nil, ErrLockContention
	}
	return lease, nil
}

func (g *NotificationGate) storeWatermark(ctx context.Context, key, videoID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	return g.kv.Set(ctx, key, videoID, 0)
}

// release drops the lock only if it still carries our token; an expired lease
// may already belong to another poller.
func (g *NotificationGate) release(ctx context.Context, lease *Lease) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if _, err := g.kv.DeleteIfEqual(ctx, lease.Key, lease.Token); err != nil {
		g.logger.Warnf(providers.TypePoll, "release %s: %s", lease.Key, err)
	}
}

// NewSince returns the uploads newer than watermark. With no watermark every
// upload is new. A watermark outside the window yields only the newest upload.
func NewSince(uploads []models.VideoSummary, watermark string) []models.VideoSummary {
	if len(uploads) == 0 {
		return nil
	}
	if watermark == "" {
		return uploads
	}
	for i, v := range uploads {
		if v.ID == watermark {
			return uploads[:i]
		}
	}
	return uploads[:1]
}
