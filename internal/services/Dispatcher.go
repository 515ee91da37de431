package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"ytwatch/internal/models"
	"ytwatch/internal/providers"
	"ytwatch/internal/structures"
	"ytwatch/internal/youtube"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

type ChannelResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

type UploadLister interface {
	ListRecentUploads(ctx context.Context, channelID string, maxResults int) (*models.ChannelSnapshot, error)
}

type DispatcherInterface interface {
	Run(ctx context.Context) (*models.Report, error)
	Videos(ctx context.Context, raw string) (*models.ChannelSnapshot, error)
}

// Dispatcher runs one poll over every configured channel reference.
type Dispatcher struct {
	conf     *structures.Config
	resolver ChannelResolver
	lister   UploadLister
	gate     NotificationGateInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

func NewDispatcher(conf *structures.Config, resolver ChannelResolver, lister UploadLister, gate NotificationGateInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Dispatcher {
	return &Dispatcher{
		conf:     conf,
		resolver: resolver,
		lister:   lister,
		gate:     gate,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Preflight checks the settings every run depends on.
func (d *Dispatcher) Preflight() error {
	var missing []string
	if d.conf.YouTube.APIKey == "" {
		missing = append(missing, "youtube api key")
	}
	if d.conf.Notify.From == "" {
		missing = append(missing, "email sender")
	}
	if len(d.conf.Notify.To) == 0 {
		missing = append(missing, "email recipients")
	}
	if d.conf.Notify.Provider == "resend" && d.conf.Notify.APIKey == "" {
		missing = append(missing, "resend api key")
	}
	if len(d.conf.Poll.Channels) == 0 {
		missing = append(missing, "channel list")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMisconfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Run processes every channel concurrently. Per-channel failures end up in
// the report; only misconfiguration returns an error.
func (d *Dispatcher) Run(ctx context.Context) (*models.Report, error) {
	if err := d.Preflight(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	channels := d.conf.Poll.Channels
	results := make([]*models.ChannelResult, len(channels))
	sent := atomic.NewInt64(0)

	var g errgroup.Group
	if d.conf.Poll.Concurrency > 0 {
		g.SetLimit(d.conf.Poll.Concurrency)
	}
	for i, raw := range channels {
		g.Go(func() error {
			res := d.process(ctx, runID, raw)
			if res.Outcome == models.OutcomeNotified {
				sent.Inc()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	report := &models.Report{
		OK:        true,
		RunID:     runID,
		SentCount: int(sent.Load()),
		Results:   results,
		At:        d.now().UTC(),
	}
	d.metrics.ObservePollDuration(time.Since(start))
	d.logger.Infof(providers.TypePoll, "run %s: %d channel(s), notified=%d unchanged=%d skipped=%d error=%d in %s",
		runID, len(results), report.Count(models.OutcomeNotified), report.Count(models.OutcomeUnchanged),
		report.Count(models.OutcomeSkipped), report.Count(models.OutcomeError), time.Since(start))
	return report, nil
}

func (d *Dispatcher) process(ctx context.Context, runID, raw string) (res *models.ChannelResult) {
	res = &models.ChannelResult{Input: raw}
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = models.OutcomeError
			res.Detail = fmt.Sprintf("panic: %v", r)
			d.logger.Errorf(providers.TypePoll, "run %s: %q panicked: %v", runID, raw, r)
		}
		d.metrics.IncPollOutcome(string(res.Outcome))
	}()

	id, err := d.resolver.Resolve(ctx, raw)
	if err != nil {
		return d.fail(res, runID, err)
	}
	res.ChannelID = id

	snap, err := d.lister.ListRecentUploads(ctx, id, d.conf.YouTube.MaxResults)
	if err != nil {
		return d.fail(res, runID, err)
	}
	res.ChannelTitle = snap.Title

	gr, err := d.gate.Evaluate(ctx, snap)
	if err != nil {
		return d.fail(res, runID, err)
	}
	res.Outcome = gr.Outcome
	res.Detail = gr.Detail
	res.VideoID = gr.VideoID
	res.NewVideos = gr.NewVideos
	return res
}

// fail records err on res. A channel that no longer exists upstream is
// reported as unchanged, not as an error.
func (d *Dispatcher) fail(res *models.ChannelResult, runID string, err error) *models.ChannelResult {
	res.Detail = err.Error()
	if errors.Is(err, youtube.ErrChannelNotFound) {
		res.Outcome = models.OutcomeUnchanged
		res.Detail = "channel not found"
		d.logger.Warnf(providers.TypePoll, "run %s: %q: %s", runID, res.Input, err)
		return res
	}
	res.Outcome = models.OutcomeError
	d.logger.Errorf(providers.TypePoll, "run %s: %q: %s", runID, res.Input, err)
	return res
}

// Videos resolves one reference and lists its recent uploads without touching
// the watermark.
func (d *Dispatcher) Videos(ctx context.Context, raw string) (*models.ChannelSnapshot, error) {
	id, err := d.resolver.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	return d.lister.ListRecentUploads(ctx, id, d.conf.YouTube.MaxResults)
}
