// Package retry runs fallible upstream calls with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Config holds retry configuration.
type Config struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// BaseDelay is the wait before the second attempt; it doubles afterwards.
	BaseDelay time.Duration
	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration
	// MaxElapsed caps the total time spent, waits included. Zero means no cap.
	MaxElapsed time.Duration
	// JitterFraction is the fraction of each wait used for jitter (0.0-1.0).
	JitterFraction float64
	// Retryable reports whether an error is worth another attempt.
	// Nil retries everything except context errors.
	Retryable func(error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultConfig mirrors the upstream call policy: 3 attempts, doubling from 500ms.
func DefaultConfig() Config {
	return Config{
		Attempts:       3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       4 * time.Second,
		MaxElapsed:     20 * time.Second,
		JitterFraction: 0.2,
	}
}

func (c Config) backOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.BaseDelay
	bo.RandomizationFactor = c.JitterFraction
	bo.Multiplier = 2
	if c.MaxDelay > 0 {
		bo.MaxInterval = c.MaxDelay
	}
	return bo
}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempt or time budget runs out.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	attempts := max(cfg.Attempts, 1)
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = defaultRetryable
	}

	operation := func() (T, error) {
		result, err := fn(ctx)
		if err != nil && !retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
	}
	if cfg.OnRetry != nil {
		attempt := 0
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			attempt++
			cfg.OnRetry(attempt, err, wait)
		}))
	}

	result, err := backoff.Retry(ctx, operation, opts...)
	if err != nil {
		// The last attempt returns before the library unwraps permanent errors.
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return zero, err
	}
	return result, nil
}

func defaultRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
