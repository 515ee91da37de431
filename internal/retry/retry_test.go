package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func fastConfig() Config {
	return Config{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Retryable: func(err error) bool { return errors.Is(err, errTransient) },
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAfterAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		return 0, errPermanent
	})
	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, calls)
}

func TestDo_BackoffDoubles(t *testing.T) {
	var waits []time.Duration
	cfg := fastConfig()
	cfg.OnRetry = func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }

	_, _ = Do(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, errTransient
	})
	require.Len(t, waits, 2)
	assert.Equal(t, time.Millisecond, waits[0])
	assert.Equal(t, 2*time.Millisecond, waits[1])
}

func TestDo_MaxElapsedStopsEarly(t *testing.T) {
	cfg := fastConfig()
	cfg.BaseDelay = time.Second
	cfg.MaxElapsed = 100 * time.Millisecond

	calls := 0
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, fastConfig(), func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDo_NonRetryableOnLastAttemptIsUnwrapped(t *testing.T) {
	cfg := fastConfig()
	cfg.Attempts = 1

	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, errPermanent
	})
	assert.Same(t, errPermanent, err)
}

func TestDo_ContextErrorsNotRetriedByDefault(t *testing.T) {
	cfg := fastConfig()
	cfg.Retryable = nil

	calls := 0
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryCountsAttempts(t *testing.T) {
	var attempts []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { attempts = append(attempts, attempt) }

	_, _ = Do(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, errTransient
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestConfig_BackOffJitterWithinRange(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, JitterFraction: 0.2}
	bo := cfg.backOff()

	for i := 0; i < 100; i++ {
		bo.Reset()
		d := bo.NextBackOff()
		assert.LessOrEqual(t, d, 1200*time.Millisecond+time.Nanosecond)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
	}
}

func TestConfig_BackOffMaxDelay(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	bo := cfg.backOff()

	assert.Equal(t, time.Second, bo.NextBackOff())
	assert.Equal(t, 2*time.Second, bo.NextBackOff())
	assert.Equal(t, 3*time.Second, bo.NextBackOff())
	assert.Equal(t, 3*time.Second, bo.NextBackOff())
}
