package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     time.Millisecond,
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	var calls int
	val, err := Retry(context.Background(), fastRetry, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(eris.New("flaky"), 502)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	var calls int
	_, err := Retry(context.Background(), fastRetry, func(context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("down"), 503)
	})

	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, calls)
}

func TestRetry_QuotaErrorNotRetried(t *testing.T) {
	var calls int
	_, err := Retry(context.Background(), fastRetry, func(context.Context) (int, error) {
		calls++
		return 0, NewQuotaError(eris.New("quota exceeded"), 429)
	})

	require.Error(t, err)
	assert.True(t, IsQuota(err))
	assert.Equal(t, 1, calls)
}

func TestRetry_ParseErrorNotRetried(t *testing.T) {
	var calls int
	_, err := Retry(context.Background(), fastRetry, func(context.Context) (int, error) {
		calls++
		return 0, NewParseError(eris.New("bad payload"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_CancelledContextStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	_, err := Retry(ctx, fastRetry, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(eris.New("flaky"), 502)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_OnRetryObservesAttempts(t *testing.T) {
	var attempts []int
	cfg := fastRetry
	cfg.OnRetry = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	_, err := Retry(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, NewTransientError(eris.New("down"), 503)
	})

	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
}
