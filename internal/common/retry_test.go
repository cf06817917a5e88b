package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return nil
		}, fastRetry())

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return &RetryableError{Err: ErrGatewayUnavailable, Retryable: true}
			}
			return nil
		}, fastRetry())

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: ErrGatewayUnavailable, Retryable: true}
		}, fastRetry())

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors fail immediately", func(t *testing.T) {
		calls := 0
		sentinel := errors.New("schema mismatch")
		err := WithRetry(context.Background(), func() error {
			calls++
			return sentinel
		}, fastRetry())

		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, calls)
	})

	t.Run("auth expiry is never retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return ErrAuthExpired
		}, fastRetry())

		assert.ErrorIs(t, err, ErrAuthExpired)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			cancel()
			return &RetryableError{Err: ErrGatewayUnavailable, Retryable: true}
		}, fastRetry())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "auth expired", err: ErrAuthExpired, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
		{
			name: "retryable wrapper",
			err:  &RetryableError{Err: errors.New("flaky"), Retryable: true},
			want: true,
		},
		{
			name: "non-retryable wrapper",
			err:  &RetryableError{Err: errors.New("broken"), Retryable: false},
			want: false,
		},
		{
			name: "wrapped auth expiry stays terminal",
			err:  &RetryableError{Err: ErrAuthExpired, Retryable: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("no API token configured", ErrMissingConfig)

	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "no API token configured")

	var userErr *UserError
	require.True(t, errors.As(err, &userErr))
	assert.Equal(t, "no API token configured", userErr.UserMessage)
}
