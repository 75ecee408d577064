package resilience

import (
	"errors"
	"testing"
	"time"

	"support-chat-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newTestBreaker(retryTimeout time.Duration) *CircuitBreaker {
	config := CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		RetryTimeout:     retryTimeout,
	}
	return NewCircuitBreaker(config, logger.New(logger.DefaultConfig()))
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errBoom })
		assert.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Open circuit short-circuits without invoking fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerClosesAfterRecovery(t *testing.T) {
	cb := newTestBreaker(time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(5 * time.Millisecond)

	// First call after the retry timeout probes half-open
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := newTestBreaker(time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	time.Sleep(5 * time.Millisecond)

	err := cb.Execute(func() error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.State())
}
