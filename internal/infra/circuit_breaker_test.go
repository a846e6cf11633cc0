package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("database is locked")

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		assert.Equal(t, CBClosed, cb.State())
		_ = cb.Execute(func() error { return errTransient })
	}
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})

	_ = cb.Execute(func() error { return errTransient })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errTransient })

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, IsFailure: IsTransient})
	domain := errors.New("insufficient stock")

	err := cb.Execute(func() error { return domain })
	assert.ErrorIs(t, err, domain)
	assert.Equal(t, CBClosed, cb.State())

	_ = cb.Execute(func() error { return errTransient })
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreaker_NonFailuresLeaveCountsAlone(t *testing.T) {
	domain := errors.New("insufficient stock")

	t.Run("closed keeps its failure count", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour, IsFailure: IsTransient})
		_ = cb.Execute(func() error { return errTransient })
		_ = cb.Execute(func() error { return domain })
		_ = cb.Execute(func() error { return errTransient })
		assert.Equal(t, CBOpen, cb.State())
	})

	t.Run("half-open needs real successes to close", func(t *testing.T) {
		cb := NewCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: 1,
			SuccessThreshold: 1,
			OpenTimeout:      20 * time.Millisecond,
			IsFailure:        IsTransient,
		})
		_ = cb.Execute(func() error { return errTransient })
		time.Sleep(30 * time.Millisecond)
		require.Equal(t, CBHalfOpen, cb.State())

		assert.ErrorIs(t, cb.Execute(func() error { return domain }), domain)
		assert.Equal(t, CBHalfOpen, cb.State())

		require.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, CBClosed, cb.State())
	})
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      20 * time.Millisecond,
	})
	_ = cb.Execute(func() error { return errTransient })
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: 20 * time.Millisecond})
	_ = cb.Execute(func() error { return errTransient })
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errTransient })
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
	assert.Equal(t, "unknown", CBState(9).String())
}
