package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

func failing(_ context.Context) error { return errBackend }
func succeeding(_ context.Context) error { return nil }

func TestExecute_ClosedPassesThrough(t *testing.T) {
	cb := New("test")
	ctx := context.Background()

	assert.NoError(t, cb.Execute(ctx, succeeding))
	assert.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, failing)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Open circuit fails fast without invoking the function.
	called := false
	err := cb.Execute(ctx, func(_ context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestExecute_SuccessResetsConsecutiveFailures(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)
	require.NoError(t, cb.Execute(ctx, succeeding))
	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)

	// Never hit three in a row.
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenRecovery(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	// First probe after the timeout goes through and closes the circuit.
	assert.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestExecute_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	time.Sleep(15 * time.Millisecond)

	_ = cb.Execute(ctx, failing)
	assert.Equal(t, StateOpen, cb.State())
}

func TestExecute_IsFailureFilter(t *testing.T) {
	benign := errors.New("not ranked")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, benign) }),
	)
	ctx := context.Background()

	// Filtered errors still surface but never trip the breaker.
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, func(_ context.Context) error { return benign }), benign)
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestOnStateChange_Callback(t *testing.T) {
	type transition struct{ from, to State }
	var seen []transition

	cb := New("test",
		WithFailureThreshold(1),
		WithOnStateChange(func(_ string, from, to State) {
			seen = append(seen, transition{from, to})
		}),
	)

	_ = cb.Execute(context.Background(), failing)

	require.Len(t, seen, 1)
	assert.Equal(t, transition{StateClosed, StateOpen}, seen[0])
}

func TestExecuteWithFallback(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()

	_ = cb.Execute(ctx, failing)
	require.Equal(t, StateOpen, cb.State())

	fallbackUsed := false
	err := cb.ExecuteWithFallback(ctx, succeeding, func(error) error {
		fallbackUsed = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, fallbackUsed)
}

func TestReset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	_ = cb.Execute(context.Background(), failing)
	require.True(t, cb.IsOpen())

	cb.Reset()
	assert.True(t, cb.IsClosed())
	assert.Equal(t, Counts{}, cb.Counts())
}
