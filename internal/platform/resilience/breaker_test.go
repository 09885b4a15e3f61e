package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var states []gobreaker.State
	cb := NewCircuitBreaker(BreakerConfig{Name: "fleet", FailureThreshold: 2, Cooldown: time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(_ string, s gobreaker.State) { states = append(states, s) },
	)
	ctx := context.Background()
	boom := errors.New("boom")
	calls := 0
	failing := func(context.Context) (bool, error) {
		calls++
		return false, boom
	}

	_, err := Execute(ctx, cb, failing)
	require.ErrorIs(t, err, boom)
	_, err = Execute(ctx, cb, failing)
	require.ErrorIs(t, err, boom)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = Execute(ctx, cb, failing)
	require.ErrorIs(t, err, ErrCircuitOpen)
	require.Equal(t, 2, calls)
	require.Equal(t, []gobreaker.State{gobreaker.StateClosed, gobreaker.StateOpen}, states)
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	cb := NewCircuitBreaker(DefaultBreakerConfig("fleet"), nil)

	got, err := Execute(context.Background(), cb, func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, "fleet", cb.Name())
}
