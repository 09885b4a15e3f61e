package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without calling the protected function while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name string
	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
	// Cooldown is how long the breaker stays open before letting a trial request through.
	Cooldown time.Duration
	// MaxHalfOpenRequests is the number of trial requests allowed while half-open.
	MaxHalfOpenRequests uint32
}

// DefaultBreakerConfig returns the defaults used for remote dependencies.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		FailureThreshold:    5,
		Cooldown:            30 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// StateObserver is notified on every state transition.
type StateObserver func(name string, state gobreaker.State)

// CircuitBreaker wraps gobreaker with logging and state observation.
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *slog.Logger
}

// NewCircuitBreaker builds a breaker. observers run synchronously inside the state change.
func NewCircuitBreaker(config BreakerConfig, logger *slog.Logger, observers ...StateObserver) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultBreakerConfig(config.Name)
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.Cooldown <= 0 {
		config.Cooldown = defaults.Cooldown
	}
	if config.MaxHalfOpenRequests == 0 {
		config.MaxHalfOpenRequests = defaults.MaxHalfOpenRequests
	}
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxHalfOpenRequests,
		Timeout:     config.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			for _, observe := range observers {
				if observe != nil {
					observe(name, to)
				}
			}
		},
	}
	for _, observe := range observers {
		if observe != nil {
			observe(config.Name, gobreaker.StateClosed)
		}
	}
	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   config.Name,
		logger: logger,
	}
}

// Execute runs fn through the breaker. Rejections wrap ErrCircuitOpen.
func Execute[T any](ctx context.Context, c *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	result, err := c.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.WarnContext(ctx, "circuit breaker rejected call", slog.String("name", c.name), slog.String("reason", err.Error()))
		return zero, fmt.Errorf("%w: %s", ErrCircuitOpen, c.name)
	}
	if err != nil {
		return zero, err
	}
	typed, _ := result.(T)
	return typed, nil
}

// State returns the current state of the circuit breaker.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Name returns the circuit breaker name.
func (c *CircuitBreaker) Name() string {
	return c.name
}
