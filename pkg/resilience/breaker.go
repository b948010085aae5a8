// Package resilience provides fault tolerance wrappers for external service calls.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Max requests allowed in half-open state
	Interval         time.Duration // Cyclic period to clear counts in closed state
	Timeout          time.Duration // Time open before transitioning to half-open
	FailureThreshold uint32        // Consecutive failures before opening
}

// DefaultBreakerConfig returns sensible defaults for LLM-style upstreams.
func DefaultBreakerConfig(name string) *BreakerConfig {
	return &BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// NewBreaker creates a gobreaker circuit breaker from config.
func NewBreaker(cfg *BreakerConfig) *gobreaker.CircuitBreaker {
	if cfg == nil {
		cfg = DefaultBreakerConfig("default")
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	})
}

// Execute runs fn through the breaker, discarding the typed result plumbing
// for callers that only need the error.
func Execute(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
