package ai

import (
	"fmt"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// Breaker guards calls returning T. A nil *Breaker is valid and simply
// runs the call, which is what a disabled breaker looks like.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// BreakerStats is a JSON-friendly snapshot of a breaker
type BreakerStats struct {
	Name                string `json:"name,omitempty"`
	State               string `json:"state,omitempty"`
	Enabled             bool   `json:"enabled"`
	Requests            uint32 `json:"requests"`
	TotalFailures       uint32 `json:"total_failures"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

func newBreaker[T any](name, operationType string, cfg config.CircuitBreakerConfig, readyToTrip func(gobreaker.Counts) bool, logger *errors.Logger) *Breaker[T] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// NewGenerationBreaker trips when the failure ratio of content generation
// calls for one operation crosses the configured threshold
func NewGenerationBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *Breaker[*genai.GenerateContentResponse] {
	cb := cfg.CircuitBreaker
	return newBreaker[*genai.GenerateContentResponse](fmt.Sprintf("AI-%s", operationType), operationType, cb,
		func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cb.MinRequests && failureRatio >= cb.FailureThreshold
		}, logger)
}

// NewModelBreaker guards model lookups used by health checks. It trips later
// than the generation breaker since a failed lookup blocks no user.
func NewModelBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *Breaker[*genai.Model] {
	return newBreaker[*genai.Model](fmt.Sprintf("AI-Model-%s", operationType), operationType, cfg.CircuitBreaker,
		func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		}, logger)
}

// Execute runs fn under breaker protection
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns a snapshot of the breaker
func (b *Breaker[T]) Stats() BreakerStats {
	if b == nil || b.cb == nil {
		return BreakerStats{Enabled: false}
	}
	counts := b.cb.Counts()
	return BreakerStats{
		Name:                b.cb.Name(),
		State:               b.cb.State().String(),
		Enabled:             true,
		Requests:            counts.Requests,
		TotalFailures:       counts.TotalFailures,
		ConsecutiveFailures: counts.ConsecutiveFailures,
	}
}

// IsHealthy returns true unless the breaker is open or half-open
func (b *Breaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
