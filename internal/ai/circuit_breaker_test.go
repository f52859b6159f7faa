package ai

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"google.golang.org/genai"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func int32Ptr(i int32) *int32                { return &i }
func float32Ptr(f float32) *float32          { return &f }
func float64Ptr(f float64) *float64          { return &f }
func boolPtr(b bool) *bool                   { return &b }

func breakerConfig(minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestGenerationBreakerNamesAndInitialState(t *testing.T) {
	for _, op := range config.Operations {
		t.Run(op, func(t *testing.T) {
			stats := NewGenerationBreaker(op, breakerConfig(3, 0.6), testLogger).Stats()

			if want := "AI-" + op; stats.Name != want {
				t.Errorf("Name = %q, want %q", stats.Name, want)
			}
			if stats.State != "closed" {
				t.Errorf("State = %q, want closed", stats.State)
			}
			if !stats.Enabled {
				t.Error("breaker should be enabled")
			}
		})
	}
}

func TestGenerationBreakerTrips(t *testing.T) {
	cb := NewGenerationBreaker(config.OpDescribe, breakerConfig(2, 0.5), testLogger)

	fail := func() (*genai.GenerateContentResponse, error) { return nil, fmt.Errorf("upstream 503") }
	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(fail); err == nil {
			t.Fatal("expected failure")
		}
	}

	if cb.IsHealthy() {
		t.Fatal("breaker should be open after crossing the failure threshold")
	}

	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return &genai.GenerateContentResponse{}, nil
	})
	if err == nil || called {
		t.Errorf("open breaker should reject without calling; err=%v called=%v", err, called)
	}
}

func TestDisabledBreakerPassesThrough(t *testing.T) {
	cfg := &config.OperationAIConfig{}
	cb := NewGenerationBreaker(config.OpResume, cfg, testLogger)
	if cb != nil {
		t.Fatal("disabled breaker should be nil")
	}

	resp := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return resp, nil })
	if err != nil || got != resp {
		t.Errorf("Execute() = %v, %v", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("nil breaker must report healthy")
	}
	if cb.Stats().Enabled {
		t.Error("nil breaker must report disabled")
	}
}

func TestModelBreakerIsLenient(t *testing.T) {
	cb := NewModelBreaker(config.OpDescribe, breakerConfig(1, 0.1), testLogger)
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (*genai.Model, error) { return nil, fmt.Errorf("lookup failed") })
	}
	if !cb.IsHealthy() {
		t.Error("model breaker should stay closed below five requests")
	}
}
