package ai

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"resumegen/internal/config"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network error", &net.OpError{Op: "dial", Err: fmt.Errorf("refused")}, true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server error", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusServiceUnavailable}), true},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai unavailable", genai.APIError{Code: http.StatusServiceUnavailable}, true},
		{"genai forbidden", genai.APIError{Code: http.StatusForbidden}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		attempt  int
		min, max time.Duration
	}{
		{1, time.Second, 1100 * time.Millisecond},
		{2, 2 * time.Second, 2200 * time.Millisecond},
		{3, 4 * time.Second, 4400 * time.Millisecond},
		{10, 30 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			got := backoffDelay(tt.attempt)
			if got < tt.min || got > tt.max {
				t.Errorf("backoffDelay(%d) = %v, want in [%v, %v]", tt.attempt, got, tt.min, tt.max)
			}
		})
	}
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	g := &GeminiProvider{
		config: &config.OperationAIConfig{MaxRetries: intPtr(3)},
		logger: testLogger,
	}

	calls := 0
	_, err := g.executeWithRetry(context.Background(), config.OpDescribe, func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, &googleapi.Error{Code: http.StatusUnauthorized}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecuteWithRetryHonoursContext(t *testing.T) {
	g := &GeminiProvider{
		config: &config.OperationAIConfig{MaxRetries: intPtr(5)},
		logger: testLogger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := g.executeWithRetry(ctx, config.OpResume, func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, &googleapi.Error{Code: http.StatusServiceUnavailable}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (backoff should be cut short by the deadline)", calls)
	}
}

func TestBuildGenerateConfig(t *testing.T) {
	g := &GeminiProvider{
		config: &config.OperationAIConfig{
			Temperature:      float32Ptr(0.3),
			MaxOutputTokens:  int32Ptr(650),
			UseSystemPrompts: boolPtr(true),
		},
	}

	cfg := g.buildGenerateConfig("classify")
	if cfg.Temperature == nil || *cfg.Temperature != 0.3 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.MaxOutputTokens != 650 {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.SystemInstruction == nil {
		t.Error("SystemInstruction should be set")
	}

	*g.config.UseSystemPrompts = false
	if cfg := g.buildGenerateConfig("classify"); cfg.SystemInstruction != nil {
		t.Error("SystemInstruction should be omitted when system prompts are disabled")
	}
}

func TestNewGeminiProviderWithBaseURL(t *testing.T) {
	cfg := &config.OperationAIConfig{
		APIKey:            "test-key",
		BaseURL:           "http://127.0.0.1:1",
		Model:             "gemini-2.0-flash",
		RequestsPerSecond: float64Ptr(2),
		Burst:             intPtr(1),
		Timeout:           timePtr(time.Second),
	}
	p, err := NewGeminiProvider(cfg, config.OpCategorize, testLogger)
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}
	if p.limiter == nil {
		t.Error("limiter should be configured")
	}
	if p.circuitBreaker != nil {
		t.Error("breaker should be nil when disabled")
	}
}
