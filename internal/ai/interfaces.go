package ai

import (
	"context"
)

// Prompt is one fully rendered LLM request
type Prompt struct {
	System string
	User   string
}

// AIProvider is implemented by each LLM backend. Every call reports token
// usage when the backend returns it; callers may ignore it.
type AIProvider interface {
	GenerateText(ctx context.Context, prompt Prompt) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TextGenerator renders the prompt of one operation from data and runs it.
// *Service implements it; packages that generate content depend on this
// interface so tests can substitute canned output.
type TextGenerator interface {
	Generate(ctx context.Context, data any) (string, *TokenUsage, error)
}

// StatsProvider is implemented by providers that expose circuit breaker state
type StatsProvider interface {
	GetCircuitBreakerStats() map[string]any
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
