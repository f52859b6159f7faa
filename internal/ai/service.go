package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"
)

// PromptSource resolves the prompts of an operation. *config.Config
// implements it.
type PromptSource interface {
	ResolvePrompts(op string, defaults config.LoadedPrompt) config.LoadedPrompt
}

// Observer is notified after every generation attempt
type Observer func(ctx context.Context, operation string, duration time.Duration, usage *TokenUsage, err error)

// Service runs one generation operation: it resolves and renders the
// operation's prompts and hands them to the provider
type Service struct {
	Provider  AIProvider
	operation string
	prompts   PromptSource
	observer  Observer
	logger    *errors.Logger
}

var _ TextGenerator = (*Service)(nil)

// NewService creates the service for operation using its merged config
func NewService(appCfg *config.Config, operation string, logger *errors.Logger) (*Service, error) {
	cfg := appCfg.GetOperationConfig(operation)

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operation,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"max_output_tokens", *cfg.MaxOutputTokens,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	var provider AIProvider
	switch cfg.Provider {
	case "gemini":
		p, err := NewGeminiProvider(&cfg, operation, logger)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	return NewServiceWithProvider(provider, operation, appCfg, logger), nil
}

// NewServiceWithProvider wires an existing provider
func NewServiceWithProvider(provider AIProvider, operation string, prompts PromptSource, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		operation: operation,
		prompts:   prompts,
		logger:    logger,
	}
}

// Operation returns the operation name this service serves
func (s *Service) Operation() string {
	return s.operation
}

// SetObserver installs fn as the post-generation hook
func (s *Service) SetObserver(fn Observer) {
	s.observer = fn
}

// Generate renders the operation prompts with data and runs the completion.
// Failures are reported as GENERATION_FAILED.
func (s *Service) Generate(ctx context.Context, data any) (string, *TokenUsage, error) {
	prompt, err := s.RenderPrompt(data)
	if err != nil {
		return "", nil, err
	}

	start := time.Now()
	text, usage, err := s.Provider.GenerateText(ctx, prompt)
	if s.observer != nil {
		s.observer(ctx, s.operation, time.Since(start), usage, err)
	}
	if err != nil {
		return "", nil, errors.NewAIError(errors.ErrCodeGenerationFailed,
			fmt.Sprintf("%s generation failed", s.operation), err).
			WithContext("operation", s.operation)
	}

	return text, usage, nil
}

// RenderPrompt resolves the prompts of the operation and executes them as
// templates against data
func (s *Service) RenderPrompt(data any) (Prompt, error) {
	var resolved config.LoadedPrompt
	if s.prompts != nil {
		resolved = s.prompts.ResolvePrompts(s.operation, DefaultPrompts(s.operation))
	} else {
		resolved = DefaultPrompts(s.operation)
	}

	system, err := renderTemplate(s.operation+".system", resolved.System, data)
	if err != nil {
		return Prompt{}, err
	}
	user, err := renderTemplate(s.operation+".user", resolved.User, data)
	if err != nil {
		return Prompt{}, err
	}
	if strings.TrimSpace(user) == "" {
		return Prompt{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("no user prompt configured for %s", s.operation), nil)
	}

	return Prompt{System: system, User: user}, nil
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

func renderTemplate(name, text string, data any) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid prompt template %s", name), err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to render prompt template %s", name), err)
	}
	return buf.String(), nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns the provider's breaker state, if it has any
func (s *Service) CircuitBreakerStats() map[string]any {
	if sp, ok := s.Provider.(StatsProvider); ok {
		return sp.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Services bundles one Service per generation operation
type Services struct {
	Describe    *Service
	Categorize  *Service
	Resume      *Service
	CoverLetter *Service
}

// NewServices creates every operation service from cfg
func NewServices(cfg *config.Config, logger *errors.Logger) (*Services, error) {
	var svcs Services
	targets := map[string]**Service{
		config.OpDescribe:    &svcs.Describe,
		config.OpCategorize:  &svcs.Categorize,
		config.OpResume:      &svcs.Resume,
		config.OpCoverLetter: &svcs.CoverLetter,
	}
	for _, op := range config.Operations {
		svc, err := NewService(cfg, op, logger)
		if err != nil {
			return nil, err
		}
		*targets[op] = svc
	}
	return &svcs, nil
}

// All returns the services keyed by operation name
func (s *Services) All() map[string]*Service {
	return map[string]*Service{
		config.OpDescribe:    s.Describe,
		config.OpCategorize:  s.Categorize,
		config.OpResume:      s.Resume,
		config.OpCoverLetter: s.CoverLetter,
	}
}

// SetObserver installs fn on every service
func (s *Services) SetObserver(fn Observer) {
	for _, svc := range s.All() {
		svc.SetObserver(fn)
	}
}

// Close closes every provider
func (s *Services) Close() error {
	var firstErr error
	for _, svc := range s.All() {
		if err := svc.Provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
