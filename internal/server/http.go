// Package server exposes the resume generator over HTTP.
package server

import (
	"context"
	"time"

	"resumegen/internal/ai"
	"resumegen/internal/config"
	"resumegen/internal/errors"
	"resumegen/internal/observability"
	"resumegen/internal/pipeline"
	"resumegen/internal/types"
)

// ReadmeResponse is returned by /api/get_readme
type ReadmeResponse struct {
	Content  string `json:"content"`
	RepoName string `json:"repo_name"`
	Branch   string `json:"branch"`
}

// GenerateRequest is the body of the describe and category endpoints
type GenerateRequest struct {
	ReadmeContent  string `json:"readme_content"`
	JobDescription string `json:"job_description"`
}

// ResumeRequest carries the profile fields inline plus the projects
type ResumeRequest struct {
	types.CandidateProfile
	Projects []types.ProjectEntry `json:"projects"`
}

type PDFRequest struct {
	MarkdownText string `json:"markdown_text"`
}

type ProjectsRequest struct {
	URLs           []string `json:"urls"`
	JobDescription string   `json:"job_description"`
}

type SessionProjectsRequest struct {
	URLs []string `json:"urls"`
}

type EditResumeRequest struct {
	Markdown string `json:"markdown"`
}

type BackRequest struct {
	Stage string `json:"stage"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CoverLetterComposer writes cover letters
type CoverLetterComposer interface {
	Compose(ctx context.Context, input types.CoverLetterInput) (*types.CoverLetterOutput, error)
}

// BatchRunner turns repository URLs into project entries
type BatchRunner interface {
	Process(ctx context.Context, urls []string, jobDescription string) pipeline.BatchResult
}

// ModelChecker reports the health of one generation operation.
// *ai.Service implements it.
type ModelChecker interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	CircuitBreakerStats() map[string]any
}

// Dependencies are the components the handlers call
type Dependencies struct {
	Readmes      pipeline.ReadmeReader
	Content      pipeline.ContentGenerator
	Resumes      pipeline.ResumeComposer
	Renderer     pipeline.DocumentRenderer
	CoverLetters CoverLetterComposer
	Batch        BatchRunner
	Orchestrator *pipeline.Orchestrator

	// Models is keyed by operation name
	Models map[string]ModelChecker
	// RendererEngine is reported by health and stats
	RendererEngine string

	// Instrument installs the metric observers on the components. It runs
	// once the observability stack is up.
	Instrument func(*observability.Metrics)
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *errors.Logger

	deps    Dependencies
	metrics *observability.Metrics
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		deps:           deps,
		metrics:        &observability.Metrics{},
	}
}
