package common

import (
	"fmt"

	"resumegen/internal/ai"
	"resumegen/internal/config"
	"resumegen/internal/content"
	"resumegen/internal/coverletter"
	"resumegen/internal/errors"
	"resumegen/internal/github"
	"resumegen/internal/observability"
	"resumegen/internal/pipeline"
	"resumegen/internal/render"
	"resumegen/internal/resume"
	"resumegen/internal/search"
	"resumegen/internal/server"
)

// Components is the wired generator shared by the CLI commands and the
// HTTP server
type Components struct {
	AI           *ai.Services
	Readmes      *github.Reader
	Content      *content.Generator
	Resumes      *resume.Composer
	CoverLetters *coverletter.Composer
	Search       *search.TavilyClient
	Renderer     *render.Renderer
	Batch        *pipeline.BatchProcessor
}

// BuildComponents creates every component from cfg
func BuildComponents(cfg *config.Config, logger *errors.Logger) (*Components, error) {
	services, err := ai.NewServices(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI services: %w", err)
	}

	renderer, err := render.New(cfg.Renderer, logger)
	if err != nil {
		_ = services.Close()
		return nil, err
	}

	readmes := github.NewReader(cfg.GitHub, logger)
	generator := content.NewGenerator(services.Describe, services.Categorize, logger)
	searcher := search.NewTavilyClient(cfg.Search)

	return &Components{
		AI:           services,
		Readmes:      readmes,
		Content:      generator,
		Resumes:      resume.NewComposer(services.Resume, logger),
		CoverLetters: coverletter.NewComposer(searcher, services.CoverLetter, logger),
		Search:       searcher,
		Renderer:     renderer,
		Batch: pipeline.NewBatchProcessor(readmes, generator,
			cfg.Pipeline.Workers, cfg.Pipeline.RepositoryTimeout, logger),
	}, nil
}

// Orchestrator creates the session workflow over the components
func (c *Components) Orchestrator(cfg *config.Config, logger *errors.Logger) *pipeline.Orchestrator {
	store := pipeline.NewStore(cfg.Pipeline.SessionTTL, logger)
	return pipeline.NewOrchestrator(store, c.Batch, c.Resumes, c.Renderer, cfg.Pipeline.MaxRepositories, logger)
}

// Instrument routes component callbacks into metrics
func (c *Components) Instrument(m *observability.Metrics) {
	c.AI.SetObserver(m.RecordAIOperation)
	c.Renderer.SetObserver(m.RecordRender)
	c.Batch.SetObserver(m.RecordRepository)
}

// ServerDependencies exposes the components to the HTTP handlers
func (c *Components) ServerDependencies(orchestrator *pipeline.Orchestrator) server.Dependencies {
	models := make(map[string]server.ModelChecker)
	for op, svc := range c.AI.All() {
		models[op] = svc
	}
	return server.Dependencies{
		Readmes:        c.Readmes,
		Content:        c.Content,
		Resumes:        c.Resumes,
		Renderer:       c.Renderer,
		CoverLetters:   c.CoverLetters,
		Batch:          c.Batch,
		Orchestrator:   orchestrator,
		Models:         models,
		RendererEngine: c.Renderer.Engine(),
		Instrument:     c.Instrument,
	}
}

// Close releases the AI clients
func (c *Components) Close() error {
	return c.AI.Close()
}
