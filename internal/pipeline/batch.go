package pipeline

import (
	"context"
	"time"

	"resumegen/internal/errors"
	"resumegen/internal/github"
	"resumegen/internal/types"

	"golang.org/x/sync/errgroup"
)

// ReadmeReader fetches a repository README
type ReadmeReader interface {
	ReadReadme(ctx context.Context, repoURL string) (*github.Readme, error)
}

// ContentGenerator describes and categorizes a project from its README
type ContentGenerator interface {
	Describe(ctx context.Context, readme, jobDescription string) (string, error)
	Categorize(ctx context.Context, readme, jobDescription string) (types.Category, error)
}

// BatchResult holds the successes in input order and a failure per URL
// that could not be processed
type BatchResult struct {
	Projects []types.ProjectEntry   `json:"projects"`
	Failures []types.ProjectFailure `json:"failures"`
}

// BatchObserver is notified after each repository
type BatchObserver func(ctx context.Context, repoURL string, duration time.Duration, err error)

// BatchProcessor turns repository URLs into project entries with a bounded
// number of workers
type BatchProcessor struct {
	reader   ReadmeReader
	content  ContentGenerator
	workers  int
	timeout  time.Duration
	observer BatchObserver
	logger   *errors.Logger
}

// NewBatchProcessor creates a processor running at most workers
// repositories at a time, each under its own timeout
func NewBatchProcessor(reader ReadmeReader, content ContentGenerator, workers int, timeout time.Duration, logger *errors.Logger) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &BatchProcessor{
		reader:  reader,
		content: content,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// SetObserver installs fn as the per-repository hook
func (b *BatchProcessor) SetObserver(fn BatchObserver) {
	b.observer = fn
}

// Process handles every URL. A failing repository never cancels the others.
func (b *BatchProcessor) Process(ctx context.Context, urls []string, jobDescription string) BatchResult {
	projects := make([]*types.ProjectEntry, len(urls))
	failures := make([]error, len(urls))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, u := range urls {
		g.Go(func() error {
			start := time.Now()
			project, err := b.processOne(ctx, u, jobDescription)
			if b.observer != nil {
				b.observer(ctx, u, time.Since(start), err)
			}
			projects[i], failures[i] = project, err
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{Projects: []types.ProjectEntry{}, Failures: []types.ProjectFailure{}}
	for i, u := range urls {
		if err := failures[i]; err != nil {
			result.Failures = append(result.Failures, failure(u, err))
			continue
		}
		result.Projects = append(result.Projects, *projects[i])
	}

	b.logger.Info("Processed repositories",
		"requested", len(urls),
		"succeeded", len(result.Projects),
		"failed", len(result.Failures))
	return result
}

func (b *BatchProcessor) processOne(ctx context.Context, repoURL, jobDescription string) (*types.ProjectEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	readme, err := b.reader.ReadReadme(ctx, repoURL)
	if err != nil {
		return nil, err
	}

	description, err := b.content.Describe(ctx, readme.Content, jobDescription)
	if err != nil {
		return nil, err
	}

	category, err := b.content.Categorize(ctx, readme.Content, jobDescription)
	if err != nil {
		b.logger.LogError(err, "Categorization failed, using Other", "url", repoURL)
		category = types.CategoryOther
	}

	return &types.ProjectEntry{
		Name:        readme.Repository.Name,
		Description: description,
		Category:    category,
		URL:         repoURL,
	}, nil
}

func failure(repoURL string, err error) types.ProjectFailure {
	f := types.ProjectFailure{URL: repoURL, Code: errors.CodeOf(err), Message: err.Error()}
	if appErr, ok := errors.AsAppError(err); ok {
		f.Message = appErr.Detail()
	}
	return f
}
