package observability

import (
	"context"
	"fmt"
	"time"

	"resumegen/internal/ai"
	"resumegen/internal/errors"
	"resumegen/internal/render"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the service's custom instruments. A zero Metrics records
// nothing.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	RepositoryDuration    metric.Float64Histogram
	RepositoriesProcessed metric.Int64Counter

	RenderDuration metric.Float64Histogram
	RenderCount    metric.Int64Counter

	DocumentsGenerated metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumegen_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"resumegen_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"resumegen_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumegen_ai_token_usage",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.RepositoryDuration, err = meter.Float64Histogram(
		"resumegen_repository_duration_seconds",
		metric.WithDescription("Time spent turning one repository into a project entry"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create repository duration metric: %w", err)
	}

	if m.RepositoriesProcessed, err = meter.Int64Counter(
		"resumegen_repositories_processed_total",
		metric.WithDescription("Total number of repositories processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create repositories processed metric: %w", err)
	}

	if m.RenderDuration, err = meter.Float64Histogram(
		"resumegen_render_duration_seconds",
		metric.WithDescription("Time spent rendering resumes"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create render duration metric: %w", err)
	}

	if m.RenderCount, err = meter.Int64Counter(
		"resumegen_renders_total",
		metric.WithDescription("Total number of renders by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create render count metric: %w", err)
	}

	if m.DocumentsGenerated, err = meter.Int64Counter(
		"resumegen_documents_generated_total",
		metric.WithDescription("Total number of resumes and cover letters generated"),
	); err != nil {
		return nil, fmt.Errorf("failed to create documents generated metric: %w", err)
	}

	return m, nil
}

// RecordAIOperation has the signature of ai.Observer
func (m *Metrics) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if m == nil || m.AIRequestCount == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)

	m.AIProcessingTime.Record(ctx, duration.Seconds(), attrs)
	m.AIRequestCount.Add(ctx, 1, attrs)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, attrs)
	}

	if usage == nil {
		return
	}
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordRepository has the signature of pipeline.BatchObserver. The URL is
// not used as an attribute.
func (m *Metrics) RecordRepository(ctx context.Context, _ string, duration time.Duration, err error) {
	if m == nil || m.RepositoriesProcessed == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.Bool("success", err == nil)}
	if err != nil {
		attrs = append(attrs, attribute.String("error_code", errors.CodeOf(err)))
	}

	m.RepositoryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.RepositoriesProcessed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRender has the signature of render.Observer
func (m *Metrics) RecordRender(ctx context.Context, renderer string, outcome render.Outcome, duration time.Duration) {
	if m == nil || m.RenderCount == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("renderer", renderer),
		attribute.String("outcome", outcome.String()),
	)
	m.RenderDuration.Record(ctx, duration.Seconds(), attrs)
	m.RenderCount.Add(ctx, 1, attrs)
}

// RecordDocument counts a generated resume or cover letter
func (m *Metrics) RecordDocument(ctx context.Context, kind string, success bool) {
	if m == nil || m.DocumentsGenerated == nil {
		return
	}
	m.DocumentsGenerated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	))
}
