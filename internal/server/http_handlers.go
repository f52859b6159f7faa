package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"resumegen/internal/errors"
	"resumegen/internal/render"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Smart Resume Generator API",
		"version": s.Version,
	})
}

func (s *Server) healthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.AIModelCheckTimeout > 0 {
		return s.AppConfig.Observability.HealthCheck.AIModelCheckTimeout
	}
	return 10 * time.Second
}

// healthHandler reports model availability and breaker state per operation
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
	defer cancel()

	aiStatus := make(map[string]any, len(s.deps.Models))
	overallHealthy := true
	for op, model := range s.deps.Models {
		info := model.GetModelInfo(ctx)
		aiStatus[op] = info
		if info == nil || !info.Available {
			overallHealthy = false
		}
	}

	response := map[string]any{
		"status":           "healthy",
		"service":          "resumegen",
		"version":          s.Version,
		"ai_models":        aiStatus,
		"circuit_breakers": s.breakerStats(),
		"renderer":         s.deps.RendererEngine,
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func (s *Server) breakerStats() map[string]any {
	stats := make(map[string]any, len(s.deps.Models))
	for op, model := range s.deps.Models {
		stats[op] = model.CircuitBreakerStats()
	}
	return stats
}

// statsHandler reports sessions, pipeline settings and limiter state
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumegen",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
		"circuit_breakers": s.breakerStats(),
		"renderer":         s.deps.RendererEngine,
	}

	if s.deps.Orchestrator != nil {
		response["sessions"] = map[string]any{"active": s.deps.Orchestrator.Store().Len()}
	}

	if s.AppConfig != nil {
		response["pipeline"] = map[string]any{
			"workers":            s.AppConfig.Pipeline.Workers,
			"repository_timeout": s.AppConfig.Pipeline.RepositoryTimeout.String(),
			"max_repositories":   s.AppConfig.Pipeline.MaxRepositories,
			"session_ttl":        s.AppConfig.Pipeline.SessionTTL.String(),
		}
		response["search"] = map[string]any{
			"provider":   s.AppConfig.Search.Provider,
			"configured": s.AppConfig.Search.APIKey != "",
		}
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), nil)
		}
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}
	return nil
}

func invalidRequest(message string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, message, nil)
}

// statusForCode maps error codes onto HTTP statuses
func statusForCode(code string) int {
	switch code {
	case errors.ErrCodeInvalidURL, errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidProfile,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeReadmeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidTransition:
		return http.StatusConflict
	case errors.ErrCodeGenerationFailed, errors.ErrCodeSearchFailed,
		errors.ErrCodeNetworkFailure, errors.ErrCodeNetworkTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError records err on the request span and writes the error body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := statusForCode(code)

	message := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		message = appErr.Detail()
	}

	span := trace.SpanFromContext(r.Context())
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.code", code))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, code)
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path, "status", status)
	} else {
		s.Logger.Debug("Request rejected", "endpoint", r.URL.Path, "status", status, "code", code)
	}

	writeErrorResponse(w, code, message, status)
}

// writeArtifact sends a render result. A fallback is sent as markdown with
// the X-Render-Fallback header.
func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, result render.Result, base string) {
	if err := result.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if result.IsFallback() {
		w.Header().Set("X-Render-Fallback", "true")
		w.Header().Set("X-Render-Message", strings.Join(strings.Fields(result.Message), " "))
	}
	body := result.Body()
	w.Header().Set("Content-Type", result.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename(base)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.Logger.Warn("Failed to write artifact", "error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: code, Message: message})
}
