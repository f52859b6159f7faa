package server

import (
	"net/http"
	"strings"

	"resumegen/internal/observability"
)

// Handler returns the API with the observability middleware applied
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	s.metrics = om.GetMetrics()
	return om.HTTPMiddleware()(s.setupRoutes())
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	limitBody := s.requestSizeLimitMiddleware()
	rateLimit := s.rateLimitMiddleware()
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return s.authMiddleware(limitBody(h))
	}
	// LLM and renderer backed routes are also rate limited
	costly := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimit(protected(h))
	}

	mux.HandleFunc("GET /api", s.rootHandler)
	mux.HandleFunc("GET /api/health", s.healthHandler)
	mux.HandleFunc("GET /api/stats", protected(s.statsHandler))

	mux.HandleFunc("GET /api/get_readme", protected(s.readmeHandler))
	mux.HandleFunc("POST /api/generate_description", costly(s.describeHandler))
	mux.HandleFunc("POST /api/generate_category", costly(s.categoryHandler))
	mux.HandleFunc("POST /api/generate_resume", costly(s.resumeHandler))
	mux.HandleFunc("POST /api/generate_pdf", costly(s.pdfHandler))
	mux.HandleFunc("POST /api/generate_cover_letter", costly(s.coverLetterHandler))
	mux.HandleFunc("POST /api/projects", costly(s.projectsHandler))

	mux.HandleFunc("POST /api/sessions", protected(s.createSessionHandler))
	mux.HandleFunc("GET /api/sessions/{id}", protected(s.getSessionHandler))
	mux.HandleFunc("DELETE /api/sessions/{id}", protected(s.deleteSessionHandler))
	mux.HandleFunc("PUT /api/sessions/{id}/profile", protected(s.submitProfileHandler))
	mux.HandleFunc("POST /api/sessions/{id}/projects", costly(s.addProjectsHandler))
	mux.HandleFunc("DELETE /api/sessions/{id}/projects/{index}", protected(s.removeProjectHandler))
	mux.HandleFunc("POST /api/sessions/{id}/resume", costly(s.composeResumeHandler))
	mux.HandleFunc("PUT /api/sessions/{id}/resume", protected(s.editResumeHandler))
	mux.HandleFunc("GET /api/sessions/{id}/download", costly(s.downloadHandler))
	mux.HandleFunc("POST /api/sessions/{id}/back", protected(s.backHandler))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "UNAUTHORIZED", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "UNAUTHORIZED", "Invalid API key", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
