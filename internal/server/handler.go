package server

import (
	"net/http"
	"strings"

	"resumegen/internal/pipeline"
	"resumegen/internal/types"
	"resumegen/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stateless endpoints. Each runs one component and returns its result.

func (s *Server) readmeHandler(w http.ResponseWriter, r *http.Request) {
	repoURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if repoURL == "" {
		s.writeError(w, r, invalidRequest("url query parameter is required"))
		return
	}

	readme, err := s.deps.Readmes.ReadReadme(r.Context(), repoURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ReadmeResponse{
		Content:  readme.Content,
		RepoName: readme.Repository.Name,
		Branch:   readme.Branch,
	})
}

func (s *Server) describeHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.parseGenerateRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	description, err := s.deps.Content.Describe(r.Context(), req.ReadmeContent, req.JobDescription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": description})
}

func (s *Server) categoryHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.parseGenerateRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := s.deps.Content.Categorize(r.Context(), req.ReadmeContent, req.JobDescription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"category": category.String()})
}

func (s *Server) parseGenerateRequest(r *http.Request, req *GenerateRequest) error {
	if err := parseJSONRequest(r, req); err != nil {
		return err
	}
	if strings.TrimSpace(req.ReadmeContent) == "" {
		return invalidRequest("readme_content is required")
	}
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.Int("request.readme_length", len(req.ReadmeContent)),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)
	return nil
}

func (s *Server) resumeHandler(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.CandidateProfile.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Projects == nil {
		req.Projects = []types.ProjectEntry{}
	}

	markdown, err := s.deps.Resumes.Compose(r.Context(), req.CandidateProfile, req.Projects)
	s.metrics.RecordDocument(r.Context(), "resume", err == nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"resume_markdown": markdown})
}

func (s *Server) pdfHandler(w http.ResponseWriter, r *http.Request) {
	var req PDFRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.MarkdownText) == "" {
		s.writeError(w, r, invalidRequest("markdown_text is required"))
		return
	}

	s.writeArtifact(w, r, s.deps.Renderer.Render(r.Context(), req.MarkdownText), "resume")
}

func (s *Server) coverLetterHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CoverLetterInput
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	output, err := s.deps.CoverLetters.Compose(r.Context(), req)
	s.metrics.RecordDocument(r.Context(), "cover_letter", err == nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (s *Server) projectsHandler(w http.ResponseWriter, r *http.Request) {
	var req ProjectsRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	urls := utils.NonEmptyLines(strings.Join(req.URLs, "\n"))
	if len(urls) == 0 {
		s.writeError(w, r, invalidRequest("at least one repository URL is required"))
		return
	}
	if limit := s.maxRepositories(); limit > 0 && len(urls) > limit {
		s.writeError(w, r, invalidRequest("too many repositories in one request"))
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("request.repositories", len(urls)))
	writeJSON(w, http.StatusOK, s.deps.Batch.Process(r.Context(), urls, req.JobDescription))
}

func (s *Server) maxRepositories() int {
	if s.AppConfig == nil {
		return 0
	}
	return s.AppConfig.Pipeline.MaxRepositories
}

var _ BatchRunner = (*pipeline.BatchProcessor)(nil)
