package server

import (
	"net/http"
	"strconv"

	"resumegen/internal/pipeline"
	"resumegen/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// sessionID reads the {id} path value and tags the request span with it
func sessionID(r *http.Request) string {
	id := r.PathValue("id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", id))
	return id
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, snap pipeline.Snapshot, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.deps.Orchestrator.NewSession()
	w.Header().Set("Location", "/api/sessions/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Orchestrator.Get(sessionID(r))
	s.writeSnapshot(w, r, snap, err)
}

func (s *Server) deleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Orchestrator.Delete(sessionID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submitProfileHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var profile types.CandidateProfile
	if err := parseJSONRequest(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.deps.Orchestrator.SubmitProfile(id, profile)
	s.writeSnapshot(w, r, snap, err)
}

func (s *Server) addProjectsHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req SessionProjectsRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, failures, err := s.deps.Orchestrator.AddProjects(r.Context(), id, req.URLs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if failures == nil {
		failures = []types.ProjectFailure{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  snap,
		"failures": failures,
	})
}

func (s *Server) removeProjectHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, r, invalidRequest("project index must be an integer"))
		return
	}
	snap, err := s.deps.Orchestrator.RemoveProject(id, index)
	s.writeSnapshot(w, r, snap, err)
}

func (s *Server) composeResumeHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Orchestrator.ComposeResume(r.Context(), sessionID(r))
	s.metrics.RecordDocument(r.Context(), "resume", err == nil)
	s.writeSnapshot(w, r, snap, err)
}

func (s *Server) editResumeHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req EditResumeRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.deps.Orchestrator.EditResume(id, req.Markdown)
	s.writeSnapshot(w, r, snap, err)
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Orchestrator.Download(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, r, result, "resume")
}

func (s *Server) backHandler(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	var req BackRequest
	if err := parseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	stage, err := pipeline.ParseStage(req.Stage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.deps.Orchestrator.Back(id, stage)
	s.writeSnapshot(w, r, snap, err)
}
