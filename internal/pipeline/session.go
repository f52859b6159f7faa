package pipeline

import (
	"slices"
	"sync"
	"time"

	"resumegen/internal/render"
	"resumegen/internal/types"
)

// artifact is a render result together with the document revision it was
// produced from
type artifact struct {
	result   render.Result
	revision int
}

// Session holds the state of one user's workflow. All fields are guarded by
// mu; callers go through the Orchestrator.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time
	updatedAt time.Time

	stage    Stage
	profile  *types.CandidateProfile
	projects []types.ProjectEntry
	document *types.ResumeDocument
	artifact *artifact
	// revision counts every document change, including recompositions,
	// so it never repeats within a session
	revision int
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, createdAt: now, updatedAt: now, stage: StageCollectingProfile}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

func (s *Session) lastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) requireStage(op string, allowed ...Stage) error {
	if slices.Contains(allowed, s.stage) {
		return nil
	}
	return invalidTransition(op, s.stage, allowed...)
}

// setDocument stores markdown as a new revision and drops any artifact
func (s *Session) setDocument(markdown string) {
	s.revision++
	s.document = &types.ResumeDocument{Markdown: markdown, Revision: s.revision}
	s.artifact = nil
}

// currentArtifact returns the cached artifact only if it was rendered from
// the current document revision
func (s *Session) currentArtifact() (render.Result, bool) {
	if s.artifact == nil || s.document == nil || s.artifact.revision != s.document.Revision {
		return render.Result{}, false
	}
	return s.artifact.result, true
}

// ArtifactView describes the cached artifact
type ArtifactView struct {
	Outcome  string `json:"outcome"`
	Revision int    `json:"revision"`
	Message  string `json:"message,omitempty"`
}

// Snapshot is a read-only copy of a session for API responses
type Snapshot struct {
	ID        string                  `json:"id"`
	Stage     Stage                   `json:"stage"`
	Profile   *types.CandidateProfile `json:"profile,omitempty"`
	Projects  []types.ProjectEntry    `json:"projects"`
	Resume    *types.ResumeDocument   `json:"resume,omitempty"`
	Artifact  *ArtifactView           `json:"artifact,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Stage:     s.stage,
		Projects:  slices.Clone(s.projects),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if snap.Projects == nil {
		snap.Projects = []types.ProjectEntry{}
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	if s.document != nil {
		d := *s.document
		snap.Resume = &d
	}
	if result, ok := s.currentArtifact(); ok {
		snap.Artifact = &ArtifactView{
			Outcome:  result.Outcome.String(),
			Revision: s.artifact.revision,
			Message:  result.Message,
		}
	}
	return snap
}
