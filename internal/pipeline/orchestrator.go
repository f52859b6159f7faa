package pipeline

import (
	"context"
	"fmt"
	"strings"

	"resumegen/internal/errors"
	"resumegen/internal/render"
	"resumegen/internal/types"
)

// ResumeComposer writes the resume markdown
type ResumeComposer interface {
	Compose(ctx context.Context, profile types.CandidateProfile, projects []types.ProjectEntry) (string, error)
}

// DocumentRenderer turns markdown into a downloadable artifact
type DocumentRenderer interface {
	Render(ctx context.Context, markdown string) render.Result
}

// Orchestrator applies workflow operations to sessions held in a Store.
// Long-running calls run without the session lock; the stage is checked
// again before their results are stored.
type Orchestrator struct {
	store           *Store
	batch           *BatchProcessor
	composer        ResumeComposer
	renderer        DocumentRenderer
	maxRepositories int
	logger          *errors.Logger
}

// NewOrchestrator wires the workflow components
func NewOrchestrator(store *Store, batch *BatchProcessor, composer ResumeComposer, renderer DocumentRenderer, maxRepositories int, logger *errors.Logger) *Orchestrator {
	return &Orchestrator{
		store:           store,
		batch:           batch,
		composer:        composer,
		renderer:        renderer,
		maxRepositories: maxRepositories,
		logger:          logger,
	}
}

// Store returns the session store
func (o *Orchestrator) Store() *Store {
	return o.store
}

// NewSession starts a session in CollectingProfile
func (o *Orchestrator) NewSession() Snapshot {
	session := o.store.Create()
	o.logger.Debug("Session created", "session_id", session.id)
	return o.snapshotOf(session)
}

// Get returns a snapshot of session id
func (o *Orchestrator) Get(id string) (Snapshot, error) {
	session, err := o.store.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return o.snapshotOf(session), nil
}

// Delete ends session id
func (o *Orchestrator) Delete(id string) error {
	return o.store.Delete(id)
}

func (o *Orchestrator) snapshotOf(session *Session) Snapshot {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot()
}

// withSession runs fn under the session lock and returns the resulting
// snapshot
func (o *Orchestrator) withSession(id string, fn func(*Session) error) (Snapshot, error) {
	session, err := o.store.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := fn(session); err != nil {
		return Snapshot{}, err
	}
	session.touch()
	return session.snapshot(), nil
}

// SubmitProfile validates and stores the profile, moving to
// SelectingProjects. A resubmission drops the existing document.
func (o *Orchestrator) SubmitProfile(id string, profile types.CandidateProfile) (Snapshot, error) {
	if err := profile.Validate(); err != nil {
		return Snapshot{}, err
	}

	return o.withSession(id, func(s *Session) error {
		if err := s.requireStage("submit profile", StageCollectingProfile); err != nil {
			return err
		}
		s.profile = &profile
		s.document = nil
		s.artifact = nil
		s.stage = StageSelectingProjects
		return nil
	})
}

// AddProjects processes urls and appends the successful projects. The
// failures are returned per URL and never abort the batch.
func (o *Orchestrator) AddProjects(ctx context.Context, id string, urls []string) (Snapshot, []types.ProjectFailure, error) {
	urls = cleanURLs(urls)
	if len(urls) == 0 {
		return Snapshot{}, nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "at least one repository URL is required", nil)
	}

	var jobDescription string
	if _, err := o.withSession(id, func(s *Session) error {
		if err := s.requireStage("add projects", StageSelectingProjects); err != nil {
			return err
		}
		if err := o.checkCapacity(s, len(urls)); err != nil {
			return err
		}
		jobDescription = s.profile.JobDescription
		return nil
	}); err != nil {
		return Snapshot{}, nil, err
	}

	result := o.batch.Process(ctx, urls, jobDescription)

	snap, err := o.withSession(id, func(s *Session) error {
		if err := s.requireStage("add projects", StageSelectingProjects); err != nil {
			return err
		}
		// a concurrent add may have filled the session during the batch
		if err := o.checkCapacity(s, len(result.Projects)); err != nil {
			return err
		}
		s.projects = append(s.projects, result.Projects...)
		return nil
	})
	if err != nil {
		return Snapshot{}, nil, err
	}
	return snap, result.Failures, nil
}

func (o *Orchestrator) checkCapacity(s *Session, adding int) error {
	if o.maxRepositories > 0 && len(s.projects)+adding > o.maxRepositories {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("a session holds at most %d repositories", o.maxRepositories), nil)
	}
	return nil
}

// RemoveProject deletes the project at index
func (o *Orchestrator) RemoveProject(id string, index int) (Snapshot, error) {
	return o.withSession(id, func(s *Session) error {
		if err := s.requireStage("remove project", StageSelectingProjects); err != nil {
			return err
		}
		if index < 0 || index >= len(s.projects) {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("project index %d out of range (have %d)", index, len(s.projects)), nil)
		}
		s.projects = append(s.projects[:index], s.projects[index+1:]...)
		return nil
	})
}

// ComposeResume generates the resume from the profile and the current
// project list, which may be empty. On failure the session keeps no new
// document and the caller may retry.
func (o *Orchestrator) ComposeResume(ctx context.Context, id string) (Snapshot, error) {
	var (
		profile  types.CandidateProfile
		projects []types.ProjectEntry
	)
	if _, err := o.withSession(id, func(s *Session) error {
		if err := s.requireStage("compose resume", StageSelectingProjects, StagePreviewingResume); err != nil {
			return err
		}
		if s.profile == nil {
			return errors.NewStateError(errors.ErrCodeInvalidTransition, "a completed profile is required", nil)
		}
		profile = *s.profile
		projects = append([]types.ProjectEntry(nil), s.projects...)
		return nil
	}); err != nil {
		return Snapshot{}, err
	}

	markdown, err := o.composer.Compose(ctx, profile, projects)
	if err != nil {
		return Snapshot{}, err
	}

	return o.withSession(id, func(s *Session) error {
		if err := s.requireStage("compose resume", StageSelectingProjects, StagePreviewingResume); err != nil {
			return err
		}
		s.setDocument(markdown)
		s.stage = StagePreviewingResume
		return nil
	})
}

// EditResume replaces the document text. The revision is bumped and any
// rendered artifact is dropped.
func (o *Orchestrator) EditResume(id, markdown string) (Snapshot, error) {
	if strings.TrimSpace(markdown) == "" {
		return Snapshot{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "resume text cannot be empty", nil)
	}
	return o.withSession(id, func(s *Session) error {
		if err := s.requireStage("edit resume", StagePreviewingResume, StageDownloading); err != nil {
			return err
		}
		if s.document == nil {
			return errors.NewStateError(errors.ErrCodeInvalidTransition, "no resume to edit", nil)
		}
		s.setDocument(markdown)
		return nil
	})
}

// Download returns the artifact for the current document, rendering it if
// the cached one is missing or stale. A failed render is not cached.
func (o *Orchestrator) Download(ctx context.Context, id string) (render.Result, error) {
	var (
		markdown string
		revision int
		cached   render.Result
		hit      bool
	)
	if _, err := o.withSession(id, func(s *Session) error {
		if err := s.requireStage("download", StagePreviewingResume, StageDownloading); err != nil {
			return err
		}
		if s.document == nil {
			return errors.NewStateError(errors.ErrCodeInvalidTransition, "a resume is required before downloading", nil)
		}
		if cached, hit = s.currentArtifact(); hit {
			s.stage = StageDownloading
			return nil
		}
		markdown, revision = s.document.Markdown, s.document.Revision
		return nil
	}); err != nil {
		return render.Result{}, err
	}
	if hit {
		return cached, nil
	}

	result := o.renderer.Render(ctx, markdown)
	if err := result.Err(); err != nil {
		return render.Result{}, err
	}

	if _, err := o.withSession(id, func(s *Session) error {
		// an edit or a Back while rendering makes this result stale; hand
		// it out without caching it or moving the stage
		fresh := s.document != nil && s.document.Revision == revision
		if fresh && (s.stage == StagePreviewingResume || s.stage == StageDownloading) {
			s.artifact = &artifact{result: result, revision: revision}
			s.stage = StageDownloading
		}
		return nil
	}); err != nil {
		return render.Result{}, err
	}
	return result, nil
}

// Back moves the session to an earlier stage. Collected data is kept.
func (o *Orchestrator) Back(id string, target Stage) (Snapshot, error) {
	return o.withSession(id, func(s *Session) error {
		if target >= s.stage {
			return errors.NewStateError(errors.ErrCodeInvalidTransition,
				fmt.Sprintf("cannot go back from %s to %s", s.stage, target), nil)
		}
		if _, ok := stageNames[target]; !ok {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest, "unknown stage", nil)
		}
		s.stage = target
		return nil
	})
}

func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
