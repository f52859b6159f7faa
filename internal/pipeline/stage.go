// Package pipeline sequences profile collection, project processing,
// resume composition and rendering for each user session.
package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumegen/internal/errors"
)

// Stage is the position of a session in the workflow
type Stage int

const (
	StageCollectingProfile Stage = iota
	StageSelectingProjects
	StagePreviewingResume
	StageDownloading
)

var stageNames = map[Stage]string{
	StageCollectingProfile: "collecting_profile",
	StageSelectingProjects: "selecting_projects",
	StagePreviewingResume:  "previewing_resume",
	StageDownloading:       "downloading",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage accepts the snake_case name of a stage. Case, spaces and
// dashes are ignored, so "SelectingProjects" and "selecting-projects" work.
func ParseStage(s string) (Stage, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for stage, name := range stageNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return stage, nil
		}
	}
	return 0, errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown stage %q", s), nil)
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func invalidTransition(op string, current Stage, allowed ...Stage) error {
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = s.String()
	}
	return errors.NewStateError(errors.ErrCodeInvalidTransition,
		fmt.Sprintf("%s is not allowed in stage %s (allowed: %s)", op, current, strings.Join(names, ", ")), nil).
		WithContext("stage", current.String())
}
