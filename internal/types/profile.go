package types

import (
	"encoding/json"
	"strings"

	"resumegen/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "CandidateProfile",
  "type": "object",
  "required": ["name", "email", "education", "job_description"],
  "properties": {
    "name":            {"type": "string", "pattern": "\\S"},
    "email":           {"type": "string", "format": "email"},
    "phone":           {"type": "string"},
    "github":          {"type": "string"},
    "linkedin":        {"type": "string"},
    "skills":          {"type": "string"},
    "education":       {"type": "string", "pattern": "\\S"},
    "work_experience": {"type": "string"},
    "job_description": {"type": "string", "pattern": "\\S"}
  }
}`

var profileSchemaLoader = gojsonschema.NewStringLoader(profileSchema)

// ParseProfile validates raw JSON against the profile schema and decodes it
func ParseProfile(data []byte) (*CandidateProfile, error) {
	if err := validateProfile(gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	var profile CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidProfile,
			"profile is not valid JSON", err)
	}
	profile.trim()
	return &profile, nil
}

// Validate checks an already decoded profile against the same schema
func (p *CandidateProfile) Validate() error {
	return validateProfile(gojsonschema.NewGoLoader(p))
}

func validateProfile(doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(profileSchemaLoader, doc)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidProfile,
			"profile could not be parsed", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.NewValidationError(errors.ErrCodeInvalidProfile,
		"profile failed validation: "+strings.Join(msgs, "; "), nil)
}

func (p *CandidateProfile) trim() {
	for _, f := range []*string{
		&p.Name, &p.Email, &p.Phone, &p.GitHub, &p.LinkedIn,
		&p.Skills, &p.Education, &p.WorkExperience, &p.JobDescription,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
