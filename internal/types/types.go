package types

// CandidateProfile represents the personal and career data collected at the
// start of a session
type CandidateProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	GitHub         string `json:"github"`
	LinkedIn       string `json:"linkedin"`
	Skills         string `json:"skills"`
	Education      string `json:"education"`
	WorkExperience string `json:"work_experience"`
	JobDescription string `json:"job_description"`
}

// HasWorkExperience reports whether the profile carries any work history
func (p CandidateProfile) HasWorkExperience() bool {
	return !isBlank(p.WorkExperience)
}

// ProjectEntry represents one repository after description and categorization
type ProjectEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	URL         string   `json:"url,omitempty"`
}

// ProjectFailure records why one repository of a batch could not be processed
type ProjectFailure struct {
	URL     string `json:"url"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

// ResumeDocument represents the resume markdown and its revision counter.
// Every edit bumps Revision.
type ResumeDocument struct {
	Markdown string `json:"markdown"`
	Revision int    `json:"revision"`
}

// CoverLetterInput represents the input for writing a cover letter
type CoverLetterInput struct {
	Company        string `json:"company_name"`
	JobDescription string `json:"job_description"`
	Projects       string `json:"github_projects,omitempty"`
	CandidateName  string `json:"candidate_name,omitempty"`
}

// CoverLetterOutput represents a generated cover letter
type CoverLetterOutput struct {
	CoverLetter string `json:"cover_letter"`
	CompanyInfo string `json:"company_info,omitempty"`
}
