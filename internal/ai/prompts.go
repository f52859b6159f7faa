package ai

import (
	"resumegen/internal/config"
)

// Built-in prompts. User prompts are text/template sources executed against
// the *Data struct of their operation.
var defaultPrompts = map[string]config.LoadedPrompt{
	config.OpDescribe: {
		System: `You are a technical resume writer. You turn project documentation into short, factual achievement statements. You never invent features that the documentation does not mention.`,
		User: `Create a concise resume project description using this README:
{{.Readme}}

Requirements:
- Focus on technical achievements and outcomes
- Start each point with an action verb such as Developed, Implemented or Optimized
- Maximum 5 points, one per line
- No markdown formatting: no bullets, headings, bold text or code fences
- Technical details only
{{- if .JobDescription}}

Align with this job description:
{{.JobDescription}}
{{- end}}`,
	},

	config.OpCategorize: {
		System: `You classify software projects. You answer with a single category label and nothing else.`,
		User: `Classify this project into ONE category from this list:
{{join .Categories ", "}}

README:
{{.Readme}}

Job Context:
{{.JobContext}}

Respond ONLY with the category name.`,
	},

	config.OpResume: {
		System: `You are an expert resume writer focused on ATS-compatible technical resumes. Use only the candidate information you are given. Never invent employers, degrees, dates or contact details.`,
		User: `Create a professional resume in markdown from the candidate information below.

CONTACT INFORMATION
Name: {{.Name}}
Email: {{.Email}}
Phone: {{or .Phone "Not provided"}}
GitHub: {{or .GitHub "Not provided"}}
LinkedIn: {{or .LinkedIn "Not provided"}}

EDUCATION
{{.Education}}
{{- if .WorkExperience}}

WORK EXPERIENCE
{{.WorkExperience}}
{{- end}}

TECHNICAL PROJECTS
{{- range .Projects}}
- {{.Name}} ({{.Category}}): {{.Description}}
{{- else}}
No projects provided.
{{- end}}

CANDIDATE SKILLS
{{or .Skills "Not provided"}}

TARGET JOB DESCRIPTION
{{.JobDescription}}

Instructions:
- Output markdown only. Use these top-level headings in this order: "# CONTACT INFORMATION", optionally "# OBJECTIVE", "# EDUCATION",{{if .WorkExperience}} "# WORK EXPERIENCE",{{end}} "# TECHNICAL PROJECTS", "# TECHNICAL SKILLS".
{{- if not .WorkExperience}}
- The candidate has no work experience. Do not add a WORK EXPERIENCE section.
{{- end}}
- Under "# TECHNICAL PROJECTS" write one "## <project name> (<category>)" heading per project, each followed by exactly three "- " bullet points with measurable outcomes and strong action verbs.
- "# TECHNICAL SKILLS" is a single comma-separated line of at most 10 skills. Prioritise skills named in the job description and infer skills from the projects when fewer than 5 are listed.
- Keep the wording compatible with applicant tracking systems.`,
	},

	config.OpCoverLetter: {
		System: `You are a professional career assistant who writes tailored, honest cover letters.`,
		User: `Write a tailored cover letter for {{or .CandidateName "the candidate"}} applying to {{.Company}}.

Company Information:
{{.CompanyInfo}}

Job Description:
{{.JobDescription}}

Candidate Projects:
{{or .Projects "Candidate projects not provided."}}

Instructions:
- Align the candidate's projects with the company's values and the role.
- Keep the tone professional but enthusiastic.
- Structure: Opening, Why this company, How the candidate fits, Closing.
- Length: 300 to 400 words.
- Output only the letter text.`,
	},
}

// DefaultPrompts returns the built-in prompts of op
func DefaultPrompts(op string) config.LoadedPrompt {
	return defaultPrompts[op]
}
