package resume

import (
	"strings"
	"testing"

	"resumegen/internal/types"

	"github.com/google/go-cmp/cmp"
)

// bulletsPerHeading counts "- " lines under each "## " heading of the
// projects section
func bulletsPerHeading(t *testing.T, doc string) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	inProjects := false
	current := ""
	for _, line := range strings.Split(doc, "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			inProjects = line == "# TECHNICAL PROJECTS"
			current = ""
		case inProjects && strings.HasPrefix(line, "## "):
			current = strings.TrimPrefix(line, "## ")
			counts[current] = 0
		case inProjects && current != "" && strings.HasPrefix(line, "- "):
			counts[current]++
		}
	}
	return counts
}

func TestPostProcessGolden(t *testing.T) {
	input := `# CONTACT INFORMATION
Ada

# TECHNICAL PROJECTS
## cache (Backend Dev)
- A
- B
- C
- D

# TECHNICAL SKILLS
- Go
- Python
- SQL
- Docker
- Kubernetes
`
	want := `# CONTACT INFORMATION
Ada

# TECHNICAL PROJECTS
## cache (Backend Dev)
- A
- B
- C

# TECHNICAL SKILLS
Go, Python, SQL, Docker, Kubernetes
`
	projects := []types.ProjectEntry{{Name: "cache", Category: types.CategoryBackendDev, Description: "x"}}

	got := PostProcess(input, types.CandidateProfile{Name: "Ada"}, projects)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PostProcess() mismatch (-want +got):\n%s", diff)
	}
}

func TestPostProcessWorkExperience(t *testing.T) {
	input := "# CONTACT INFORMATION\nAda\n\n# WORK EXPERIENCE\nEngineer at Acme\n\n# EDUCATION\nBSc\n\n# TECHNICAL SKILLS\nGo, SQL, Git, Docker, Linux"

	tests := []struct {
		name           string
		workExperience string
		wantSection    bool
	}{
		{"empty removes section", "", false},
		{"blank removes section", "   \n", false},
		{"present keeps section", "Engineer at Acme 2020-2023", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := types.CandidateProfile{Name: "Ada", WorkExperience: tt.workExperience}
			got := PostProcess(input, profile, nil)

			if has := strings.Contains(got, "# WORK EXPERIENCE"); has != tt.wantSection {
				t.Errorf("work experience present = %v, want %v\n%s", has, tt.wantSection, got)
			}
			if !strings.Contains(got, "# EDUCATION\nBSc") {
				t.Errorf("education section lost:\n%s", got)
			}
		})
	}
}

func TestPostProcessThreeBulletsPerProject(t *testing.T) {
	input := "```markdown\n# CONTACT INFORMATION\nAda\n\n# TECHNICAL PROJECTS\n" +
		"## cache (Backend Dev)\n- A\n- B\n- C\n- D\n- E\n" +
		"## **webapp** (Web Dev)\n* Only one\n" +
		"## cli (DevOps)\nA paragraph instead of bullets\n" +
		"\n# TECHNICAL SKILLS\nGo\n```"

	projects := []types.ProjectEntry{
		{Name: "cache", Category: types.CategoryBackendDev, Description: "Developed X\nImplemented Y"},
		{Name: "webapp", Category: types.CategoryWebDev, Description: "Built UI\nAdded auth\nShipped it"},
		{Name: "cli", Category: types.CategoryDevOps, Description: ""},
	}

	got := PostProcess(input, types.CandidateProfile{Name: "Ada"}, projects)

	if strings.Contains(got, "```") {
		t.Errorf("code fence not stripped:\n%s", got)
	}

	counts := bulletsPerHeading(t, got)
	want := map[string]int{"cache (Backend Dev)": 3, "webapp (Web Dev)": 3, "cli (DevOps)": 3}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("bullet counts mismatch (-want +got):\n%s\n%s", diff, got)
	}

	for _, line := range []string{"- Only one", "- Built UI", "- Added auth", "- Applied DevOps practices to design and build the project"} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "- D\n") || strings.Contains(got, "A paragraph") {
		t.Errorf("extra content kept:\n%s", got)
	}
}

func TestPostProcessAddsMissingProjects(t *testing.T) {
	input := "# CONTACT INFORMATION\nAda\n\n# TECHNICAL SKILLS\nGo, SQL, Git, Docker, Linux"
	projects := []types.ProjectEntry{
		{Name: "cache", Category: types.CategoryBackendDev, Description: "Developed X"},
	}

	got := PostProcess(input, types.CandidateProfile{Name: "Ada"}, projects)

	projectsAt := strings.Index(got, "# TECHNICAL PROJECTS")
	skillsAt := strings.Index(got, "# TECHNICAL SKILLS")
	if projectsAt < 0 || projectsAt > skillsAt {
		t.Fatalf("projects section should precede skills:\n%s", got)
	}
	if diff := cmp.Diff(map[string]int{"cache (Backend Dev)": 3}, bulletsPerHeading(t, got)); diff != "" {
		t.Errorf("bullet counts mismatch (-want +got):\n%s", diff)
	}
}

func TestFixSkills(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		profile  types.CandidateProfile
		projects []types.ProjectEntry
		want     []string
	}{
		{
			name:  "deduplicates case-insensitively",
			lines: []string{"Go, go, GO, Python; SQL | Docker, Linux"},
			want:  []string{"Go", "Python", "SQL", "Docker", "Linux"},
		},
		{
			name:  "caps at ten",
			lines: []string{"a, b, c, d, e, f, g, h, i, j, k, l"},
			want:  []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
		{
			name:  "group prefixes and bullets",
			lines: []string{"- Languages: Go, Python", "- **Tools**: Docker", "* Kubernetes", "* Terraform"},
			want:  []string{"Go", "Python", "Docker", "Kubernetes", "Terraform"},
		},
		{
			name:     "fills from profile then projects",
			lines:    []string{"Go"},
			profile:  types.CandidateProfile{Skills: "go, Redis"},
			projects: []types.ProjectEntry{{Name: "p", Category: types.CategoryDevOps}},
			want:     []string{"Go", "Redis", "Git", "Docker", "CI/CD"},
		},
		{
			name:  "nothing to infer from",
			lines: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixSkills(tt.lines, tt.profile, tt.projects)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fixSkills() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseProjectHeading(t *testing.T) {
	tests := []struct {
		in, name, category string
	}{
		{"## cache (Backend Dev)", "cache", "Backend Dev"},
		{"## **my app (v2)** (Web Dev)", "my app (v2)", "Web Dev"},
		{"## plain", "plain", ""},
	}
	for _, tt := range tests {
		name, category := parseProjectHeading(tt.in)
		if name != tt.name || category != tt.category {
			t.Errorf("parseProjectHeading(%q) = %q, %q", tt.in, name, category)
		}
	}
}

func TestPostProcessDeeperProjectHeadings(t *testing.T) {
	projects := []types.ProjectEntry{
		{Name: "api", Category: types.CategoryBackendDev, Description: "Developed api"},
		{Name: "site", Category: types.CategoryWebDev, Description: "Built site\nAdded search"},
	}

	tests := []struct {
		name string
		body string
	}{
		{"h3", "### api (Backend Dev)\n- a1\n- a2\n- a3\n- a4\n### site (Web Dev)\n- s1\n"},
		{"h4", "#### api (Backend Dev)\n- a1\n- a2\n- a3\n- a4\n#### site (Web Dev)\n- s1\n"},
		{"bold", "**api** (Backend Dev)\n- a1\n- a2\n- a3\n- a4\n**site (Web Dev)**\n- s1\n"},
		{"stray bullet first", "- orphan\n### api (Backend Dev)\n- a1\n- a2\n- a3\n- a4\n### site (Web Dev)\n- s1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "# CONTACT INFORMATION\nAda\n\n# TECHNICAL PROJECTS\n" + tt.body + "\n# TECHNICAL SKILLS\nGo"
			got := PostProcess(input, types.CandidateProfile{Name: "Ada"}, projects)

			want := map[string]int{"api (Backend Dev)": 3, "site (Web Dev)": 3}
			if diff := cmp.Diff(want, bulletsPerHeading(t, got)); diff != "" {
				t.Errorf("bullet counts mismatch (-want +got):\n%s\n%s", diff, got)
			}
			if n := strings.Count(got, "## api"); n != 1 {
				t.Errorf("api heading appears %d times:\n%s", n, got)
			}
			for _, gone := range []string{"- a4", "- orphan", "###"} {
				if strings.Contains(got, gone) {
					t.Errorf("%q should not survive:\n%s", gone, got)
				}
			}
			if !strings.Contains(got, "## site (Web Dev)\n- s1\n- Built site\n- Added search\n") {
				t.Errorf("site bullets not completed from its description:\n%s", got)
			}
		})
	}
}

func TestPostProcessSectionOrder(t *testing.T) {
	input := "# TECHNICAL SKILLS\nGo, SQL, Git, Docker, Linux\n\n" +
		"# TECHNICAL PROJECTS\n## cache (Backend Dev)\n- A\n- B\n- C\n\n" +
		"# CERTIFICATIONS\nCKA\n\n" +
		"# EDUCATION\nBSc\n\n" +
		"# Objective:\nShip things\n\n" +
		"# CONTACT INFORMATION\nAda"
	projects := []types.ProjectEntry{{Name: "cache", Category: types.CategoryBackendDev}}

	got := PostProcess(input, types.CandidateProfile{Name: "Ada"}, projects)

	var headings []string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "# ") {
			headings = append(headings, line)
		}
	}
	want := []string{
		"# CONTACT INFORMATION",
		"# Objective:",
		"# EDUCATION",
		"# TECHNICAL PROJECTS",
		"# CERTIFICATIONS",
		"# TECHNICAL SKILLS",
	}
	if diff := cmp.Diff(want, headings); diff != "" {
		t.Errorf("section order mismatch (-want +got):\n%s\n%s", diff, got)
	}
}

func TestPostProcessRestoresWorkExperience(t *testing.T) {
	input := "# CONTACT INFORMATION\nAda\n\n# EDUCATION\nBSc\n\n" +
		"# TECHNICAL PROJECTS\n## cache (Backend Dev)\n- A\n- B\n- C\n\n# TECHNICAL SKILLS\nGo, SQL, Git, Docker, Linux"
	profile := types.CandidateProfile{Name: "Ada", WorkExperience: "Engineer at Acme 2020-2023\nIntern at Initech 2019"}
	projects := []types.ProjectEntry{{Name: "cache", Category: types.CategoryBackendDev}}

	got := PostProcess(input, profile, projects)

	want := "# EDUCATION\nBSc\n\n# WORK EXPERIENCE\nEngineer at Acme 2020-2023\nIntern at Initech 2019\n\n# TECHNICAL PROJECTS\n"
	if !strings.Contains(got, want) {
		t.Errorf("work experience not restored before projects:\n%s", got)
	}
}

func TestIsProjectHeading(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"## cache (Backend Dev)", true},
		{"### cache", true},
		{"**cache** (Backend Dev)", true},
		{"**cache (Backend Dev)**", true},
		{"##", false},
		{"# TECHNICAL PROJECTS", false},
		{"- **Built** the cache", false},
		{"**Note:** some text", false},
		{"plain text", false},
	}
	for _, tt := range tests {
		if got := isProjectHeading(tt.line); got != tt.want {
			t.Errorf("isProjectHeading(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
