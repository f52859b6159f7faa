package resume

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"resumegen/internal/types"
	"resumegen/internal/utils"
)

const bulletsPerProject = 3

const (
	headingWork     = "WORK EXPERIENCE"
	headingProjects = "TECHNICAL PROJECTS"
	headingSkills   = "TECHNICAL SKILLS"
)

// Fixed order of the recognised top-level sections
const (
	rankContact = iota
	rankObjective
	rankEducation
	rankWork
	rankProjects
	rankSkills
)

var sectionRanks = map[string]int{
	"CONTACT INFORMATION":     rankContact,
	"CONTACT":                 rankContact,
	"OBJECTIVE":               rankObjective,
	"SUMMARY":                 rankObjective,
	"PROFESSIONAL SUMMARY":    rankObjective,
	"EDUCATION":               rankEducation,
	headingWork:               rankWork,
	"PROFESSIONAL EXPERIENCE": rankWork,
	"EXPERIENCE":              rankWork,
	headingProjects:           rankProjects,
	"PROJECTS":                rankProjects,
	headingSkills:             rankSkills,
	"SKILLS":                  rankSkills,
}

// section is one "# " block of the document. A section with an empty
// heading holds whatever came before the first heading.
type section struct {
	heading string
	lines   []string
}

func (s section) title() string {
	t := strings.TrimSpace(strings.TrimPrefix(s.heading, "#"))
	return strings.ToUpper(strings.TrimSpace(strings.TrimRight(t, ":")))
}

func (s section) rank() (int, bool) {
	r, ok := sectionRanks[s.title()]
	return r, ok
}

// PostProcess enforces the document layout on model output: no code fence,
// sections in their fixed order, work experience present exactly when the
// profile has work history, three bullets per project and a single skills
// line.
func PostProcess(markdown string, profile types.CandidateProfile, projects []types.ProjectEntry) string {
	sections := splitSections(utils.StripCodeFence(markdown))

	out := make([]section, 0, len(sections)+3)
	present := make(map[int]bool)
	for _, s := range sections {
		rank, known := s.rank()
		if known {
			switch {
			case rank == rankWork && !profile.HasWorkExperience():
				continue
			case rank == rankProjects:
				s.lines = fixProjects(s.lines, projects)
			case rank == rankSkills:
				s.lines = []string{strings.Join(fixSkills(s.lines, profile, projects), ", ")}
			}
			present[rank] = true
		}
		out = append(out, s)
	}

	if !present[rankWork] && profile.HasWorkExperience() {
		out = append(out, section{
			heading: "# " + headingWork,
			lines:   strings.Split(strings.TrimSpace(profile.WorkExperience), "\n"),
		})
	}
	if !present[rankProjects] && len(projects) > 0 {
		out = append(out, section{heading: "# " + headingProjects, lines: fixProjects(nil, projects)})
	}
	if !present[rankSkills] {
		out = append(out, section{
			heading: "# " + headingSkills,
			lines:   []string{strings.Join(fixSkills(nil, profile, projects), ", ")},
		})
	}

	return render(orderSections(out))
}

// orderSections stable-sorts sections by rank. An unrecognised section
// takes the rank of the recognised one before it so it travels with it;
// anything ahead of the first recognised section stays on top.
func orderSections(sections []section) []section {
	type ranked struct {
		section
		rank int
	}
	items := make([]ranked, len(sections))
	last := -1
	for i, s := range sections {
		if r, ok := s.rank(); ok {
			last = r
		}
		items[i] = ranked{s, last}
	}
	slices.SortStableFunc(items, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })

	out := make([]section, len(items))
	for i, item := range items {
		out[i] = item.section
	}
	return out
}

func splitSections(markdown string) []section {
	var sections []section
	current := section{}
	for _, line := range strings.Split(markdown, "\n") {
		if isH1(line) {
			if current.heading != "" || strings.TrimSpace(strings.Join(current.lines, "")) != "" {
				sections = append(sections, current)
			}
			current = section{heading: strings.TrimSpace(line)}
			continue
		}
		current.lines = append(current.lines, strings.TrimRight(line, " \t\r"))
	}
	if current.heading != "" || strings.TrimSpace(strings.Join(current.lines, "")) != "" {
		sections = append(sections, current)
	}
	return sections
}

func isH1(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "# ") || t == "#"
}

// isProjectHeading accepts "##" or deeper headings and bold-only lines,
// optionally followed by a "(category)" suffix.
func isProjectHeading(line string) bool {
	t := strings.TrimSpace(line)
	if strings.HasPrefix(t, "##") {
		rest := strings.TrimLeft(t, "#")
		return strings.HasPrefix(rest, " ") && strings.TrimSpace(rest) != ""
	}

	if strings.HasSuffix(t, ")") {
		if open := strings.LastIndex(t, " ("); open > 0 {
			t = strings.TrimSpace(t[:open])
		}
	}
	if len(t) <= 4 || !strings.HasPrefix(t, "**") || !strings.HasSuffix(t, "**") {
		return false
	}
	return !strings.Contains(t[2:len(t)-2], "**")
}

func bulletText(line string) (string, bool) {
	t := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(t, marker) {
			return strings.TrimSpace(t[len(marker):]), true
		}
	}
	return "", false
}

// fixProjects rewrites the body of the projects section so every project
// gets a "## " heading followed by exactly three bullets. Projects the model left out
// get their own heading.
func fixProjects(lines []string, projects []types.ProjectEntry) []string {
	used := make(map[int]bool)
	var out []string
	var heading string
	var bullets []string
	inProject := false

	flush := func() {
		if !inProject {
			return
		}
		name, category := parseProjectHeading(heading)
		var desc string
		if i := matchProject(name, projects, used); i >= 0 {
			used[i] = true
			name, category, desc = projects[i].Name, string(projects[i].Category), projects[i].Description
		}
		out = append(out, "", projectHeading(name, category))
		for _, b := range completeBullets(bullets, desc, category) {
			out = append(out, "- "+b)
		}
	}

	for _, line := range lines {
		if isProjectHeading(line) {
			flush()
			heading, bullets, inProject = strings.TrimSpace(line), nil, true
			continue
		}
		if text, ok := bulletText(line); ok {
			// bullets outside any project are dropped
			if inProject && text != "" {
				bullets = append(bullets, text)
			}
			continue
		}
		if !inProject && strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	flush()

	for i, p := range projects {
		if used[i] {
			continue
		}
		out = append(out, "", projectHeading(p.Name, string(p.Category)))
		for _, b := range completeBullets(nil, p.Description, string(p.Category)) {
			out = append(out, "- "+b)
		}
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	return out
}

func projectHeading(name, category string) string {
	if category == "" {
		return "## " + name
	}
	return fmt.Sprintf("## %s (%s)", name, category)
}

// parseProjectHeading splits "## name (category)" into its parts
func parseProjectHeading(heading string) (string, string) {
	text := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(heading), "#"))
	text = strings.Trim(text, "* ")
	if strings.HasSuffix(text, ")") {
		if open := strings.LastIndex(text, " ("); open > 0 {
			return strings.Trim(text[:open], "* "), strings.Trim(text[open+2:len(text)-1], "* ")
		}
	}
	return text, ""
}

func matchProject(name string, projects []types.ProjectEntry, used map[int]bool) int {
	for i, p := range projects {
		if !used[i] && strings.EqualFold(p.Name, name) {
			return i
		}
	}
	lower := strings.ToLower(name)
	for i, p := range projects {
		pn := strings.ToLower(p.Name)
		if !used[i] && pn != "" && lower != "" && (strings.Contains(lower, pn) || strings.Contains(pn, lower)) {
			return i
		}
	}
	return -1
}

// completeBullets trims bullets to three, then fills gaps from the project
// description and finally from the category
func completeBullets(bullets []string, description, category string) []string {
	out := make([]string, 0, bulletsPerProject)
	seen := make(map[string]bool)
	add := func(b string) {
		key := strings.ToLower(b)
		if b == "" || seen[key] || len(out) == bulletsPerProject {
			return
		}
		seen[key] = true
		out = append(out, b)
	}

	for _, b := range bullets {
		add(b)
	}
	for _, line := range utils.NonEmptyLines(description) {
		add(utils.StripMarkdownLine(line))
	}

	fillers := []string{
		"Applied " + categoryPhrase(category) + " practices to design and build the project",
		"Documented the project setup and usage for other developers",
		"Maintained the codebase with version control and iterative improvements",
	}
	for _, f := range fillers {
		add(f)
	}
	return out
}

func categoryPhrase(category string) string {
	if category == "" || category == string(types.CategoryOther) {
		return "software engineering"
	}
	return category
}

func render(sections []section) string {
	var b strings.Builder
	for i, s := range sections {
		body := trimBlankEdges(s.lines)
		if s.heading == "" && len(body) == 0 {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if s.heading != "" {
			b.WriteString(s.heading)
			if len(body) > 0 {
				b.WriteString("\n")
			}
		}
		b.WriteString(strings.Join(body, "\n"))
	}
	b.WriteString("\n")
	return b.String()
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
