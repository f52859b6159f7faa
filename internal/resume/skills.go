package resume

import (
	"strings"

	"resumegen/internal/types"
)

const (
	maxSkills = 10
	minSkills = 5
)

// skills implied by a project category, used when the model lists too few
var categorySkills = map[types.Category][]string{
	types.CategoryDataScience: {"Python", "Pandas", "Data Analysis"},
	types.CategoryDataAnalyst: {"SQL", "Data Visualization", "Excel"},
	types.CategoryWebDev:      {"HTML", "CSS", "JavaScript"},
	types.CategoryBackendDev:  {"REST APIs", "SQL", "Backend Development"},
	types.CategoryFrontendDev: {"HTML", "CSS", "JavaScript"},
	types.CategoryFullStack:   {"JavaScript", "REST APIs", "SQL"},
	types.CategoryDevOps:      {"Docker", "CI/CD", "Linux"},
	types.CategoryML:          {"Python", "Machine Learning", "scikit-learn"},
	types.CategoryJavaDev:     {"Java", "Object-Oriented Design"},
	types.CategoryJSDev:       {"JavaScript", "Node.js"},
	types.CategoryPythonDev:   {"Python"},
	types.CategoryMobileDev:   {"Mobile Development"},
	types.CategoryCloud:       {"Cloud Computing", "Docker"},
	types.CategorySecurity:    {"Application Security"},
	types.CategoryQA:          {"Automated Testing"},
	types.CategoryDatabase:    {"SQL", "Database Design"},
	types.CategoryEmbedded:    {"C", "Embedded Systems"},
	types.CategoryNetworking:  {"Networking", "TCP/IP"},
	types.CategoryAI:          {"Python", "Artificial Intelligence"},
	types.CategoryRobotics:    {"Robotics", "C++"},
	types.CategoryIoT:         {"IoT", "Embedded Systems"},
	types.CategoryBlockchain:  {"Blockchain", "Smart Contracts"},
	types.CategoryARVR:        {"3D Graphics", "Unity"},
	types.CategoryGameDev:     {"Game Development", "Unity"},
	types.CategoryUIUX:        {"UI/UX Design", "Figma"},
	types.CategoryTechWriting: {"Technical Writing", "Documentation"},
	types.CategoryResearch:    {"Research", "Data Analysis"},
}

// skillSet is an ordered, case-insensitive set capped at maxSkills
type skillSet struct {
	items []string
	seen  map[string]bool
}

func (s *skillSet) add(skill string) {
	skill = cleanSkill(skill)
	if skill == "" || len(s.items) == maxSkills {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	key := strings.ToLower(skill)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, skill)
}

// fixSkills returns the deduplicated skill list for the skills section.
// The model's list comes first. When it has fewer than five entries the
// profile skills are added, then skills implied by the projects until five
// are listed.
func fixSkills(lines []string, profile types.CandidateProfile, projects []types.ProjectEntry) []string {
	var set skillSet
	for _, line := range lines {
		for _, skill := range splitSkills(line) {
			set.add(skill)
		}
	}

	if len(set.items) < minSkills {
		for _, skill := range splitSkills(profile.Skills) {
			set.add(skill)
		}
	}
	for _, skill := range inferSkills(projects) {
		if len(set.items) >= minSkills {
			break
		}
		set.add(skill)
	}
	return set.items
}

func inferSkills(projects []types.ProjectEntry) []string {
	var out []string
	if len(projects) > 0 {
		out = append(out, "Git")
	}
	for _, p := range projects {
		out = append(out, categorySkills[p.Category]...)
	}
	return out
}

// splitSkills breaks a line into skills on commas, semicolons, pipes and
// newlines. A "Group: a, b" prefix is dropped.
func splitSkills(line string) []string {
	var out []string
	for _, raw := range strings.Split(line, "\n") {
		raw = strings.TrimSpace(raw)
		if text, ok := bulletText(raw); ok {
			raw = text
		}
		if i := strings.Index(raw, ":"); i >= 0 && i < len(raw)-1 {
			raw = raw[i+1:]
		}
		out = append(out, strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		})...)
	}
	return out
}

func cleanSkill(skill string) string {
	skill = strings.TrimSpace(skill)
	skill = strings.Trim(skill, "*_`.")
	return strings.TrimSpace(skill)
}
