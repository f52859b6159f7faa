package types

import (
	"strings"
)

// Category is the closed set of project categories
type Category string

const (
	CategoryDataScience Category = "Data Science"
	CategoryDataAnalyst Category = "Data Analyst"
	CategoryWebDev      Category = "Web Dev"
	CategoryBackendDev  Category = "Backend Dev"
	CategoryFrontendDev Category = "Frontend Dev"
	CategoryFullStack   Category = "Full Stack"
	CategoryDevOps      Category = "DevOps"
	CategoryML          Category = "ML"
	CategoryJavaDev     Category = "Java Dev"
	CategoryJSDev       Category = "JS Dev"
	CategoryPythonDev   Category = "Python Dev"
	CategoryMobileDev   Category = "Mobile Dev"
	CategoryCloud       Category = "Cloud"
	CategorySecurity    Category = "Security"
	CategoryQA          Category = "QA"
	CategoryDatabase    Category = "Database"
	CategoryEmbedded    Category = "Embedded"
	CategoryNetworking  Category = "Networking"
	CategoryAI          Category = "AI"
	CategoryRobotics    Category = "Robotics"
	CategoryIoT         Category = "IoT"
	CategoryBlockchain  Category = "Blockchain"
	CategoryARVR        Category = "AR/VR"
	CategoryGameDev     Category = "Game Dev"
	CategoryUIUX        Category = "UI/UX"
	CategoryTechWriting Category = "Tech Writing"
	CategoryResearch    Category = "Research"
	CategoryOther       Category = "Other"
)

var categories = []Category{
	CategoryDataScience, CategoryDataAnalyst, CategoryWebDev, CategoryBackendDev,
	CategoryFrontendDev, CategoryFullStack, CategoryDevOps, CategoryML,
	CategoryJavaDev, CategoryJSDev, CategoryPythonDev, CategoryMobileDev,
	CategoryCloud, CategorySecurity, CategoryQA, CategoryDatabase,
	CategoryEmbedded, CategoryNetworking, CategoryAI, CategoryRobotics,
	CategoryIoT, CategoryBlockchain, CategoryARVR, CategoryGameDev,
	CategoryUIUX, CategoryTechWriting, CategoryResearch, CategoryOther,
}

// common phrasings models use instead of the exact label
var categoryAliases = map[string]Category{
	"machine learning":        CategoryML,
	"deep learning":           CategoryML,
	"artificial intelligence": CategoryAI,
	"data analysis":           CategoryDataAnalyst,
	"data analytics":          CategoryDataAnalyst,
	"web development":         CategoryWebDev,
	"backend":                 CategoryBackendDev,
	"backend development":     CategoryBackendDev,
	"back end":                CategoryBackendDev,
	"frontend":                CategoryFrontendDev,
	"frontend development":    CategoryFrontendDev,
	"front end":               CategoryFrontendDev,
	"fullstack":               CategoryFullStack,
	"full stack development":  CategoryFullStack,
	"full-stack":              CategoryFullStack,
	"java":                    CategoryJavaDev,
	"javascript":              CategoryJSDev,
	"javascript development":  CategoryJSDev,
	"python":                  CategoryPythonDev,
	"python development":      CategoryPythonDev,
	"mobile":                  CategoryMobileDev,
	"mobile development":      CategoryMobileDev,
	"cloud computing":         CategoryCloud,
	"cybersecurity":           CategorySecurity,
	"cyber security":          CategorySecurity,
	"quality assurance":       CategoryQA,
	"testing":                 CategoryQA,
	"databases":               CategoryDatabase,
	"embedded systems":        CategoryEmbedded,
	"internet of things":      CategoryIoT,
	"augmented reality":       CategoryARVR,
	"virtual reality":         CategoryARVR,
	"game development":        CategoryGameDev,
	"ui/ux design":            CategoryUIUX,
	"ux":                      CategoryUIUX,
	"technical writing":       CategoryTechWriting,
	"documentation":           CategoryTechWriting,
}

// Categories returns every category in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryLabels returns the category labels as plain strings
func CategoryLabels() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// Valid reports whether c belongs to the closed set
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory maps free-form model output onto the closed set. Output is
// cleaned of quotes, markdown emphasis, a "Category:" prefix and a trailing
// period, then matched case-insensitively against the labels and aliases.
// Anything unrecognised is CategoryOther.
func ParseCategory(raw string) Category {
	s := normalizeCategoryText(raw)
	if s == "" {
		return CategoryOther
	}

	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	if c, ok := categoryAliases[strings.ToLower(s)]; ok {
		return c
	}
	return CategoryOther
}

func normalizeCategoryText(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}

	for {
		before := s
		s = strings.TrimSpace(s)
		s = strings.Trim(s, "*_`\"'")
		s = strings.TrimSuffix(s, ".")
		if len(s) >= len("category:") && strings.EqualFold(s[:len("category:")], "category:") {
			s = s[len("category:"):]
		}
		if s == before {
			return s
		}
	}
}
