// Package search looks up recent public information about a company.
package search

import (
	"context"
	"strings"
)

// Hit is one search result
type Hit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Result is the answer and hits of one query
type Result struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
	Hits   []Hit  `json:"results"`
}

// Summary flattens the result into prompt-ready text
func (r *Result) Summary() string {
	if r == nil {
		return ""
	}
	var parts []string
	if a := strings.TrimSpace(r.Answer); a != "" {
		parts = append(parts, a)
	}
	for _, h := range r.Hits {
		content := strings.TrimSpace(h.Content)
		if content == "" {
			continue
		}
		if h.Title != "" {
			content = h.Title + ": " + content
		}
		parts = append(parts, "- "+content)
	}
	return strings.Join(parts, "\n")
}

// Searcher runs web searches
type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}
