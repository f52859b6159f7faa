package server

import (
	"fmt"
	"io"
	"os"

	"resumegen/internal/utils"
)

var endpointSummary = []struct{ method, path, about string }{
	{"GET", "/api", "Welcome"},
	{"GET", "/api/health", "Health check"},
	{"GET", "/api/stats", "Server statistics"},
	{"GET", "/api/get_readme?url=", "Fetch a repository README"},
	{"POST", "/api/generate_description", "Describe a project from its README"},
	{"POST", "/api/generate_category", "Categorize a project"},
	{"POST", "/api/generate_resume", "Compose a resume"},
	{"POST", "/api/generate_pdf", "Render markdown to PDF"},
	{"POST", "/api/generate_cover_letter", "Write a cover letter"},
	{"POST", "/api/projects", "Describe and categorize repositories"},
	{"POST", "/api/sessions", "Start a session"},
	{"*", "/api/sessions/{id}/...", "Profile, projects, resume, download, back"},
}

func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

// writeServerInfo prints the route table followed by the optional
// protections and whether each is switched on.
func (s *Server) writeServerInfo(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	for _, e := range endpointSummary {
		fmt.Fprintf(w, "  %-6s %-32s - %s\n", e.method, e.path, e.about)
	}

	auth := "DISABLED (no API keys configured)"
	if n := len(s.APIKeys); n > 0 {
		auth = fmt.Sprintf("ENABLED (%d keys configured)", n)
	}
	fmt.Fprintf(w, "API authentication: %s\n", auth)

	limit := "DISABLED"
	if s.MaxRequestSize > 0 {
		limit = utils.FormatFileSize(s.MaxRequestSize)
	}
	fmt.Fprintf(w, "Request size limit: %s\n", limit)

	rl := "DISABLED"
	if s.RateLimit != nil && s.RateLimit.Enabled {
		rl = fmt.Sprintf("ENABLED (%d requests/min, burst: %d)", s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	}
	fmt.Fprintf(w, "Rate limiting: %s\n", rl)
}
