package github

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

// rawServer serves files keyed by "owner/repo/branch" and records requests
type rawServer struct {
	mu       sync.Mutex
	files    map[string]string
	requests []string
}

func (s *rawServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.mu.Unlock()

	key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/README.md")
	content, ok := s.files[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(content))
}

func (s *rawServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newTestReader(t *testing.T, files map[string]string) (*Reader, *rawServer) {
	t.Helper()
	raw := &rawServer{files: files}
	srv := httptest.NewServer(raw)
	t.Cleanup(srv.Close)

	return NewReader(config.GitHubConfig{
		Host:       "github.com",
		RawBaseURL: srv.URL,
		Branches:   []string{"main", "master"},
		ReadmeFile: "README.md",
		Timeout:    5 * time.Second,
	}, testLogger), raw
}

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Repository
		wantErr bool
	}{
		{"plain", "https://github.com/octo/cache", Repository{"octo", "cache"}, false},
		{"www host", "https://www.github.com/octo/cache", Repository{"octo", "cache"}, false},
		{"upper case host", "https://GitHub.com/octo/cache", Repository{"octo", "cache"}, false},
		{"git suffix", "https://github.com/octo/cache.git", Repository{"octo", "cache"}, false},
		{"deep path", "https://github.com/octo/cache/tree/main/docs", Repository{"octo", "cache"}, false},
		{"trailing slash", "https://github.com/octo/cache/", Repository{"octo", "cache"}, false},
		{"no scheme", "github.com/octo/cache", Repository{"octo", "cache"}, false},
		{"wrong host", "https://gitlab.com/octo/cache", Repository{}, true},
		{"lookalike host", "https://github.com.evil.io/octo/cache", Repository{}, true},
		{"owner only", "https://github.com/octo", Repository{}, true},
		{"empty path", "https://github.com", Repository{}, true},
		{"only git suffix", "https://github.com/octo/.git", Repository{}, true},
		{"ftp scheme", "ftp://github.com/octo/cache", Repository{}, true},
		{"empty", "  ", Repository{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepositoryURL(tt.url, "github.com")
			if tt.wantErr {
				if !errors.HasCode(err, errors.ErrCodeInvalidURL) {
					t.Fatalf("error = %v, want INVALID_URL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadReadmeFromMain(t *testing.T) {
	reader, raw := newTestReader(t, map[string]string{
		"octo/cache/main":   "# cache on main",
		"octo/cache/master": "# cache on master",
	})

	readme, err := reader.ReadReadme(context.Background(), "https://github.com/octo/cache")
	if err != nil {
		t.Fatalf("ReadReadme() error = %v", err)
	}
	if readme.Branch != "main" || readme.Content != "# cache on main" {
		t.Errorf("got branch %q content %q", readme.Branch, readme.Content)
	}
	if n := raw.requestCount(); n != 1 {
		t.Errorf("requests = %d, want 1 (master must not be requested)", n)
	}
}

func TestReadReadmeFallsBackToMaster(t *testing.T) {
	reader, raw := newTestReader(t, map[string]string{
		"octo/legacy/master": "# legacy",
	})

	readme, err := reader.ReadReadme(context.Background(), "https://github.com/octo/legacy.git")
	if err != nil {
		t.Fatalf("ReadReadme() error = %v", err)
	}
	if readme.Branch != "master" || readme.Repository.Name != "legacy" {
		t.Errorf("got %+v", readme)
	}
	if n := raw.requestCount(); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestReadReadmeNotFound(t *testing.T) {
	reader, raw := newTestReader(t, nil)

	_, err := reader.ReadReadme(context.Background(), "https://github.com/octo/ghost")
	if !errors.HasCode(err, errors.ErrCodeReadmeNotFound) {
		t.Fatalf("error = %v, want README_NOT_FOUND", err)
	}
	if n := raw.requestCount(); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestReadReadmeInvalidURLMakesNoRequest(t *testing.T) {
	reader, raw := newTestReader(t, map[string]string{"octo/cache/main": "x"})

	for _, u := range []string{"https://gitlab.com/octo/cache", "https://github.com/octo"} {
		_, err := reader.ReadReadme(context.Background(), u)
		if !errors.HasCode(err, errors.ErrCodeInvalidURL) {
			t.Errorf("ReadReadme(%q) error = %v, want INVALID_URL", u, err)
		}
	}
	if n := raw.requestCount(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestReadReadmeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	reader := NewReader(config.GitHubConfig{RawBaseURL: base, Timeout: time.Second}, testLogger)
	_, err := reader.ReadReadme(context.Background(), "https://github.com/octo/cache")

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("error = %v, want AppError", err)
	}
	if appErr.Type != errors.ErrorTypeNetwork {
		t.Errorf("Type = %q, want network", appErr.Type)
	}
	if appErr.Code == errors.ErrCodeReadmeNotFound {
		t.Error("transport failures must not be reported as README_NOT_FOUND")
	}
}

func TestReadReadmeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	reader := NewReader(config.GitHubConfig{RawBaseURL: srv.URL, Timeout: 50 * time.Millisecond}, testLogger)
	_, err := reader.ReadReadme(context.Background(), "https://github.com/octo/slow")
	if !errors.HasCode(err, errors.ErrCodeNetworkTimeout) {
		t.Errorf("error = %v, want NETWORK_TIMEOUT", err)
	}
}
