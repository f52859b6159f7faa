// Package github fetches README files from public GitHub repositories.
package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const maxReadmeBytes = 2 << 20

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Readme is the fetched README of a repository
type Readme struct {
	Repository Repository
	Branch     string
	Content    string
}

// Reader fetches READMEs from the raw content host, trying each configured
// branch in order
type Reader struct {
	client     *http.Client
	host       string
	rawBaseURL string
	branches   []string
	readmeFile string
	limiter    *rate.Limiter
	logger     *errors.Logger
}

// NewReader creates a Reader from cfg. Outbound requests are traced and
// throttled by the configured rate.
func NewReader(cfg config.GitHubConfig, logger *errors.Logger) *Reader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	branches := cfg.Branches
	if len(branches) == 0 {
		branches = []string{"main", "master"}
	}
	host := cfg.Host
	if host == "" {
		host = "github.com"
	}
	readmeFile := cfg.ReadmeFile
	if readmeFile == "" {
		readmeFile = "README.md"
	}
	rawBase := strings.TrimRight(cfg.RawBaseURL, "/")
	if rawBase == "" {
		rawBase = "https://raw.githubusercontent.com"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}

	return &Reader{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		host:       host,
		rawBaseURL: rawBase,
		branches:   branches,
		readmeFile: readmeFile,
		limiter:    limiter,
		logger:     logger,
	}
}

// ParseRepositoryURL validates a repository URL and extracts owner and name.
// The host must be host or www.host, compared case-insensitively, and the
// path must name at least an owner and a repository.
func ParseRepositoryURL(rawURL, host string) (Repository, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Repository{}, invalidURL(rawURL, "repository URL is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return Repository{}, errors.NewValidationError(errors.ErrCodeInvalidURL,
			fmt.Sprintf("invalid GitHub URL %q", rawURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Repository{}, invalidURL(rawURL, "URL scheme must be http or https")
	}

	h := strings.ToLower(u.Hostname())
	host = strings.ToLower(host)
	if h != host && h != "www."+host {
		return Repository{}, invalidURL(rawURL, fmt.Sprintf("URL host must be %s", host))
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return Repository{}, invalidURL(rawURL, "URL must include owner and repository")
	}

	repo := Repository{Owner: segments[0], Name: strings.TrimSuffix(segments[1], ".git")}
	if repo.Name == "" {
		return Repository{}, invalidURL(rawURL, "URL must include owner and repository")
	}
	return repo, nil
}

func invalidURL(rawURL, reason string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidURL,
		fmt.Sprintf("invalid GitHub URL %q: %s", rawURL, reason), nil).
		WithContext("url", rawURL)
}

// ReadReadme validates repoURL and returns the README of the first branch
// that serves one. No request is made for an invalid URL.
func (r *Reader) ReadReadme(ctx context.Context, repoURL string) (*Readme, error) {
	repo, err := ParseRepositoryURL(repoURL, r.host)
	if err != nil {
		return nil, err
	}

	var lastStatus int
	for _, branch := range r.branches {
		content, status, err := r.fetch(ctx, repo, branch)
		if err != nil {
			return nil, err
		}
		if status == http.StatusOK {
			r.logger.Debug("Fetched README",
				"repository", repo.String(),
				"branch", branch,
				"bytes", len(content))
			return &Readme{Repository: repo, Branch: branch, Content: content}, nil
		}
		lastStatus = status
	}

	return nil, errors.NewNetworkError(errors.ErrCodeReadmeNotFound,
		fmt.Sprintf("README not found in %s on branches %s", repo, strings.Join(r.branches, ", ")), nil).
		WithContext("repository", repo.String()).
		WithContext("last_status", lastStatus)
}

func (r *Reader) fetch(ctx context.Context, repo Repository, branch string) (string, int, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", 0, networkError(repo, err)
		}
	}

	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s", r.rawBaseURL,
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(branch), r.readmeFile)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, errors.NewInternalError(errors.ErrCodeInternal, "failed to build README request", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", 0, networkError(repo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", 0, networkError(repo, err)
	}
	return string(body), resp.StatusCode, nil
}

func networkError(repo Repository, err error) error {
	code := errors.ErrCodeNetworkFailure
	if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		code = errors.ErrCodeNetworkTimeout
	}
	return errors.NewNetworkError(code,
		fmt.Sprintf("failed to fetch README for %s", repo), err).
		WithContext("repository", repo.String())
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}
