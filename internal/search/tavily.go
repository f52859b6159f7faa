package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 512

// TavilyClient calls the Tavily search REST API
type TavilyClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxResults int
}

var _ Searcher = (*TavilyClient)(nil)

type tavilyRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	SearchDepth   string `json:"search_depth"`
}

// NewTavilyClient creates a client from cfg
func NewTavilyClient(cfg config.SearchConfig) *TavilyClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	return &TavilyClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
	}
}

// Search posts query to {base}/search. Every failure is SEARCH_FAILED.
func (c *TavilyClient) Search(ctx context.Context, query string) (*Result, error) {
	if c.apiKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeSearchFailed,
			"search API key is not configured (set TAVILY_API_KEY)", nil)
	}

	result, err := doJSON[Result](ctx, c.client, c.baseURL+"/search", c.apiKey, tavilyRequest{
		Query:         query,
		MaxResults:    c.maxResults,
		IncludeAnswer: true,
		SearchDepth:   "basic",
	})
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeSearchFailed, "company search failed", err).
			WithContext("query", query)
	}
	if result.Query == "" {
		result.Query = query
	}
	return result, nil
}

// doJSON posts body as JSON and decodes the JSON response into T
func doJSON[T any](ctx context.Context, client *http.Client, url, apiKey string, body any) (*T, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}
