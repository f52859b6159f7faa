package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearch(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"answer":"Globex values craft.","results":[{"title":"About","url":"https://globex.example","content":"Remote-first team","score":0.9},{"title":"Empty","content":"  "}]}`))
	}))
	defer srv.Close()

	client := NewTavilyClient(config.SearchConfig{APIKey: "tvly-test", BaseURL: srv.URL + "/", Timeout: time.Second})
	result, err := client.Search(context.Background(), "Globex culture")
	require.NoError(t, err)

	assert.Equal(t, "Globex culture", got.Query)
	assert.Equal(t, 5, got.MaxResults)
	assert.True(t, got.IncludeAnswer)

	assert.Equal(t, "Globex culture", result.Query)
	assert.Len(t, result.Hits, 2)
	assert.Equal(t, "Globex values craft.\n- About: Remote-first team", result.Summary())
}

func TestTavilySearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		handler http.HandlerFunc
	}{
		{
			name:   "unauthorized",
			apiKey: "bad",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"detail":"invalid key"}`, http.StatusUnauthorized)
			},
		},
		{
			name:   "malformed body",
			apiKey: "k",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
		{
			name:    "missing key",
			apiKey:  "",
			handler: func(w http.ResponseWriter, r *http.Request) { t.Error("no request expected") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewTavilyClient(config.SearchConfig{APIKey: tt.apiKey, BaseURL: srv.URL})
			_, err := client.Search(context.Background(), "q")
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeSearchFailed), "error = %v", err)
		})
	}
}

func TestSummaryNil(t *testing.T) {
	var r *Result
	assert.Empty(t, r.Summary())
}
