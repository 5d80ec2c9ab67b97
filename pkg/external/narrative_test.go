package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patient-analysis-server/internal/domain"
)

func newTestNarrative(baseURL string, timeout time.Duration) *NarrativeClient {
	return NewNarrativeClient(domain.NarrativeConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: timeout,
	}, testLogger())
}

func TestNarrativeClientSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Contains(t, req.Prompt, "action plan")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  1. Contact patient immediately\n2. Schedule consult  "}`))
	}))
	defer server.Close()

	client := newTestNarrative(server.URL, 5*time.Second)
	text, err := client.Generate(context.Background(), "Produce an action plan in numbered items")

	require.NoError(t, err)
	assert.Equal(t, "1. Contact patient immediately\n2. Schedule consult", text)
}

func TestNarrativeClientNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestNarrative(server.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	var genErr *domain.NarrativeGenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestNarrativeClientEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "   "}`))
	}))
	defer server.Close()

	client := newTestNarrative(server.URL, 5*time.Second)
	_, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	var genErr *domain.NarrativeGenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestNarrativeClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"text": "too late"}`))
	}))
	defer server.Close()

	client := newTestNarrative(server.URL, 20*time.Millisecond)
	_, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	var genErr *domain.NarrativeGenerationError
	assert.ErrorAs(t, err, &genErr)
}
