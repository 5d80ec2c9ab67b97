package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// NarrativeClient calls the generative-text service used to enrich action
// plans for outlier patients. The call is bounded by the configured timeout,
// is never retried and never partially succeeds.
type NarrativeClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewNarrativeClient creates a new narrative generation client
func NewNarrativeClient(config domain.NarrativeConfig, logger *logrus.Logger) *NarrativeClient {
	return &NarrativeClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate posts the prompt to the generation endpoint and returns the
// produced text. Timeouts, transport errors, non-2xx statuses and empty
// output all fail with *NarrativeGenerationError.
func (c *NarrativeClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", domain.NewNarrativeGenerationError("failed to encode request", err)
	}

	url := fmt.Sprintf("%s/generate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", domain.NewNarrativeGenerationError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewNarrativeGenerationError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", domain.NewNarrativeGenerationError(
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)), nil)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", domain.NewNarrativeGenerationError("failed to decode response", err)
	}

	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return "", domain.NewNarrativeGenerationError("empty generation result", nil)
	}

	c.logger.WithField("length", len(text)).Debug("Narrative generation completed")
	return text, nil
}
