// Package external contains HTTP clients for the remote collaborators of the
// analysis pipeline: the remote classification service and the generative
// narrative service. Both are optional; every failure they report is
// recoverable through local fallback.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/patient-analysis-server/internal/domain"
)

// ClassifierClient calls the remote classification service. Calls are wrapped
// in a circuit breaker so a misbehaving endpoint stops being attempted while
// analyses continue on the local rule engine.
type ClassifierClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	clock      domain.Clock
	logger     *logrus.Logger
}

// NewClassifierClient creates a new remote classifier client
func NewClassifierClient(config domain.ClassifierConfig, clock domain.Clock, logger *logrus.Logger) *ClassifierClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "RemoteClassifier",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ClassifierClient{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: breaker,
		clock:   clock,
		logger:  logger,
	}
}

// classifyResponse represents the remote classification payload. Pointer
// fields distinguish absent values so incomplete payloads can be defaulted.
type classifyResponse struct {
	IsOutlier  *bool    `json:"is_outlier"`
	Confidence *float64 `json:"confidence"`
	RiskLevel  *string  `json:"risk_level"`
}

// Classify posts the vitals snapshot to the remote service and maps the
// response into a ClassificationResult. Any transport error, timeout,
// non-2xx status or open breaker is reported as *ExternalServiceError.
func (c *ClassifierClient) Classify(ctx context.Context, vitals domain.VitalsSnapshot) (*domain.ClassificationResult, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doClassify(ctx, vitals)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.NewExternalServiceError("classification", "circuit breaker open", err)
		}
		if esErr, ok := err.(*domain.ExternalServiceError); ok {
			return nil, esErr
		}
		return nil, domain.NewExternalServiceError("classification", "request failed", err)
	}

	return c.mapResponse(body.(*classifyResponse)), nil
}

// doClassify performs a single classification request. No retries: one
// failed attempt means the caller falls back to local classification.
func (c *ClassifierClient) doClassify(ctx context.Context, vitals domain.VitalsSnapshot) (*classifyResponse, error) {
	payload, err := json.Marshal(vitals)
	if err != nil {
		return nil, domain.NewExternalServiceError("classification", "failed to encode vitals", err)
	}

	url := fmt.Sprintf("%s/classify", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewExternalServiceError("classification", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError("classification", "connection error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, domain.NewExternalServiceError("classification",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)), nil)
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domain.NewExternalServiceError("classification", "failed to decode response", err)
	}

	return &decoded, nil
}

// mapResponse converts the remote payload into a ClassificationResult,
// defaulting missing fields: outlier false, confidence 0.5, risk MEDIUM.
func (c *ClassifierClient) mapResponse(resp *classifyResponse) *domain.ClassificationResult {
	result := &domain.ClassificationResult{
		IsOutlier:    false,
		Confidence:   0.5,
		RiskLevel:    domain.MEDIUM,
		ClassifiedAt: c.clock.Now(),
	}

	if resp.IsOutlier != nil {
		result.IsOutlier = *resp.IsOutlier
	}
	if resp.Confidence != nil {
		result.Confidence = *resp.Confidence
	}
	if resp.RiskLevel != nil {
		if level := domain.RiskLevel(*resp.RiskLevel); level.IsValid() {
			result.RiskLevel = level
		}
	}

	return result
}
