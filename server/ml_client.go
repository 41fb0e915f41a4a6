package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"barangayserver/database"
	"barangayserver/demographics"
)

// MLClient talks to the recommendation model service. A run trains the
// model on the full survey set, so the timeout is generous and there are
// no retries. A failed run is reported to the caller as-is.
type MLClient struct {
	baseURL    string
	httpClient *http.Client
}

// mlRunRequest is the body of a model run.
type mlRunRequest struct {
	Households []demographics.SurveyRecord `json:"households"`
}

// NewMLClient creates a client for the recommendation model service.
func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &MLClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Run sends the survey records to the model and returns the generated
// program recommendations.
func (c *MLClient) Run(ctx context.Context, households []demographics.SurveyRecord) ([]database.Recommendation, error) {
	url := fmt.Sprintf("%s/run-lstm", c.baseURL)

	jsonData, err := json.Marshal(mlRunRequest{Households: households})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model run request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var recommendations []database.Recommendation
	if err := json.Unmarshal(body, &recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return recommendations, nil
}
