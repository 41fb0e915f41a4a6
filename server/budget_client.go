package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"barangayserver/server/models"
)

// budgetPredictRequest is the body of a budget forecast request.
type budgetPredictRequest struct {
	Year int `json:"year"`
}

// budgetPredictResponse is the budget model response envelope.
type budgetPredictResponse struct {
	Budgets []models.ProgramBudgetForecast `json:"budgets"`
}

// BudgetClient talks to the budget forecast service. Forecasts for a year
// change rarely, so responses are cached and requests are rate limited.
// Repeated failures open the circuit breaker and the caller falls back to
// recommendations without budget figures.
type BudgetClient struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	cache          *cache.Cache
	circuitBreaker *HTTPCircuitBreaker
}

// BudgetClientConfig configures a BudgetClient.
type BudgetClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitPerSec int
	CacheTTL        time.Duration
}

// NewBudgetClient creates a client for the budget forecast service.
func NewBudgetClient(cfg BudgetClientConfig) *BudgetClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimitPerSec == 0 {
		cfg.RateLimitPerSec = 2
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &BudgetClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1),
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		circuitBreaker: NewHTTPCircuitBreaker(),
	}
}

// Predict returns program budget forecasts for the given year.
func (c *BudgetClient) Predict(ctx context.Context, year int) ([]models.ProgramBudgetForecast, error) {
	cacheKey := strconv.Itoa(year)
	if cached, found := c.cache.Get(cacheKey); found {
		if budgets, ok := cached.([]models.ProgramBudgetForecast); ok {
			return budgets, nil
		}
	}

	if !c.circuitBreaker.CanProceed() {
		return nil, fmt.Errorf("circuit breaker is open (state: %s), budget forecast calls are temporarily blocked", c.circuitBreaker.GetState())
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/predict-budget", c.baseURL)

	jsonData, err := json.Marshal(budgetPredictRequest{Year: year})
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
		c.circuitBreaker.RecordFailure()
		return nil, fmt.Errorf("budget forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		c.circuitBreaker.RecordFailure()
	} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.circuitBreaker.RecordSuccess()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("budget service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response budgetPredictResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.cache.Set(cacheKey, response.Budgets, cache.DefaultExpiration)

	return response.Budgets, nil
}
