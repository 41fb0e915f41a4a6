package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangayserver/demographics"
)

func TestMLClientRun(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/run-lstm", r.URL.Path)

		var req mlRunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Households, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "r1", "title": "Feeding Program", "category": "Social Services", "priority": "High"},
			{"id": "r2", "title": "Road Repair", "category": "Local Infrastructure Services", "priority": "Medium"}
		]`))
	}))
	defer ts.Close()

	client := NewMLClient(ts.URL, 5*time.Second)

	recs, err := client.Run(context.Background(), []demographics.SurveyRecord{
		{Purok: "1", Sex: "Female"},
		{Purok: "2", Sex: "Male"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Feeding Program", recs[0].Title)
	assert.Equal(t, "Road Repair", recs[1].Title)
	assert.Nil(t, recs[0].Budget)
}

func TestMLClientRunServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model blew up", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewMLClient(ts.URL, 5*time.Second)

	_, err := client.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBudgetClientPredict(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/predict-budget", r.URL.Path)

		var req budgetPredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, 2026, req.Year)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"budgets": [
			{"program": "Feeding Program", "ps": 100000, "mooe": 50000, "co": 0, "total": 150000}
		]}`))
	}))
	defer ts.Close()

	client := NewBudgetClient(BudgetClientConfig{
		BaseURL:         ts.URL,
		Timeout:         5 * time.Second,
		RateLimitPerSec: 100,
		CacheTTL:        time.Minute,
	})

	budgets, err := client.Predict(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Feeding Program", budgets[0].Program)
	assert.Equal(t, 150000.0, budgets[0].Total)

	// Second call for the same year is served from cache.
	_, err = client.Predict(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBudgetClientCircuitBreakerOpens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewBudgetClient(BudgetClientConfig{
		BaseURL:         ts.URL,
		Timeout:         5 * time.Second,
		RateLimitPerSec: 1000,
		CacheTTL:        time.Minute,
	})

	for i := 0; i < 5; i++ {
		_, err := client.Predict(context.Background(), 2020+i)
		require.Error(t, err)
	}

	_, err := client.Predict(context.Background(), 2030)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestHTTPCircuitBreakerRecovery(t *testing.T) {
	cb := NewHTTPCircuitBreaker()
	cb.timeout = 10 * time.Millisecond

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	assert.Equal(t, "open", cb.GetState())
	assert.False(t, cb.CanProceed())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, cb.CanProceed())
	assert.Equal(t, "half-open", cb.GetState())

	cb.RecordSuccess()
	cb.RecordSuccess()
	assert.Equal(t, "closed", cb.GetState())
}
