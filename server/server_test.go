package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangayserver/database"
	"barangayserver/internal/config"
)

func newTestServer(t *testing.T, mlURL, budgetURL string) *Server {
	t.Helper()

	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:                  "0",
		MLBaseURL:             mlURL,
		MLTimeout:             5 * time.Second,
		BudgetBaseURL:         budgetURL,
		BudgetTimeout:         5 * time.Second,
		BudgetRateLimitPerSec: 100,
		BudgetCacheTTL:        time.Minute,
	}

	return NewServer(cfg, db)
}

func seedResident(t *testing.T, srv *Server, purok, sex string) {
	t.Helper()
	require.NoError(t, srv.db.InsertResident(&database.Resident{
		Purok:       purok,
		Surname:     "Dela Cruz",
		GivenName:   "Juan",
		Age:         30,
		Sex:         sex,
		CivilStatus: "Married",
	}))
}

func doJSON(srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestResidentLifecycle(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodPost, "/api/residents", map[string]interface{}{
		"purok":       "3",
		"surname":     "Reyes",
		"givenName":   "Maria",
		"age":         28,
		"sex":         "Female",
		"civilStatus": "Single",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created database.Resident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = doJSON(srv, http.MethodGet, "/api/residents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reyes")

	created.Occupation = "Teacher"
	w = doJSON(srv, http.MethodPut, "/api/residents/"+created.ID, created)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(srv, http.MethodDelete, "/api/residents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(srv, http.MethodDelete, "/api/residents/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResidentValidationError(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodPost, "/api/residents", map[string]interface{}{
		"givenName": "Maria",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":true`)
}

func TestAggregatesEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")
	seedResident(t, srv, "2", "Female")
	seedResident(t, srv, "10", "Male")

	w := doJSON(srv, http.MethodGet, "/api/households/aggregates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "genderPerPurok")
	assert.Contains(t, body, "civilStatusTotals")
}

func TestAggregatesExportEndpoint(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")
	seedResident(t, srv, "1", "Female")

	req := httptest.NewRequest(http.MethodGet, "/api/households/aggregates/export", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "household-report")
}

func TestGenerateRecommendationsFlow(t *testing.T) {
	ml := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/run-lstm", r.URL.Path)
		w.Write([]byte(`[{"title": "Feeding Program", "category": "Social Services"}]`))
	}))
	defer ml.Close()

	budget := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"budgets": [{"program": "Feeding Program", "ps": 100, "mooe": 50, "co": 0, "total": 150}]}`))
	}))
	defer budget.Close()

	srv := newTestServer(t, ml.URL, budget.URL)
	seedResident(t, srv, "1", "Female")

	w := doJSON(srv, http.MethodPost, "/api/recommendations/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":150`)

	w = doJSON(srv, http.MethodGet, "/api/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Feeding Program")
}

func TestGenerateWithoutRecordsReturns404(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodPost, "/api/recommendations/generate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateMLDownReturns502(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")
	seedResident(t, srv, "1", "Male")

	w := doJSON(srv, http.MethodPost, "/api/recommendations/generate", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBudgetEndpoints(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodGet, "/api/budget/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pieData":[]`)

	w = doJSON(srv, http.MethodGet, "/api/budget/total", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, srv.db.SetTotalBudget(2026, "₱1,000,000"))

	w = doJSON(srv, http.MethodGet, "/api/budget/total", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"year":2026`)
}

func TestFamilyFindAndUpdate(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", "http://localhost:1")

	w := doJSON(srv, http.MethodPost, "/api/residents/intake", map[string]interface{}{
		"members": []map[string]interface{}{
			{"purok": "5", "surname": "Santos", "givenName": "Pedro", "age": 50},
			{"purok": "5", "surname": "Santos", "givenName": "Ana", "age": 45},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var members []database.Resident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 2)
	familyNo := members[0].NumberOfFamilies

	w = doJSON(srv, http.MethodPost, "/api/families/find", map[string]interface{}{
		"purok":        "5",
		"familyNumber": familyNo,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var found []database.Resident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 2)
	// Members come back oldest first.
	assert.Equal(t, "Pedro", found[0].GivenName)

	found[1].Occupation = "Vendor"
	w = doJSON(srv, http.MethodPut, "/api/families", map[string]interface{}{
		"members": found,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Vendor")
}
