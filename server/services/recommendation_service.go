package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"barangayserver/database"
	"barangayserver/demographics"
	apperrors "barangayserver/server/errors"
	"barangayserver/server/models"
)

// MLRunner runs the recommendation model on the survey set.
type MLRunner interface {
	Run(ctx context.Context, households []demographics.SurveyRecord) ([]database.Recommendation, error)
}

// BudgetPredictor returns program budget forecasts for a year.
type BudgetPredictor interface {
	Predict(ctx context.Context, year int) ([]models.ProgramBudgetForecast, error)
}

// RecommendationService runs generation and serves the persisted result.
type RecommendationService struct {
	db     *database.DB
	ml     MLRunner
	budget BudgetPredictor
	now    func() time.Time
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(db *database.DB, ml MLRunner, budget BudgetPredictor) *RecommendationService {
	return &RecommendationService{
		db:     db,
		ml:     ml,
		budget: budget,
		now:    time.Now,
	}
}

// GenerationResult is the response of a generation run: the persisted
// recommendations with budget figures joined on.
type GenerationResult struct {
	GeneratedAt     time.Time                 `json:"generatedAt"`
	TotalHouseholds int                       `json:"totalHouseholds"`
	Recommendations []database.Recommendation `json:"recommendations"`
}

// Generate runs the full generation flow: load the survey set, run the
// model, persist the snapshot, then join budget forecasts onto the
// persisted list. A budget service failure degrades to recommendations
// without figures; a model failure aborts the run and the prior snapshot
// stays in place.
func (s *RecommendationService) Generate(ctx context.Context) (*GenerationResult, error) {
	households, err := s.db.ListSurveyRecords()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load survey records", err)
	}
	if len(households) == 0 {
		return nil, apperrors.NewNotFoundError("no household records found", nil)
	}

	recommendations, err := s.ml.Run(ctx, households)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("recommendation model is unavailable", err)
	}

	snapshot := &database.RecommendationSnapshot{
		ID:              database.SnapshotKey,
		GeneratedAt:     s.now().UTC(),
		TotalHouseholds: len(households),
		Recommendations: recommendations,
	}
	if err := s.db.SaveRecommendationSnapshot(snapshot); err != nil {
		return nil, apperrors.NewInternalError("failed to store recommendations", err)
	}

	// Read back what was stored so the response reflects the snapshot,
	// not the in-memory list.
	stored, err := s.db.GetRecommendationSnapshot()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload recommendations", err)
	}

	budgets, err := s.budget.Predict(ctx, s.now().Year())
	if err != nil {
		slog.Warn("budget forecast unavailable, returning recommendations without budgets", "error", err)
		budgets = nil
	}

	return &GenerationResult{
		GeneratedAt:     stored.GeneratedAt,
		TotalHouseholds: stored.TotalHouseholds,
		Recommendations: mergeBudgets(stored.Recommendations, budgets),
	}, nil
}

// Latest returns the persisted snapshot without touching the external
// services.
func (s *RecommendationService) Latest() (*database.RecommendationSnapshot, error) {
	snapshot, err := s.db.GetRecommendationSnapshot()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no recommendations have been generated yet", err)
		}
		return nil, apperrors.NewInternalError("failed to load recommendations", err)
	}
	return snapshot, nil
}

// mergeBudgets left-joins forecasts onto recommendations by exact program
// title. Recommendations the budget service did not price get a budget
// with all figures null.
func mergeBudgets(recommendations []database.Recommendation, budgets []models.ProgramBudgetForecast) []database.Recommendation {
	byProgram := make(map[string]models.ProgramBudgetForecast, len(budgets))
	for _, b := range budgets {
		byProgram[b.Program] = b
	}

	merged := make([]database.Recommendation, len(recommendations))
	for i, rec := range recommendations {
		if b, ok := byProgram[rec.Title]; ok {
			ps, mooe, co, total := b.PS, b.MOOE, b.CO, b.Total
			rec.Budget = &database.ProgramBudget{
				PS:    &ps,
				MOOE:  &mooe,
				CO:    &co,
				Total: &total,
			}
		} else {
			rec.Budget = &database.ProgramBudget{}
		}
		merged[i] = rec
	}
	return merged
}
