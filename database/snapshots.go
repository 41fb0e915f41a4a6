package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotKey is the fixed identifier of the single persisted snapshot.
// Each generation run replaces it wholesale; no history is retained.
const SnapshotKey = "LATEST"

// ProgramBudget is the budget allocation joined onto one recommendation.
// All fields are null for recommendations the budget service did not price.
type ProgramBudget struct {
	PS    *float64 `json:"ps"`
	MOOE  *float64 `json:"mooe"`
	CO    *float64 `json:"co"`
	Total *float64 `json:"total"`
}

// Recommendation is one program suggestion from the ML service.
type Recommendation struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Priority    string         `json:"priority"`
	Size        int            `json:"size"`
	AvgScore    float64        `json:"avg_score"`
	Budget      *ProgramBudget `json:"budget,omitempty"`
}

// RecommendationSnapshot is the persisted "latest" output of a generation
// run: the ML service's list plus provenance.
type RecommendationSnapshot struct {
	ID              string           `json:"id"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	TotalHouseholds int              `json:"totalHouseholds"`
	Recommendations []Recommendation `json:"recommendations"`
}

// SaveRecommendationSnapshot replaces the snapshot stored under the fixed
// key. The store's own upsert is the only guard between two concurrent
// generation runs; last write wins.
func (db *DB) SaveRecommendationSnapshot(snapshot *RecommendationSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = SnapshotKey
	}

	payload, err := json.Marshal(snapshot.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO recommendation_snapshots
		(id, generated_at, total_households, recommendations)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generated_at = excluded.generated_at,
			total_households = excluded.total_households,
			recommendations = excluded.recommendations`,
		snapshot.ID, snapshot.GeneratedAt.UTC(), snapshot.TotalHouseholds, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation snapshot: %w", err)
	}
	return nil
}

// GetRecommendationSnapshot reads the snapshot stored under the fixed key,
// or sql.ErrNoRows when none has been generated yet.
func (db *DB) GetRecommendationSnapshot() (*RecommendationSnapshot, error) {
	var snapshot RecommendationSnapshot
	var payload string

	err := db.conn.QueryRow(`SELECT id, generated_at, total_households, recommendations
		FROM recommendation_snapshots WHERE id = ?`, SnapshotKey).
		Scan(&snapshot.ID, &snapshot.GeneratedAt, &snapshot.TotalHouseholds, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read recommendation snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	return &snapshot, nil
}
