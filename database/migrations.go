package database

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the barangay tables when they do not exist yet. All
// statements are idempotent so reopening an existing store is safe.
func InitSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS residents (
			id TEXT PRIMARY KEY,
			purok TEXT,
			number_of_families TEXT,
			household_number TEXT,
			surname TEXT,
			given_name TEXT,
			middle_name TEXT,
			suffix TEXT,
			prefix TEXT,
			age INTEGER,
			sex TEXT,
			civil_status TEXT,
			birthdate TEXT,
			birthplace TEXT,
			family_planning TEXT,
			religion TEXT,
			community_group TEXT,
			educational_attainment TEXT,
			occupation TEXT,
			four_ps TEXT,
			ip_household TEXT,
			have_toilet TEXT,
			mrf_segregation TEXT,
			garden TEXT,
			smoker TEXT,
			classification TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_residents_purok ON residents(purok)`,
		`CREATE INDEX IF NOT EXISTS idx_residents_family ON residents(purok, number_of_families)`,
		`CREATE TABLE IF NOT EXISTS recommendation_snapshots (
			id TEXT PRIMARY KEY,
			generated_at TIMESTAMP NOT NULL,
			total_households INTEGER NOT NULL,
			recommendations TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS total_budget (
			year INTEGER PRIMARY KEY,
			total_budget TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %s, error: %w", stmt, err)
		}
	}

	return nil
}
