package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TotalBudget is the stored annual budget figure. The amount is kept as the
// operator entered it ("₱1,500,000.00" and plain numbers both occur).
type TotalBudget struct {
	Year   int    `json:"year"`
	Amount string `json:"totalBudget"`
}

// ParseAmount parses the stored amount, stripping peso signs and thousands
// separators.
func (t *TotalBudget) ParseAmount() (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("₱", "", ",", "", " ", "").Replace(t.Amount)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid budget amount %q: %w", t.Amount, err)
	}
	return amount, nil
}

// GetLatestTotalBudget returns the stored budget for the most recent year,
// or sql.ErrNoRows when no budget has been recorded.
func (db *DB) GetLatestTotalBudget() (*TotalBudget, error) {
	var t TotalBudget
	err := db.conn.QueryRow(
		`SELECT year, total_budget FROM total_budget ORDER BY year DESC LIMIT 1`).
		Scan(&t.Year, &t.Amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read total budget: %w", err)
	}
	return &t, nil
}

// SetTotalBudget records the budget for one year, replacing any previous
// figure for that year.
func (db *DB) SetTotalBudget(year int, amount string) error {
	_, err := db.conn.Exec(`INSERT INTO total_budget (year, total_budget)
		VALUES (?, ?)
		ON CONFLICT(year) DO UPDATE SET total_budget = excluded.total_budget`,
		year, amount)
	if err != nil {
		return fmt.Errorf("failed to save total budget: %w", err)
	}
	return nil
}
