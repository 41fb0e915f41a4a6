package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"barangayserver/database"
	apperrors "barangayserver/server/errors"
)

// Fixed display order of the service categories on the budget charts.
var categoryOrder = []string{
	"General Services",
	"Local Infrastructure Services / Social Services",
	"Social Services",
	"Economic Services",
	"Environmental Management",
	"Other Services",
}

// PieSlice is one category's share of the total budget.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CategorySplit is one category's PS/MOOE/CO breakdown.
type CategorySplit struct {
	Category string  `json:"category"`
	PS       float64 `json:"PS"`
	MOOE     float64 `json:"MOOE"`
	CO       float64 `json:"CO"`
}

// BudgetRecord is one table row of the budget report.
type BudgetRecord struct {
	AIPReferenceCode string  `json:"AIP Reference Code"`
	Program          string  `json:"Program"`
	FundingSource    string  `json:"Funding Source"`
	PS               float64 `json:"Personal Services (PS)"`
	MOOE             float64 `json:"Maintenance and Other Operating Expenses (MOOE)"`
	CO               float64 `json:"Capital Outlay (CO)"`
	Total            float64 `json:"Total"`
}

// BudgetReport is the chart-ready view of the persisted recommendations.
type BudgetReport struct {
	PieData      []PieSlice      `json:"pieData"`
	PSMooeCoData []CategorySplit `json:"psMooeCoData"`
	Records      []BudgetRecord  `json:"records"`
}

// BudgetReportService aggregates recommendation budgets by service category.
type BudgetReportService struct {
	db *database.DB
}

// NewBudgetReportService creates a new budget report service.
func NewBudgetReportService(db *database.DB) *BudgetReportService {
	return &BudgetReportService{db: db}
}

// Report builds the category aggregation from the persisted snapshot.
// Without a snapshot the report is empty rather than an error, so the
// dashboard renders blank charts before the first generation run.
func (bs *BudgetReportService) Report() (*BudgetReport, error) {
	snapshot, err := bs.db.GetRecommendationSnapshot()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &BudgetReport{
				PieData:      []PieSlice{},
				PSMooeCoData: []CategorySplit{},
				Records:      []BudgetRecord{},
			}, nil
		}
		return nil, apperrors.NewInternalError("failed to load recommendations", err)
	}

	type split struct {
		ps, mooe, co decimal.Decimal
	}
	totals := make(map[string]decimal.Decimal, len(categoryOrder))
	splits := make(map[string]*split, len(categoryOrder))
	for _, c := range categoryOrder {
		totals[c] = decimal.Zero
		splits[c] = &split{}
	}

	records := make([]BudgetRecord, 0, len(snapshot.Recommendations))
	for _, rec := range snapshot.Recommendations {
		source := rec.Category
		if source == "" {
			source = rec.Title
		}
		category := mapTitleToCategory(source)

		var ps, mooe, co decimal.Decimal
		if rec.Budget != nil {
			ps = moneyValue(rec.Budget.PS)
			mooe = moneyValue(rec.Budget.MOOE)
			co = moneyValue(rec.Budget.CO)
		}
		total := ps.Add(mooe).Add(co)

		totals[category] = totals[category].Add(total)
		splits[category].ps = splits[category].ps.Add(ps)
		splits[category].mooe = splits[category].mooe.Add(mooe)
		splits[category].co = splits[category].co.Add(co)

		refCode := rec.Category
		if refCode == "" {
			refCode = "N/A"
		}
		records = append(records, BudgetRecord{
			AIPReferenceCode: refCode,
			Program:          rec.Title,
			FundingSource:    "Unknown",
			PS:               ps.InexactFloat64(),
			MOOE:             mooe.InexactFloat64(),
			CO:               co.InexactFloat64(),
			Total:            total.InexactFloat64(),
		})
	}

	pieData := make([]PieSlice, 0, len(categoryOrder))
	psMooeCoData := make([]CategorySplit, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		pieData = append(pieData, PieSlice{Name: c, Value: totals[c].InexactFloat64()})
		psMooeCoData = append(psMooeCoData, CategorySplit{
			Category: c,
			PS:       splits[c].ps.InexactFloat64(),
			MOOE:     splits[c].mooe.InexactFloat64(),
			CO:       splits[c].co.InexactFloat64(),
		})
	}

	return &BudgetReport{
		PieData:      pieData,
		PSMooeCoData: psMooeCoData,
		Records:      records,
	}, nil
}

// TotalBudget returns the most recent stored annual budget.
func (bs *BudgetReportService) TotalBudget() (*database.TotalBudget, error) {
	total, err := bs.db.GetLatestTotalBudget()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no total budget has been recorded", err)
		}
		return nil, apperrors.NewInternalError("failed to load total budget", err)
	}
	return total, nil
}

// mapTitleToCategory assigns a program to one of the fixed service
// categories by keyword.
func mapTitleToCategory(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "general"):
		return "General Services"
	case strings.Contains(t, "infrastructure"), strings.Contains(t, "local infra"):
		return "Local Infrastructure Services / Social Services"
	case strings.Contains(t, "social"):
		return "Social Services"
	case strings.Contains(t, "economic"):
		return "Economic Services"
	case strings.Contains(t, "environment"):
		return "Environmental Management"
	default:
		return "Other Services"
	}
}

// moneyValue converts an optional budget figure to a decimal, treating
// null as zero.
func moneyValue(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
