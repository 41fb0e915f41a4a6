package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"barangayserver/database"
	"barangayserver/demographics"
	apperrors "barangayserver/server/errors"
)

// HouseholdHandler serves the demographic aggregation endpoints.
type HouseholdHandler struct {
	db *database.DB
}

// NewHouseholdHandler creates a new household handler.
func NewHouseholdHandler(db *database.DB) *HouseholdHandler {
	return &HouseholdHandler{db: db}
}

// HandleGetAggregates builds the chart data from the current survey set.
// @Summary Household demographic aggregates
// @Description Returns the normalized per-purok and barangay-wide chart data
// @Tags households
// @Produce json
// @Success 200 {object} demographics.Aggregates
// @Failure 500 {object} ErrorResponse
// @Router /api/households/aggregates [get]
func (h *HouseholdHandler) HandleGetAggregates(c *gin.Context) {
	records, err := h.db.ListSurveyRecords()
	if err != nil {
		SendAppError(c, apperrors.NewInternalError("failed to load survey records", err))
		return
	}

	SendJSONResponse(c, http.StatusOK, demographics.Aggregate(records))
}

// HandleExportAggregates writes the aggregate report as an Excel workbook.
// @Summary Export household aggregates
// @Description Downloads the demographic report as an .xlsx workbook
// @Tags households
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse
// @Router /api/households/aggregates/export [get]
func (h *HouseholdHandler) HandleExportAggregates(c *gin.Context) {
	records, err := h.db.ListSurveyRecords()
	if err != nil {
		SendAppError(c, apperrors.NewInternalError("failed to load survey records", err))
		return
	}

	aggregates := demographics.Aggregate(records)
	exporter := demographics.NewExporter(aggregates)

	filename := fmt.Sprintf("household-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := exporter.WriteExcel(c.Writer); err != nil {
		SendAppError(c, apperrors.NewInternalError("failed to write workbook", err))
		return
	}
}
