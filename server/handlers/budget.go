package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barangayserver/server/services"
)

// BudgetHandler serves the budget chart and total budget endpoints.
type BudgetHandler struct {
	reports *services.BudgetReportService
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(reports *services.BudgetReportService) *BudgetHandler {
	return &BudgetHandler{reports: reports}
}

// HandleGetReport returns the category budget aggregation.
// @Summary Budget report by service category
// @Tags budget
// @Produce json
// @Success 200 {object} services.BudgetReport
// @Failure 500 {object} ErrorResponse
// @Router /api/budget/report [get]
func (h *BudgetHandler) HandleGetReport(c *gin.Context) {
	report, err := h.reports.Report()
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, report)
}

// HandleGetTotal returns the latest stored annual budget.
// @Summary Latest total annual budget
// @Tags budget
// @Produce json
// @Success 200 {object} database.TotalBudget
// @Failure 404 {object} ErrorResponse
// @Router /api/budget/total [get]
func (h *BudgetHandler) HandleGetTotal(c *gin.Context) {
	total, err := h.reports.TotalBudget()
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, total)
}
