package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barangayserver/server/services"
)

// RecommendationHandler serves the program recommendation endpoints.
type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// HandleGenerate runs the model on the current survey set and returns the
// merged recommendations.
// @Summary Generate program recommendations
// @Description Runs the model, stores the result, and joins budget forecasts
// @Tags recommendations
// @Produce json
// @Success 200 {object} services.GenerationResult
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/recommendations/generate [post]
func (h *RecommendationHandler) HandleGenerate(c *gin.Context) {
	result, err := h.recommendations.Generate(c.Request.Context())
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, result)
}

// HandleGetLatest returns the persisted recommendation snapshot.
// @Summary Latest recommendations
// @Tags recommendations
// @Produce json
// @Success 200 {object} database.RecommendationSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /api/recommendations [get]
func (h *RecommendationHandler) HandleGetLatest(c *gin.Context) {
	snapshot, err := h.recommendations.Latest()
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, snapshot)
}
