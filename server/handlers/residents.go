package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barangayserver/database"
	apperrors "barangayserver/server/errors"
	"barangayserver/server/services"
)

// ResidentHandler serves the resident record endpoints.
type ResidentHandler struct {
	residents *services.ResidentService
}

// NewResidentHandler creates a new resident handler.
func NewResidentHandler(residents *services.ResidentService) *ResidentHandler {
	return &ResidentHandler{residents: residents}
}

// HandleList returns every resident record.
// @Summary List residents
// @Tags residents
// @Produce json
// @Success 200 {array} database.Resident
// @Failure 500 {object} ErrorResponse
// @Router /api/residents [get]
func (h *ResidentHandler) HandleList(c *gin.Context) {
	residents, err := h.residents.List()
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, residents)
}

// HandleCreate stores one new resident record.
// @Summary Add a resident
// @Tags residents
// @Accept json
// @Produce json
// @Param resident body database.Resident true "Resident record"
// @Success 201 {object} database.Resident
// @Failure 400 {object} ErrorResponse
// @Router /api/residents [post]
func (h *ResidentHandler) HandleCreate(c *gin.Context) {
	var resident database.Resident
	if err := c.ShouldBindJSON(&resident); err != nil {
		SendAppError(c, apperrors.NewValidationError("invalid resident payload", err))
		return
	}

	created, err := h.residents.Create(&resident)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusCreated, created)
}

// HandleUpdate replaces an existing resident record.
// @Summary Update a resident
// @Tags residents
// @Accept json
// @Produce json
// @Param id path string true "Resident ID"
// @Param resident body database.Resident true "Resident record"
// @Success 200 {object} database.Resident
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/residents/{id} [put]
func (h *ResidentHandler) HandleUpdate(c *gin.Context) {
	var resident database.Resident
	if err := c.ShouldBindJSON(&resident); err != nil {
		SendAppError(c, apperrors.NewValidationError("invalid resident payload", err))
		return
	}
	resident.ID = c.Param("id")

	updated, err := h.residents.Update(&resident)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, updated)
}

// HandleDelete removes a resident record.
// @Summary Delete a resident
// @Tags residents
// @Produce json
// @Param id path string true "Resident ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse
// @Router /api/residents/{id} [delete]
func (h *ResidentHandler) HandleDelete(c *gin.Context) {
	if err := h.residents.Delete(c.Param("id")); err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, gin.H{"deleted": true})
}

// IntakeRequest is one survey form submission: all members of a household.
type IntakeRequest struct {
	Members []*database.Resident `json:"members"`
}

// HandleIntake stores a household submitted from the survey form.
// @Summary Submit a household survey form
// @Tags residents
// @Accept json
// @Produce json
// @Param household body IntakeRequest true "Household members"
// @Success 201 {array} database.Resident
// @Failure 400 {object} ErrorResponse
// @Router /api/residents/intake [post]
func (h *ResidentHandler) HandleIntake(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendAppError(c, apperrors.NewValidationError("invalid intake payload", err))
		return
	}

	stored, err := h.residents.Intake(req.Members)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusCreated, stored)
}

// HandleFindFamily looks up a family by number or by member name.
// @Summary Find a family
// @Tags families
// @Accept json
// @Produce json
// @Param query body services.FamilyQuery true "Family lookup"
// @Success 200 {array} database.Resident
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/families/find [post]
func (h *ResidentHandler) HandleFindFamily(c *gin.Context) {
	var query services.FamilyQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		SendAppError(c, apperrors.NewValidationError("invalid family query", err))
		return
	}

	members, err := h.residents.FindFamily(query)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, members)
}

// FamilyUpdateRequest is a batch edit of family member records.
type FamilyUpdateRequest struct {
	Members []*database.Resident `json:"members"`
}

// HandleUpdateFamily applies edits to each listed member.
// @Summary Update family members
// @Tags families
// @Accept json
// @Produce json
// @Param family body FamilyUpdateRequest true "Edited members"
// @Success 200 {array} database.Resident
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/families [put]
func (h *ResidentHandler) HandleUpdateFamily(c *gin.Context) {
	var req FamilyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendAppError(c, apperrors.NewValidationError("invalid family payload", err))
		return
	}

	updated, err := h.residents.UpdateFamily(req.Members)
	if err != nil {
		SendAppError(c, err)
		return
	}
	SendJSONResponse(c, http.StatusOK, updated)
}
