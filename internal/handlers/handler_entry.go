package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
	"github.com/tempusworks/timesheet_app/internal/middleware"
)

// entryHandler handles HTTP requests related to time entries.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(es portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entryService: es}
}

// RegisterEntryRoutes registers time entry routes nested under a company.
func RegisterEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PUT("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)

		entries.POST("/submit", h.submitEntries)
		entries.POST("/approve", h.approveEntries)
		entries.POST("/reject", h.rejectEntries)
	}
}

func (h *entryHandler) respondEntryError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Entry not found"})
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Entry handler error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createEntry godoc
// @Summary Log a time entry
// @Description Creates a new draft time entry owned by the caller.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		h.respondEntryError(c, err, "create entry")
		return
	}

	logger.Info("Entry created successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List time entries
// @Description Retrieves a filtered, token-paginated list of entries in a company.
// @Tags entries
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   userID query string false "Filter by owner"
// @Param   projectID query string false "Filter by project"
// @Param   status query string false "Filter by status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	companyID := c.Param("company_id")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), companyID, requestingUserID, params)
	if err != nil {
		h.respondEntryError(c, err, "list entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a time entry
// @Description Retrieves a time entry by its ID.
// @Tags entries
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries/{entry_id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), companyID, entryID, requestingUserID)
	if err != nil {
		h.respondEntryError(c, err, "get entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a time entry
// @Description Updates the content of a draft or rejected entry. Editing a rejected entry moves it back to draft.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry not editable in its current status"
// @Security BearerAuth
// @Router /companies/{company_id}/entries/{entry_id} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), companyID, entryID, req, requestingUserID)
	if err != nil {
		h.respondEntryError(c, err, "update entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a time entry
// @Description Removes a draft entry owned by the caller.
// @Tags entries
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Only drafts can be deleted"
// @Security BearerAuth
// @Router /companies/{company_id}/entries/{entry_id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	companyID := c.Param("company_id")
	entryID := c.Param("entry_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), companyID, entryID, requestingUserID); err != nil {
		h.respondEntryError(c, err, "delete entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// submitEntries godoc
// @Summary Submit entries for approval
// @Description Moves the caller's draft or rejected entries to submitted. Entries that cannot be
// @Description transitioned are reported individually; the request as a whole still succeeds.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   batch body dto.BatchTransitionRequest true "Entry IDs"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries/submit [post]
func (h *entryHandler) submitEntries(c *gin.Context) {
	companyID := c.Param("company_id")

	var req dto.BatchTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.entryService.SubmitEntries(c.Request.Context(), companyID, req.EntryIDs, requestingUserID)
	if err != nil {
		h.respondEntryError(c, err, "submit entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// approveEntries godoc
// @Summary Approve submitted entries
// @Description Moves one employee's submitted entries to approved (requires decision permission).
// @Description Per-entry failures are reported individually; approving your own entry is always refused.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   batch body dto.ApproveEntriesRequest true "Owner and entry IDs"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries/approve [post]
func (h *entryHandler) approveEntries(c *gin.Context) {
	companyID := c.Param("company_id")

	var req dto.ApproveEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.entryService.ApproveEntries(c.Request.Context(), companyID, req.OwnerUserID, req.EntryIDs, requestingUserID)
	if err != nil {
		h.respondEntryError(c, err, "approve entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// rejectEntries godoc
// @Summary Reject submitted entries
// @Description Moves one employee's submitted entries to rejected with a mandatory reason (requires decision permission).
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   batch body dto.RejectEntriesRequest true "Owner, entry IDs and reason"
// @Success 200 {object} dto.BatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/entries/reject [post]
func (h *entryHandler) rejectEntries(c *gin.Context) {
	companyID := c.Param("company_id")

	var req dto.RejectEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.entryService.RejectEntries(c.Request.Context(), companyID, req.OwnerUserID, req.EntryIDs, req.Reason, requestingUserID)
	if err != nil {
		h.respondEntryError(c, err, "reject entries")
		return
	}

	c.JSON(http.StatusOK, result)
}
