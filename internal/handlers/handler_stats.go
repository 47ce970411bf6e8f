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

// statsHandler handles HTTP requests for time entry aggregates.
type statsHandler struct {
	statsService portssvc.StatsService
}

// newStatsHandler creates a new statsHandler.
func newStatsHandler(ss portssvc.StatsService) *statsHandler {
	return &statsHandler{statsService: ss}
}

// registerStatsRoutes registers stats routes nested under a company.
func registerStatsRoutes(rg *gin.RouterGroup, statsService portssvc.StatsService) {
	h := newStatsHandler(statsService)

	stats := rg.Group("/stats")
	{
		stats.GET("/me", h.getMyStats)
		stats.GET("/company", h.getCompanyStats)
	}
}

func (h *statsHandler) respondStatsError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Company not found"})
	default:
		logger.Error("Stats handler error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// getMyStats godoc
// @Summary Get my entry stats
// @Description Computes totals over the caller's own entries, optionally filtered.
// @Tags stats
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   projectID query string false "Filter by project"
// @Param   status query string false "Filter by status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/stats/me [get]
func (h *statsHandler) getMyStats(c *gin.Context) {
	companyID := c.Param("company_id")

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.statsService.GetUserStats(c.Request.Context(), companyID, requestingUserID, params)
	if err != nil {
		h.respondStatsError(c, err, "compute user stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// getCompanyStats godoc
// @Summary Get company entry stats
// @Description Computes totals over every entry in the company, optionally narrowed to one user or project. Requires team stats access.
// @Tags stats
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   userID query string false "Filter by owner"
// @Param   projectID query string false "Filter by project"
// @Param   status query string false "Filter by status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Param   dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/stats/company [get]
func (h *statsHandler) getCompanyStats(c *gin.Context) {
	companyID := c.Param("company_id")

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.statsService.GetCompanyStats(c.Request.Context(), companyID, requestingUserID, params)
	if err != nil {
		h.respondStatsError(c, err, "compute company stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}
