package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tempusworks/timesheet_app/internal/apperrors"
	portssvc "github.com/tempusworks/timesheet_app/internal/core/ports/services"
	"github.com/tempusworks/timesheet_app/internal/dto"
	"github.com/tempusworks/timesheet_app/internal/middleware"
)

// projectHandler handles HTTP requests related to projects and tasks.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps}
}

// registerProjectRoutes registers project and task routes nested under a company.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:project_id", h.getProject)
		projects.PUT("/:project_id", h.updateProject)
		projects.POST("/:project_id/archive", h.archiveProject)
		projects.POST("/:project_id/tasks", h.createTask)
		projects.GET("/:project_id/tasks", h.listTasks)
	}
}

func (h *projectHandler) respondProjectError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not allowed"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Project not found"})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Project handler error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createProject godoc
// @Summary Create a project
// @Description Creates a new project within a company (requires project management permission).
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	companyID := c.Param("company_id")

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		h.respondProjectError(c, err, "create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Description Retrieves the projects of a company.
// @Tags projects
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   includeArchived query bool false "Include archived projects"
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	companyID := c.Param("company_id")
	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("includeArchived", "false"))

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), companyID, requestingUserID, includeArchived)
	if err != nil {
		h.respondProjectError(c, err, "list projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToListProjectsResponse(projects))
}

// getProject godoc
// @Summary Get a project
// @Description Retrieves a project by its ID.
// @Tags projects
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project_id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/projects/{project_id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	companyID := c.Param("company_id")
	projectID := c.Param("project_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), companyID, projectID, requestingUserID)
	if err != nil {
		h.respondProjectError(c, err, "get project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// updateProject godoc
// @Summary Update a project
// @Description Updates a project's details (requires project management permission).
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project_id path string true "Project ID"
// @Param   project body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/projects/{project_id} [put]
func (h *projectHandler) updateProject(c *gin.Context) {
	companyID := c.Param("company_id")
	projectID := c.Param("project_id")

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), companyID, projectID, req, requestingUserID)
	if err != nil {
		h.respondProjectError(c, err, "update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// archiveProject godoc
// @Summary Archive a project
// @Description Archives a project so it accepts no new entries (requires project management permission).
// @Tags projects
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project_id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already archived"
// @Security BearerAuth
// @Router /companies/{company_id}/projects/{project_id}/archive [post]
func (h *projectHandler) archiveProject(c *gin.Context) {
	companyID := c.Param("company_id")
	projectID := c.Param("project_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.projectService.ArchiveProject(c.Request.Context(), companyID, projectID, requestingUserID); err != nil {
		h.respondProjectError(c, err, "archive project")
		return
	}

	c.Status(http.StatusNoContent)
}

// createTask godoc
// @Summary Create a task
// @Description Creates a new task under a project (requires project management permission).
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project_id path string true "Project ID"
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Project archived"
// @Security BearerAuth
// @Router /companies/{company_id}/projects/{project_id}/tasks [post]
func (h *projectHandler) createTask(c *gin.Context) {
	companyID := c.Param("company_id")
	projectID := c.Param("project_id")

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	task, err := h.projectService.CreateTask(c.Request.Context(), companyID, projectID, req, creatorUserID)
	if err != nil {
		h.respondProjectError(c, err, "create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// listTasks godoc
// @Summary List tasks
// @Description Retrieves the tasks of a project.
// @Tags projects
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   project_id path string true "Project ID"
// @Success 200 {object} dto.ListTasksResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/projects/{project_id}/tasks [get]
func (h *projectHandler) listTasks(c *gin.Context) {
	companyID := c.Param("company_id")
	projectID := c.Param("project_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tasks, err := h.projectService.ListTasks(c.Request.Context(), companyID, projectID, requestingUserID)
	if err != nil {
		h.respondProjectError(c, err, "list tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTasksResponse(tasks))
}
