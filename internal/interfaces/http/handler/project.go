package handler

import (
	"context"

	appproject "github.com/buildcore/backend/internal/application/project"
	"github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/interfaces/http/dto"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles project and partner API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *appproject.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *appproject.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ProjectListRequest extends the common list parameters with a status filter
type ProjectListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=PLANNING IN_PROGRESS COMPLETED"`
}

// PartnerListRequest extends the common list parameters with a type filter
type PartnerListRequest struct {
	dto.ListRequest
	Type string `form:"type" binding:"omitempty,oneof=CUSTOMER SUPPLIER SUBCONTRACTOR"`
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req appproject.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	p, err := h.projectService.CreateProject(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, p)
}

// GetProjectByID retrieves a project by ID
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	p, err := h.projectService.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// ListProjects retrieves a paginated, filtered list of projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var req ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := project.ProjectFilter{Filter: toFilter(req.ListRequest)}
	if req.Status != "" {
		status := project.ProjectStatus(req.Status)
		filter.Status = &status
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, projects, total, filter.Page, filter.PageSize)
}

// UpdateProject updates a project's name and address
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req appproject.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	p, err := h.projectService.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// SetContractValue records the manually entered total contract value
func (h *ProjectHandler) SetContractValue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req appproject.SetContractValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	p, err := h.projectService.SetProjectContractValue(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// StartProject moves a planned project into the active state
func (h *ProjectHandler) StartProject(c *gin.Context) {
	h.projectTransition(c, h.projectService.StartProject)
}

// CompleteProject marks an active project as completed
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	h.projectTransition(c, h.projectService.CompleteProject)
}

// CreatePartner creates a new partner
func (h *ProjectHandler) CreatePartner(c *gin.Context) {
	var req appproject.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	partner, err := h.projectService.CreatePartner(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, partner)
}

// GetPartnerByID retrieves a partner by ID
func (h *ProjectHandler) GetPartnerByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	partner, err := h.projectService.GetPartnerByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, partner)
}

// ListPartners retrieves a paginated, filtered list of partners
func (h *ProjectHandler) ListPartners(c *gin.Context) {
	var req PartnerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := project.PartnerFilter{Filter: toFilter(req.ListRequest)}
	if req.Type != "" {
		partnerType := project.PartnerType(req.Type)
		filter.Type = &partnerType
	}

	partners, total, err := h.projectService.ListPartners(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, partners, total, filter.Page, filter.PageSize)
}

// UpdatePartner updates a partner's details
func (h *ProjectHandler) UpdatePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	var req appproject.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	partner, err := h.projectService.UpdatePartner(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, partner)
}

// DeletePartner soft-deletes a partner
func (h *ProjectHandler) DeletePartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	if err := h.projectService.DeletePartner(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProjectHandler) projectTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*appproject.ProjectResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	p, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}
