package handler

import (
	appcostplan "github.com/buildcore/backend/internal/application/costplan"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CostPlanHandler handles cost target and tax-balance estimate endpoints
type CostPlanHandler struct {
	BaseHandler
	planService *appcostplan.PlanService
}

// NewCostPlanHandler creates a new CostPlanHandler
func NewCostPlanHandler(planService *appcostplan.PlanService) *CostPlanHandler {
	return &CostPlanHandler{planService: planService}
}

// CreateTarget creates a new cost target line
func (h *CostPlanHandler) CreateTarget(c *gin.Context) {
	var req appcostplan.CreateCostTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	target, err := h.planService.CreateCostTarget(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, target)
}

// ListTargets retrieves all cost targets in display order
func (h *CostPlanHandler) ListTargets(c *gin.Context) {
	targets, err := h.planService.ListCostTargets(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, targets)
}

// UpdateTarget updates a cost target's label and percent
func (h *CostPlanHandler) UpdateTarget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cost target ID format")
		return
	}

	var req appcostplan.UpdateCostTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	target, err := h.planService.UpdateCostTarget(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, target)
}

// DeleteTarget deletes a cost target line
func (h *CostPlanHandler) DeleteTarget(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cost target ID format")
		return
	}

	if err := h.planService.DeleteCostTarget(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Estimate computes a tax-balance projection for the requested revenue
// base and period. Results are derived on the fly and never persisted.
func (h *CostPlanHandler) Estimate(c *gin.Context) {
	var req appcostplan.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	estimate, err := h.planService.EstimateTaxBalance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, estimate)
}
