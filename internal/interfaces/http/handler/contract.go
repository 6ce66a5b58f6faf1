package handler

import (
	"context"

	appcontract "github.com/buildcore/backend/internal/application/contract"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContractHandler handles contract API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *appcontract.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *appcontract.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// Create creates a new contract
func (h *ContractHandler) Create(c *gin.Context) {
	var req appcontract.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contract)
}

// GetByID retrieves a contract by ID
func (h *ContractHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.GetContractByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// List retrieves a paginated, filtered list of contracts
func (h *ContractHandler) List(c *gin.Context) {
	var filter appcontract.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contracts, total, err := h.contractService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// Update updates a draft contract
func (h *ContractHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req appcontract.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// Sign marks a draft contract as signed
func (h *ContractHandler) Sign(c *gin.Context) {
	h.transition(c, h.contractService.SignContract)
}

// Complete marks a signed contract as completed
func (h *ContractHandler) Complete(c *gin.Context) {
	h.transition(c, h.contractService.CompleteContract)
}

// Reconcile computes the payment reconciliation for a contract from
// its paid transactions
func (h *ContractHandler) Reconcile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	result, err := h.contractService.Reconcile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete deletes a draft contract
func (h *ContractHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	if err := h.contractService.DeleteContract(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ContractHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*appcontract.ContractResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}
