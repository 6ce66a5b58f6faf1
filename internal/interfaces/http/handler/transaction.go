package handler

import (
	apptreasury "github.com/buildcore/backend/internal/application/treasury"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles treasury transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	txService *apptreasury.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(txService *apptreasury.TransactionService) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// RejectTransactionRequest carries the mandatory rejection reason
type RejectTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SettleTransactionRequest selects the cash account for payment or
// income confirmation
type SettleTransactionRequest struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
}

// Create creates a new transaction, optionally submitting it in the
// same request via submit_now.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req apptreasury.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	tx, err := h.txService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// GetByID retrieves a transaction by ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	tx, err := h.txService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// List retrieves a paginated, filtered list of transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var filter apptreasury.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	transactions, total, err := h.txService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// Update updates a draft transaction
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	var req apptreasury.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.txService.UpdateTransaction(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Delete deletes a draft transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.txService.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft transaction into the approval queue
func (h *TransactionHandler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tx, err := h.txService.SubmitTransaction(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Approve approves a submitted transaction
func (h *TransactionHandler) Approve(c *gin.Context) {
	id, actor, ok := h.commandContext(c)
	if !ok {
		return
	}

	tx, err := h.txService.ApproveTransaction(c.Request.Context(), id, actor, getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Reject rejects a submitted transaction with a reason
func (h *TransactionHandler) Reject(c *gin.Context) {
	id, actor, ok := h.commandContext(c)
	if !ok {
		return
	}

	var req RejectTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.txService.RejectTransaction(c.Request.Context(), id, actor, req.Reason, getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Pay marks an approved expense transaction as paid from a cash account
func (h *TransactionHandler) Pay(c *gin.Context) {
	id, actor, ok := h.commandContext(c)
	if !ok {
		return
	}

	var req SettleTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.txService.PayTransaction(c.Request.Context(), id, actor, req.AccountID, getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Confirm records receipt of an approved income transaction into a
// cash account
func (h *TransactionHandler) Confirm(c *gin.Context) {
	id, actor, ok := h.commandContext(c)
	if !ok {
		return
	}

	var req SettleTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.txService.ConfirmIncomeTransaction(c.Request.Context(), id, actor, req.AccountID, getIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// commandContext parses the path ID and builds the acting user from
// JWT claims. Writes the error response itself when either fails.
func (h *TransactionHandler) commandContext(c *gin.Context) (uuid.UUID, treasury.Actor, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return uuid.Nil, treasury.Actor{}, false
	}

	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, treasury.Actor{}, false
	}

	actor, err := claims.ToActor()
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, treasury.Actor{}, false
	}

	return id, actor, true
}
