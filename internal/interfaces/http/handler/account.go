package handler

import (
	apptreasury "github.com/buildcore/backend/internal/application/treasury"
	"github.com/buildcore/backend/internal/interfaces/http/dto"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles cash account API endpoints
type AccountHandler struct {
	BaseHandler
	accountService *apptreasury.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *apptreasury.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create creates a new cash account
func (h *AccountHandler) Create(c *gin.Context) {
	var req apptreasury.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID retrieves a cash account with its derived balance
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List retrieves a paginated list of cash accounts with balances
func (h *AccountHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := toFilter(req)

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// Update renames a cash account
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var req apptreasury.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Close closes a cash account so it no longer accepts settlements
func (h *AccountHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.accountService.CloseAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}
