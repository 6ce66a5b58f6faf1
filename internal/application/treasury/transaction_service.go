package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionService provides application-level transaction lifecycle operations
type TransactionService struct {
	txRepo      treasury.TransactionRepository
	accountRepo treasury.CashAccountRepository
	publisher   shared.EventPublisher
	idempotency shared.IdempotencyStore
	idemCfg     shared.IdempotencyConfig
	logger      *zap.Logger
}

// TransactionServiceConfig holds the dependencies of TransactionService
type TransactionServiceConfig struct {
	TxRepo      treasury.TransactionRepository
	AccountRepo treasury.CashAccountRepository
	Publisher   shared.EventPublisher
	Idempotency shared.IdempotencyStore
	IdemConfig  *shared.IdempotencyConfig
	Logger      *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(cfg TransactionServiceConfig) *TransactionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	idemCfg := shared.DefaultIdempotencyConfig()
	if cfg.IdemConfig != nil {
		idemCfg = *cfg.IdemConfig
	}
	return &TransactionService{
		txRepo:      cfg.TxRepo,
		accountRepo: cfg.AccountRepo,
		publisher:   cfg.Publisher,
		idempotency: cfg.Idempotency,
		idemCfg:     idemCfg,
		logger:      logger,
	}
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Date            time.Time       `json:"date"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	Scope           string          `json:"scope"`
	CostCenter      string          `json:"cost_center,omitempty"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	TargetAccountID *uuid.UUID      `json:"target_account_id,omitempty"`
	ProjectID       *uuid.UUID      `json:"project_id,omitempty"`
	PartnerID       *uuid.UUID      `json:"partner_id,omitempty"`
	EmployeeID      *uuid.UUID      `json:"employee_id,omitempty"`
	ContractID      *uuid.UUID      `json:"contract_id,omitempty"`
	HasVATInvoice   bool            `json:"has_vat_invoice"`
	IsMaterialCost  bool            `json:"is_material_cost"`
	IsLaborCost     bool            `json:"is_labor_cost"`
	MappingOverride string          `json:"mapping_override,omitempty"`
	AttachmentURLs  string          `json:"attachment_urls,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	SubmittedBy     *uuid.UUID      `json:"submitted_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy      *uuid.UUID      `json:"rejected_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	ConfirmedBy     *uuid.UUID      `json:"confirmed_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateTransactionRequest represents a request to create a transaction
type CreateTransactionRequest struct {
	Date            time.Time       `json:"date" binding:"required"`
	Type            string          `json:"type" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Scope           string          `json:"scope" binding:"required"`
	CostCenter      string          `json:"cost_center"`
	Category        string          `json:"category" binding:"required"`
	Description     string          `json:"description"`
	ProjectID       *uuid.UUID      `json:"project_id"`
	PartnerID       *uuid.UUID      `json:"partner_id"`
	EmployeeID      *uuid.UUID      `json:"employee_id"`
	ContractID      *uuid.UUID      `json:"contract_id"`
	HasVATInvoice   bool            `json:"has_vat_invoice"`
	IsMaterialCost  bool            `json:"is_material_cost"`
	IsLaborCost     bool            `json:"is_labor_cost"`
	MappingOverride string          `json:"mapping_override"`
	AttachmentURLs  string          `json:"attachment_urls"`
	SubmitNow       bool            `json:"submit_now"`
	CreatedBy       *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// UpdateTransactionRequest represents a request to update a draft transaction
type UpdateTransactionRequest struct {
	Date            time.Time       `json:"date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Scope           string          `json:"scope" binding:"required"`
	CostCenter      string          `json:"cost_center"`
	Category        string          `json:"category" binding:"required"`
	Description     string          `json:"description"`
	HasVATInvoice   bool            `json:"has_vat_invoice"`
	IsMaterialCost  bool            `json:"is_material_cost"`
	IsLaborCost     bool            `json:"is_labor_cost"`
	MappingOverride string          `json:"mapping_override"`
	AttachmentURLs  string          `json:"attachment_urls"`
}

// TransactionListFilter defines filtering options for transaction list queries
type TransactionListFilter struct {
	Search     string     `form:"search"`
	Type       string     `form:"type"`
	Status     string     `form:"status"`
	Scope      string     `form:"scope"`
	ProjectID  *uuid.UUID `form:"project_id"`
	PartnerID  *uuid.UUID `form:"partner_id"`
	ContractID *uuid.UUID `form:"contract_id"`
	AccountID  *uuid.UUID `form:"account_id"`
	FromDate   *time.Time `form:"from_date"`
	ToDate     *time.Time `form:"to_date"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// CreateTransaction creates a new transaction, optionally submitting it
// for approval in the same command.
func (s *TransactionService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	txType := treasury.TransactionType(req.Type)
	number, err := s.txRepo.GenerateNumber(ctx, txType)
	if err != nil {
		return nil, err
	}

	tx, err := treasury.NewTransaction(
		number,
		req.Date,
		txType,
		valueobject.NewMoneyVND(req.Amount),
		treasury.TransactionScope(req.Scope),
		req.Category,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.SetAssociations(req.ProjectID, req.PartnerID, req.EmployeeID, req.ContractID); err != nil {
		return nil, err
	}
	if err := tx.SetCostFlags(req.HasVATInvoice, req.IsMaterialCost, req.IsLaborCost, treasury.CostCenterType(req.CostCenter)); err != nil {
		return nil, err
	}
	if req.MappingOverride != "" {
		tx.SetMappingOverride(req.MappingOverride)
	}
	if req.AttachmentURLs != "" {
		tx.SetAttachmentURLs(req.AttachmentURLs)
	}
	if req.CreatedBy != nil {
		tx.SetCreatedBy(*req.CreatedBy)
	}

	if req.SubmitNow {
		if req.CreatedBy == nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Submitter is required to submit on create")
		}
		if err := tx.Submit(*req.CreatedBy); err != nil {
			return nil, err
		}
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// GetTransactionByID gets a transaction by ID
func (s *TransactionService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// UpdateTransaction updates a transaction (only draft status)
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Update(
		req.Date,
		valueobject.NewMoneyVND(req.Amount),
		treasury.TransactionScope(req.Scope),
		req.Category,
		req.Description,
	); err != nil {
		return nil, err
	}
	if err := tx.SetCostFlags(req.HasVATInvoice, req.IsMaterialCost, req.IsLaborCost, treasury.CostCenterType(req.CostCenter)); err != nil {
		return nil, err
	}
	tx.SetMappingOverride(req.MappingOverride)
	tx.SetAttachmentURLs(req.AttachmentURLs)

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	return toTransactionResponse(tx), nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := treasury.TransactionFilter{
		ProjectID:  filter.ProjectID,
		PartnerID:  filter.PartnerID,
		ContractID: filter.ContractID,
		AccountID:  filter.AccountID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Type != "" {
		txType := treasury.TransactionType(filter.Type)
		domainFilter.Type = &txType
	}
	if filter.Status != "" {
		status := treasury.TransactionStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Scope != "" {
		scope := treasury.TransactionScope(filter.Scope)
		domainFilter.Scope = &scope
	}

	transactions, err := s.txRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.txRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *toTransactionResponse(&transactions[i])
	}

	return responses, total, nil
}

// SubmitTransaction submits a draft transaction for approval
func (s *TransactionService) SubmitTransaction(ctx context.Context, id, userID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Submit(userID); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// ApproveTransaction approves a submitted transaction.
// A repeated call with the same idempotency key returns the current
// state without re-applying the transition.
func (s *TransactionService) ApproveTransaction(ctx context.Context, id uuid.UUID, actor treasury.Actor, idempotencyKey string) (*TransactionResponse, error) {
	if replayed, resp, err := s.checkIdempotency(ctx, "approve", id, idempotencyKey); replayed || err != nil {
		return resp, err
	}

	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Approve(actor); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// RejectTransaction rejects a submitted transaction with a reason
func (s *TransactionService) RejectTransaction(ctx context.Context, id uuid.UUID, actor treasury.Actor, reason, idempotencyKey string) (*TransactionResponse, error) {
	if replayed, resp, err := s.checkIdempotency(ctx, "reject", id, idempotencyKey); replayed || err != nil {
		return resp, err
	}

	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Reject(actor, reason); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// PayTransaction pays an approved expense from a cash account
func (s *TransactionService) PayTransaction(ctx context.Context, id uuid.UUID, actor treasury.Actor, accountID uuid.UUID, idempotencyKey string) (*TransactionResponse, error) {
	if replayed, resp, err := s.checkIdempotency(ctx, "pay", id, idempotencyKey); replayed || err != nil {
		return resp, err
	}

	if err := s.requireActiveAccount(ctx, accountID); err != nil {
		return nil, err
	}

	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Pay(actor, accountID); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// ConfirmIncomeTransaction confirms collection of an income into a cash account
func (s *TransactionService) ConfirmIncomeTransaction(ctx context.Context, id uuid.UUID, actor treasury.Actor, accountID uuid.UUID, idempotencyKey string) (*TransactionResponse, error) {
	if replayed, resp, err := s.checkIdempotency(ctx, "confirm-income", id, idempotencyKey); replayed || err != nil {
		return resp, err
	}

	if err := s.requireActiveAccount(ctx, accountID); err != nil {
		return nil, err
	}

	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.ConfirmIncome(actor, accountID); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return toTransactionResponse(tx), nil
}

// DeleteTransaction deletes a draft transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return err
	}
	if !tx.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft transactions can be deleted")
	}
	return s.txRepo.Delete(ctx, id)
}

func (s *TransactionService) findTransaction(ctx context.Context, id uuid.UUID) (*treasury.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
	}
	return tx, nil
}

// requireActiveAccount rejects payment into an unknown or closed account
func (s *TransactionService) requireActiveAccount(ctx context.Context, accountID uuid.UUID) error {
	if accountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Target account is required")
	}
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return shared.NewDomainError("NOT_FOUND", "Cash account not found")
	}
	if !account.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Cash account is closed")
	}
	return nil
}

// checkIdempotency marks the command key as processed. On a replayed
// key it returns the current transaction state instead of re-running
// the command.
func (s *TransactionService) checkIdempotency(ctx context.Context, command string, id uuid.UUID, key string) (bool, *TransactionResponse, error) {
	if key == "" || s.idempotency == nil || !s.idemCfg.Enabled {
		return false, nil, nil
	}

	storeKey := fmt.Sprintf("txn:%s:%s:%s", command, id, key)
	newlyMarked, err := s.idempotency.MarkProcessed(ctx, storeKey, s.idemCfg.TTL)
	if err != nil {
		// The store being down must not block the command path.
		s.logger.Warn("Idempotency store unavailable, proceeding without replay protection",
			zap.String("command", command),
			zap.Error(err))
		return false, nil, nil
	}
	if newlyMarked {
		return false, nil, nil
	}

	s.logger.Info("Idempotent replay detected, returning current state",
		zap.String("command", command),
		zap.String("transaction_id", id.String()))

	tx, err := s.findTransaction(ctx, id)
	if err != nil {
		return true, nil, err
	}
	return true, toTransactionResponse(tx), nil
}

// publishEvents publishes pending domain events. Event delivery is
// best-effort; persistence has already succeeded.
func (s *TransactionService) publishEvents(ctx context.Context, tx *treasury.Transaction) {
	if s.publisher == nil {
		return
	}
	events := tx.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish transaction events",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err))
	}
	tx.ClearDomainEvents()
}

// ToTransactionResponse converts a transaction aggregate to its API shape.
// Exported for read models in other application packages that embed
// transaction lists.
func ToTransactionResponse(tx *treasury.Transaction) *TransactionResponse {
	return toTransactionResponse(tx)
}

func toTransactionResponse(tx *treasury.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              tx.ID,
		Number:          tx.Number,
		Date:            tx.Date,
		Type:            tx.Type.String(),
		Amount:          tx.Amount,
		Status:          tx.Status.String(),
		Scope:           string(tx.Scope),
		CostCenter:      string(tx.CostCenter),
		Category:        tx.Category,
		Description:     tx.Description,
		TargetAccountID: tx.TargetAccountID,
		ProjectID:       tx.ProjectID,
		PartnerID:       tx.PartnerID,
		EmployeeID:      tx.EmployeeID,
		ContractID:      tx.ContractID,
		HasVATInvoice:   tx.HasVATInvoice,
		IsMaterialCost:  tx.IsMaterialCost,
		IsLaborCost:     tx.IsLaborCost,
		MappingOverride: tx.MappingOverride,
		AttachmentURLs:  tx.AttachmentURLs,
		SubmittedAt:     tx.SubmittedAt,
		SubmittedBy:     tx.SubmittedBy,
		ApprovedAt:      tx.ApprovedAt,
		ApprovedBy:      tx.ApprovedBy,
		RejectedAt:      tx.RejectedAt,
		RejectedBy:      tx.RejectedBy,
		RejectionReason: tx.RejectionReason,
		ConfirmedAt:     tx.ConfirmedAt,
		ConfirmedBy:     tx.ConfirmedBy,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
		Version:         tx.Version,
	}
}
