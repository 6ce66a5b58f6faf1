package contract

import (
	"context"
	"time"

	apptreasury "github.com/buildcore/backend/internal/application/treasury"
	"github.com/buildcore/backend/internal/domain/contract"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ContractService provides application-level contract operations,
// including the derived payment reconciliation read model.
type ContractService struct {
	contractRepo contract.ContractRepository
	txRepo       treasury.TransactionRepository
	reconciler   *contract.Reconciler
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo contract.ContractRepository,
	txRepo treasury.TransactionRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		contractRepo: contractRepo,
		txRepo:       txRepo,
		reconciler:   contract.NewReconciler(),
		publisher:    publisher,
		logger:       logger,
	}
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Status    string          `json:"status"`
	ProjectID uuid.UUID       `json:"project_id"`
	PartnerID uuid.UUID       `json:"partner_id"`
	SignedAt  *time.Time      `json:"signed_at,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// ReconciliationResponse is the derived payment state of a contract
type ReconciliationResponse struct {
	Contract            ContractResponse                  `json:"contract"`
	TotalPaid           decimal.Decimal                   `json:"total_paid"`
	PaidPercent         decimal.Decimal                   `json:"paid_percent"`
	Remaining           decimal.Decimal                   `json:"remaining"`
	Receivable          decimal.Decimal                   `json:"receivable"`
	IsOverBudget        bool                              `json:"is_over_budget"`
	RelatedTransactions []apptreasury.TransactionResponse `json:"related_transactions"`
}

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	Name      string          `json:"name" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	ProjectID uuid.UUID       `json:"project_id" binding:"required"`
	PartnerID uuid.UUID       `json:"partner_id" binding:"required"`
	Notes     string          `json:"notes"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// UpdateContractRequest represents a request to update a draft contract
type UpdateContractRequest struct {
	Name  string          `json:"name" binding:"required"`
	Value decimal.Decimal `json:"value" binding:"required"`
	Notes string          `json:"notes"`
}

// ContractListFilter defines filtering options for contract list queries
type ContractListFilter struct {
	Search    string     `form:"search"`
	Type      string     `form:"type"`
	Status    string     `form:"status"`
	ProjectID *uuid.UUID `form:"project_id"`
	PartnerID *uuid.UUID `form:"partner_id"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// CreateContract creates a new contract
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (*ContractResponse, error) {
	number, err := s.contractRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	c, err := contract.NewContract(
		number,
		req.Name,
		contract.ContractType(req.Type),
		valueobject.NewMoneyVND(req.Value),
		req.ProjectID,
		req.PartnerID,
	)
	if err != nil {
		return nil, err
	}
	c.Notes = req.Notes
	if req.CreatedBy != nil {
		c.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	return toContractResponse(c), nil
}

// GetContractByID gets a contract by ID
func (s *ContractService) GetContractByID(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

// UpdateContract updates a contract (only draft status)
func (s *ContractService) UpdateContract(ctx context.Context, id uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	c, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Update(req.Name, valueobject.NewMoneyVND(req.Value), req.Notes); err != nil {
		return nil, err
	}

	if err := s.contractRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	return toContractResponse(c), nil
}

// ListContracts lists contracts with filtering
func (s *ContractService) ListContracts(ctx context.Context, filter ContractListFilter) ([]ContractResponse, int64, error) {
	domainFilter := contract.ContractFilter{
		ProjectID: filter.ProjectID,
		PartnerID: filter.PartnerID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Type != "" {
		contractType := contract.ContractType(filter.Type)
		domainFilter.Type = &contractType
	}
	if filter.Status != "" {
		status := contract.ContractStatus(filter.Status)
		domainFilter.Status = &status
	}

	contracts, err := s.contractRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contractRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = *toContractResponse(&contracts[i])
	}

	return responses, total, nil
}

// SignContract marks a draft contract as signed
func (s *ContractService) SignContract(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	return s.transition(ctx, id, (*contract.Contract).Sign)
}

// CompleteContract marks a signed contract as completed
func (s *ContractService) CompleteContract(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	return s.transition(ctx, id, (*contract.Contract).Complete)
}

// Reconcile computes the payment progress of a contract against its
// linked transactions. Nothing is persisted; this is a read model.
func (s *ContractService) Reconcile(ctx context.Context, id uuid.UUID) (*ReconciliationResponse, error) {
	c, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.FindByContract(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.reconciler.Reconcile(c, transactions)

	related := make([]apptreasury.TransactionResponse, len(result.RelatedTransactions))
	for i := range result.RelatedTransactions {
		related[i] = *apptreasury.ToTransactionResponse(&result.RelatedTransactions[i])
	}

	return &ReconciliationResponse{
		Contract:            *toContractResponse(c),
		TotalPaid:           result.TotalPaid,
		PaidPercent:         result.PaidPercent,
		Remaining:           result.Remaining,
		Receivable:          result.Receivable(),
		IsOverBudget:        result.IsOverBudget,
		RelatedTransactions: related,
	}, nil
}

// DeleteContract deletes a draft contract
func (s *ContractService) DeleteContract(ctx context.Context, id uuid.UUID) error {
	c, err := s.findContract(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft contracts can be deleted")
	}
	return s.contractRepo.Delete(ctx, id)
}

func (s *ContractService) transition(ctx context.Context, id uuid.UUID, fn func(*contract.Contract) error) (*ContractResponse, error) {
	c, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	if err := s.contractRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	return toContractResponse(c), nil
}

func (s *ContractService) findContract(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	c, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Contract not found")
	}
	return c, nil
}

func (s *ContractService) publishEvents(ctx context.Context, c *contract.Contract) {
	if s.publisher == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish contract events",
			zap.String("contract_id", c.ID.String()),
			zap.Error(err))
	}
	c.ClearDomainEvents()
}

func toContractResponse(c *contract.Contract) *ContractResponse {
	return &ContractResponse{
		ID:        c.ID,
		Number:    c.Number,
		Name:      c.Name,
		Type:      c.Type.String(),
		Value:     c.Value,
		Status:    c.Status.String(),
		ProjectID: c.ProjectID,
		PartnerID: c.PartnerID,
		SignedAt:  c.SignedAt,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}
