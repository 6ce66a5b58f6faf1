package costplan

import (
	"context"
	"time"

	"github.com/buildcore/backend/internal/domain/contract"
	"github.com/buildcore/backend/internal/domain/costplan"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlanService manages cost targets and runs the tax-balance estimate
type PlanService struct {
	targetRepo   costplan.CostTargetRepository
	txRepo       treasury.TransactionRepository
	contractRepo contract.ContractRepository
	estimator    *costplan.Estimator
	logger       *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	targetRepo costplan.CostTargetRepository,
	txRepo treasury.TransactionRepository,
	contractRepo contract.ContractRepository,
	logger *zap.Logger,
) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		targetRepo:   targetRepo,
		txRepo:       txRepo,
		contractRepo: contractRepo,
		estimator:    costplan.NewEstimator(),
		logger:       logger,
	}
}

// CostTargetResponse represents a cost target in API responses
type CostTargetResponse struct {
	ID         uuid.UUID       `json:"id"`
	Label      string          `json:"label"`
	Percent    decimal.Decimal `json:"percent"`
	MappingKey string          `json:"mapping_key"`
	SortOrder  int             `json:"sort_order"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// CreateCostTargetRequest represents a request to create a cost target
type CreateCostTargetRequest struct {
	Label      string          `json:"label" binding:"required"`
	Percent    decimal.Decimal `json:"percent" binding:"required"`
	MappingKey string          `json:"mapping_key" binding:"required"`
	CreatedBy  *uuid.UUID      `json:"-"`
}

// UpdateCostTargetRequest represents a request to update a cost target
type UpdateCostTargetRequest struct {
	Label   string          `json:"label" binding:"required"`
	Percent decimal.Decimal `json:"percent" binding:"required"`
}

// EstimateRequest chooses the revenue base, period, and explicit
// confirmations for a tax-balance run. Nothing here is persisted; the
// estimate is recomputed per request.
type EstimateRequest struct {
	FromDate             time.Time       `json:"from_date" binding:"required"`
	ToDate               time.Time       `json:"to_date" binding:"required"`
	ContractIDs          []uuid.UUID     `json:"contract_ids"`
	IncomeTransactionIDs []uuid.UUID     `json:"income_transaction_ids"`
	ManualRevenue        decimal.Decimal `json:"manual_revenue"`
	ConfirmedLaborIDs    []uuid.UUID     `json:"confirmed_labor_ids"`
	ConfirmedInternalIDs []uuid.UUID     `json:"confirmed_internal_ids"`
}

// TargetLineResponse is one target's derived allocation state
type TargetLineResponse struct {
	TargetID        uuid.UUID       `json:"target_id"`
	Label           string          `json:"label"`
	MappingKey      string          `json:"mapping_key"`
	Percent         decimal.Decimal `json:"percent"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	MissingAmount   decimal.Decimal `json:"missing_amount"`
	AchievedPercent decimal.Decimal `json:"achieved_percent"`
}

// EstimateResponse is the full tax-balance projection
type EstimateResponse struct {
	TotalRevenue       decimal.Decimal      `json:"total_revenue"`
	Lines              []TargetLineResponse `json:"lines"`
	TotalTargetExpense decimal.Decimal      `json:"total_target_expense"`
	TotalActual        decimal.Decimal      `json:"total_actual"`
	TotalMissing       decimal.Decimal      `json:"total_missing"`
}

// CreateCostTarget creates a new cost target line
func (s *PlanService) CreateCostTarget(ctx context.Context, req CreateCostTargetRequest) (*CostTargetResponse, error) {
	key, ok := costplan.ParseMappingKey(req.MappingKey)
	if !ok {
		return nil, shared.NewDomainError("INVALID_MAPPING_KEY", "Mapping key is not valid")
	}

	target, err := costplan.NewCostTarget(req.Label, req.Percent, key)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		target.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.targetRepo.Save(ctx, target); err != nil {
		return nil, err
	}

	return toCostTargetResponse(target), nil
}

// UpdateCostTarget updates a cost target line
func (s *PlanService) UpdateCostTarget(ctx context.Context, id uuid.UUID, req UpdateCostTargetRequest) (*CostTargetResponse, error) {
	target, err := s.findTarget(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := target.Update(req.Label, req.Percent); err != nil {
		return nil, err
	}

	if err := s.targetRepo.SaveWithLock(ctx, target); err != nil {
		return nil, err
	}

	return toCostTargetResponse(target), nil
}

// ListCostTargets lists all cost target lines
func (s *PlanService) ListCostTargets(ctx context.Context) ([]CostTargetResponse, error) {
	targets, err := s.targetRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CostTargetResponse, len(targets))
	for i := range targets {
		responses[i] = *toCostTargetResponse(&targets[i])
	}
	return responses, nil
}

// DeleteCostTarget deletes a cost target line
func (s *PlanService) DeleteCostTarget(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTarget(ctx, id); err != nil {
		return err
	}
	return s.targetRepo.Delete(ctx, id)
}

// EstimateTaxBalance assembles the revenue base and runs the
// allocation estimate over the period's expense transactions.
func (s *PlanService) EstimateTaxBalance(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	if req.ToDate.Before(req.FromDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period end must not precede period start")
	}

	totalRevenue, err := s.assembleRevenueBase(ctx, req)
	if err != nil {
		return nil, err
	}

	targets, err := s.targetRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	expenseType := treasury.TransactionTypeExpense
	expenses, err := s.txRepo.FindAll(ctx, treasury.TransactionFilter{
		Type:     &expenseType,
		FromDate: &req.FromDate,
		ToDate:   &req.ToDate,
	})
	if err != nil {
		return nil, err
	}

	confirmed := costplan.NewConfirmationSet()
	for _, id := range req.ConfirmedLaborIDs {
		confirmed.ConfirmLabor(id)
	}
	for _, id := range req.ConfirmedInternalIDs {
		confirmed.ConfirmInternal(id)
	}

	estimate := s.estimator.Estimate(totalRevenue, targets, expenses, confirmed)

	lines := make([]TargetLineResponse, len(estimate.Lines))
	for i, line := range estimate.Lines {
		lines[i] = TargetLineResponse{
			TargetID:        line.TargetID,
			Label:           line.Label,
			MappingKey:      line.MappingKey.String(),
			Percent:         line.Percent,
			TargetAmount:    line.TargetAmount,
			ActualAmount:    line.ActualAmount,
			MissingAmount:   line.MissingAmount,
			AchievedPercent: line.AchievedPercent,
		}
	}

	return &EstimateResponse{
		TotalRevenue:       estimate.TotalRevenue,
		Lines:              lines,
		TotalTargetExpense: estimate.TotalTargetExpense,
		TotalActual:        estimate.TotalActual,
		TotalMissing:       estimate.TotalMissing,
	}, nil
}

// assembleRevenueBase sums the chosen contract values, the chosen
// income transactions, and the manually entered amount. Missing
// selections are skipped rather than failing the estimate.
func (s *PlanService) assembleRevenueBase(ctx context.Context, req EstimateRequest) (decimal.Decimal, error) {
	total := req.ManualRevenue

	for _, id := range req.ContractIDs {
		c, err := s.contractRepo.FindByID(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		if c == nil {
			s.logger.Warn("Revenue base references a missing contract", zap.String("contract_id", id.String()))
			continue
		}
		total = total.Add(c.Value)
	}

	for _, id := range req.IncomeTransactionIDs {
		tx, err := s.txRepo.FindByID(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}
		if tx == nil || tx.Type != treasury.TransactionTypeIncome {
			s.logger.Warn("Revenue base references a missing or non-income transaction", zap.String("transaction_id", id.String()))
			continue
		}
		total = total.Add(tx.Amount)
	}

	return total, nil
}

func (s *PlanService) findTarget(ctx context.Context, id uuid.UUID) (*costplan.CostTarget, error) {
	target, err := s.targetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cost target not found")
	}
	return target, nil
}

func toCostTargetResponse(target *costplan.CostTarget) *CostTargetResponse {
	return &CostTargetResponse{
		ID:         target.ID,
		Label:      target.Label,
		Percent:    target.Percent,
		MappingKey: target.MappingKey.String(),
		SortOrder:  target.SortOrder,
		CreatedAt:  target.CreatedAt,
		UpdatedAt:  target.UpdatedAt,
		Version:    target.Version,
	}
}
