package treasury

import (
	"context"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService provides application-level cash account operations.
// Balances are never stored; every read recomputes them from the
// initial balance and the PAID transaction set.
type AccountService struct {
	accountRepo treasury.CashAccountRepository
	txRepo      treasury.TransactionRepository
	calculator  *treasury.BalanceCalculator
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo treasury.CashAccountRepository, txRepo treasury.TransactionRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		calculator:  treasury.NewBalanceCalculator(),
	}
}

// CashAccountResponse represents a cash account in API responses
type CashAccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	BankName       string          `json:"bank_name,omitempty"`
	AccountName    string          `json:"account_name"`
	AccountNumber  string          `json:"account_number,omitempty"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateAccountRequest represents a request to create a cash account
type CreateAccountRequest struct {
	BankName       string          `json:"bank_name"`
	AccountName    string          `json:"account_name" binding:"required"`
	AccountNumber  string          `json:"account_number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Type           string          `json:"type" binding:"required"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdateAccountRequest represents a request to rename a cash account
type UpdateAccountRequest struct {
	BankName    string `json:"bank_name"`
	AccountName string `json:"account_name" binding:"required"`
}

// CreateAccount creates a new cash account
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*CashAccountResponse, error) {
	account, err := treasury.NewCashAccount(
		req.BankName,
		req.AccountName,
		req.AccountNumber,
		valueobject.NewMoneyVND(req.InitialBalance),
		treasury.AccountType(req.Type),
	)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return s.toResponseWithBalance(ctx, account)
}

// GetAccountByID gets a cash account with its derived balance
func (s *AccountService) GetAccountByID(ctx context.Context, id uuid.UUID) (*CashAccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponseWithBalance(ctx, account)
}

// UpdateAccount renames a cash account
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*CashAccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Rename(req.BankName, req.AccountName); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return s.toResponseWithBalance(ctx, account)
}

// CloseAccount closes a cash account
func (s *AccountService) CloseAccount(ctx context.Context, id uuid.UUID) (*CashAccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Close(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	return s.toResponseWithBalance(ctx, account)
}

// ListAccounts lists all accounts with their derived balances.
// Balances for the whole list are computed in one pass over the PAID
// transaction set.
func (s *AccountService) ListAccounts(ctx context.Context, filter shared.Filter) ([]CashAccountResponse, int64, error) {
	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accountRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	transactions, err := s.txRepo.FindPaid(ctx)
	if err != nil {
		return nil, 0, err
	}

	balances := s.calculator.Balances(accounts, transactions)

	responses := make([]CashAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toAccountResponse(&accounts[i], balances[accounts[i].ID])
	}

	return responses, total, nil
}

func (s *AccountService) findAccount(ctx context.Context, id uuid.UUID) (*treasury.CashAccount, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cash account not found")
	}
	return account, nil
}

func (s *AccountService) toResponseWithBalance(ctx context.Context, account *treasury.CashAccount) (*CashAccountResponse, error) {
	transactions, err := s.txRepo.FindByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	balance := s.calculator.Balance(account, transactions)
	return toAccountResponse(account, balance), nil
}

func toAccountResponse(account *treasury.CashAccount, balance decimal.Decimal) *CashAccountResponse {
	return &CashAccountResponse{
		ID:             account.ID,
		BankName:       account.BankName,
		AccountName:    account.AccountName,
		AccountNumber:  account.AccountNumber,
		InitialBalance: account.InitialBalance,
		Balance:        balance,
		Type:           string(account.Type),
		Status:         string(account.Status),
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}
