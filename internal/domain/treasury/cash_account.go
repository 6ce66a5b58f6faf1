package treasury

import (
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of cash account
type AccountType string

const (
	AccountTypeCash AccountType = "CASH" // Physical cash drawer
	AccountTypeBank AccountType = "BANK" // Bank account
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	return t == AccountTypeCash || t == AccountTypeBank
}

// AccountStatus represents the status of a cash account
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// CashAccount represents a named pool of money.
// Its balance is never stored: it is always derived from the initial
// balance plus the PAID transactions targeting it.
type CashAccount struct {
	shared.AuditedAggregateRoot
	BankName       string
	AccountName    string
	AccountNumber  string
	InitialBalance decimal.Decimal
	Type           AccountType
	Status         AccountStatus
}

// NewCashAccount creates a new active cash account
func NewCashAccount(bankName, accountName, accountNumber string, initialBalance valueobject.Money, accountType AccountType) (*CashAccount, error) {
	if accountName == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	if accountType == AccountTypeBank && bankName == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name is required for bank accounts")
	}

	return &CashAccount{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		BankName:             bankName,
		AccountName:          accountName,
		AccountNumber:        accountNumber,
		InitialBalance:       initialBalance.Amount(),
		Type:                 accountType,
		Status:               AccountStatusActive,
	}, nil
}

// Rename updates the display names of the account
func (a *CashAccount) Rename(bankName, accountName string) error {
	if accountName == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	a.BankName = bankName
	a.AccountName = accountName
	a.IncrementVersion()
	return nil
}

// Close closes the account so it no longer accepts payments
func (a *CashAccount) Close() error {
	if a.Status == AccountStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Account is already closed")
	}
	a.Status = AccountStatusClosed
	a.IncrementVersion()
	return nil
}

// IsActive returns true if the account accepts payments
func (a *CashAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// GetInitialBalanceMoney returns the initial balance as Money
func (a *CashAccount) GetInitialBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyVND(a.InitialBalance)
}
