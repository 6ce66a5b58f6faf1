package treasury

import (
	"context"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionFilter defines filtering options for transaction queries
type TransactionFilter struct {
	shared.Filter
	Type       *TransactionType
	Status     *TransactionStatus
	Scope      *TransactionScope
	ProjectID  *uuid.UUID
	PartnerID  *uuid.UUID
	ContractID *uuid.UUID
	AccountID  *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionRepository persists transactions
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByNumber(ctx context.Context, number string) (*Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]Transaction, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]Transaction, error)
	FindPaid(ctx context.Context) ([]Transaction, error)
	FindPaidInPeriod(ctx context.Context, from, to time.Time) ([]Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
	Save(ctx context.Context, tx *Transaction) error
	SaveWithLock(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateNumber(ctx context.Context, txType TransactionType) (string, error)
}

// CashAccountRepository persists cash accounts
type CashAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CashAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CashAccount, error)
	FindActive(ctx context.Context) ([]CashAccount, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, account *CashAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
}
