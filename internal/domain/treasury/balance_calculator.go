package treasury

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceCalculator derives cash account balances from PAID transactions.
// It is a pure domain service: the balance of an account is always
// initialBalance + Σ signed amounts of PAID transactions targeting it.
// Summation is commutative, so transaction ordering does not matter.
type BalanceCalculator struct{}

// NewBalanceCalculator creates a new BalanceCalculator
func NewBalanceCalculator() *BalanceCalculator {
	return &BalanceCalculator{}
}

// Balance computes the derived balance of a single account.
// Transactions that are not PAID, or that target other accounts, are ignored.
func (c *BalanceCalculator) Balance(account *CashAccount, transactions []Transaction) decimal.Decimal {
	balance := account.InitialBalance
	for i := range transactions {
		t := &transactions[i]
		if t.Status != TransactionStatusPaid {
			continue
		}
		if t.TargetAccountID == nil || *t.TargetAccountID != account.ID {
			continue
		}
		balance = balance.Add(t.SignedAmount())
	}
	return balance
}

// Balances computes derived balances for a set of accounts in one pass
func (c *BalanceCalculator) Balances(accounts []CashAccount, transactions []Transaction) map[uuid.UUID]decimal.Decimal {
	balances := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for i := range accounts {
		balances[accounts[i].ID] = accounts[i].InitialBalance
	}
	for i := range transactions {
		t := &transactions[i]
		if t.Status != TransactionStatusPaid || t.TargetAccountID == nil {
			continue
		}
		current, ok := balances[*t.TargetAccountID]
		if !ok {
			continue
		}
		balances[*t.TargetAccountID] = current.Add(t.SignedAmount())
	}
	return balances
}
