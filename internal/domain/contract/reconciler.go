package contract

import (
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

// Reconciliation is the derived payment state of a contract against its
// linked transactions. It is a read model; nothing here is persisted.
type Reconciliation struct {
	ContractID          string
	TotalPaid           decimal.Decimal
	PaidPercent         decimal.Decimal
	Remaining           decimal.Decimal
	IsOverBudget        bool
	RelatedTransactions []treasury.Transaction
}

// Receivable returns the amount still owed to the company. It is the
// same value as Remaining; the two accessors exist because revenue
// contracts are read as "receivable" and expense contracts as
// "remaining to pay".
func (r *Reconciliation) Receivable() decimal.Decimal {
	return r.Remaining
}

// Reconciler matches transactions to a contract and derives payment
// progress. It is a pure domain service; callers pass the transaction
// set and get a value back.
type Reconciler struct{}

// NewReconciler creates a new reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// direction returns the transaction direction that counts toward a
// contract: income for revenue contracts, expense for all others.
func direction(contractType ContractType) treasury.TransactionType {
	if contractType.IsRevenue() {
		return treasury.TransactionTypeIncome
	}
	return treasury.TransactionTypeExpense
}

// Reconcile computes the payment progress of a contract.
// Only PAID transactions of the matching direction count. Remaining may
// go negative; over-budget is flagged for expense contracts only, an
// over-collected revenue contract is not an error in this domain.
func (r *Reconciler) Reconcile(c *Contract, transactions []treasury.Transaction) Reconciliation {
	dir := direction(c.Type)

	related := make([]treasury.Transaction, 0)
	totalPaid := decimal.Zero
	for i := range transactions {
		t := &transactions[i]
		if t.ContractID == nil || *t.ContractID != c.ID {
			continue
		}
		if t.Type != dir {
			continue
		}
		related = append(related, *t)
		if t.Status == treasury.TransactionStatusPaid {
			totalPaid = totalPaid.Add(t.Amount)
		}
	}

	paidPercent := decimal.Zero
	if c.Value.GreaterThan(decimal.Zero) {
		paidPercent = totalPaid.Div(c.Value).Mul(decimal.NewFromInt(100))
	}

	remaining := c.Value.Sub(totalPaid)
	overBudget := dir == treasury.TransactionTypeExpense && totalPaid.GreaterThan(c.Value)

	return Reconciliation{
		ContractID:          c.ID.String(),
		TotalPaid:           totalPaid,
		PaidPercent:         paidPercent,
		Remaining:           remaining,
		IsOverBudget:        overBudget,
		RelatedTransactions: related,
	}
}
