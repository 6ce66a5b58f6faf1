package contract

import (
	"testing"
	"time"

	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedTransaction(t *testing.T, contractID uuid.UUID, txType treasury.TransactionType, amount int64, paid bool) treasury.Transaction {
	tx, err := treasury.NewTransaction(
		"TXN-"+uuid.NewString()[:8],
		time.Now(),
		txType,
		valueobject.NewMoneyVNDFromInt(amount),
		treasury.ScopeProject,
		"Hợp đồng",
		"",
	)
	require.NoError(t, err)
	require.NoError(t, tx.SetAssociations(nil, nil, nil, &contractID))
	require.NoError(t, tx.Submit(uuid.New()))
	if paid {
		actor := treasury.NewActor(uuid.New(), treasury.PermApprove, treasury.PermPay)
		if txType == treasury.TransactionTypeIncome {
			require.NoError(t, tx.ConfirmIncome(actor, uuid.New()))
		} else {
			require.NoError(t, tx.Approve(actor))
			require.NoError(t, tx.Pay(actor, uuid.New()))
		}
	}
	return *tx
}

func TestReconciler_RevenueContract(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeRevenue, 100_000_000)

	transactions := []treasury.Transaction{
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 30_000_000, true),
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 20_000_000, true),
	}

	result := r.Reconcile(c, transactions)

	assert.True(t, decimal.NewFromInt(50_000_000).Equal(result.TotalPaid))
	assert.True(t, decimal.NewFromInt(50).Equal(result.PaidPercent))
	assert.True(t, decimal.NewFromInt(50_000_000).Equal(result.Remaining))
	assert.False(t, result.IsOverBudget)
	assert.Len(t, result.RelatedTransactions, 2)
}

func TestReconciler_ExpenseContract_OverBudget(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeSupplierMaterial, 10_000_000)

	transactions := []treasury.Transaction{
		linkedTransaction(t, c.ID, treasury.TransactionTypeExpense, 12_000_000, true),
	}

	result := r.Reconcile(c, transactions)

	assert.True(t, result.IsOverBudget)
	assert.True(t, decimal.NewFromInt(-2_000_000).Equal(result.Remaining))
	assert.True(t, decimal.NewFromInt(12_000_000).Equal(result.TotalPaid))
}

// Over-collection on a revenue contract is not flagged; only expense
// contracts carry the over-budget signal.
func TestReconciler_RevenueContract_NoOverBudgetFlag(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeRevenue, 10_000_000)

	transactions := []treasury.Transaction{
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 15_000_000, true),
	}

	result := r.Reconcile(c, transactions)

	assert.False(t, result.IsOverBudget)
	assert.True(t, decimal.NewFromInt(-5_000_000).Equal(result.Remaining))
	assert.True(t, decimal.NewFromInt(-5_000_000).Equal(result.Receivable()))
}

func TestReconciler_ZeroValueContract(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeRevenue, 0)

	transactions := []treasury.Transaction{
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 5_000_000, true),
	}

	result := r.Reconcile(c, transactions)

	assert.True(t, result.PaidPercent.IsZero(), "zero-value contract must not divide")
	assert.True(t, decimal.NewFromInt(-5_000_000).Equal(result.Remaining))
}

func TestReconciler_IgnoresUnrelatedAndUnpaid(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeLabor, 20_000_000)
	other := createTestContract(t, ContractTypeLabor, 20_000_000)

	transactions := []treasury.Transaction{
		// counts
		linkedTransaction(t, c.ID, treasury.TransactionTypeExpense, 5_000_000, true),
		// wrong direction for a labor contract
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 99_000_000, true),
		// other contract
		linkedTransaction(t, other.ID, treasury.TransactionTypeExpense, 3_000_000, true),
		// related but not yet paid: listed, not summed
		linkedTransaction(t, c.ID, treasury.TransactionTypeExpense, 2_000_000, false),
	}

	result := r.Reconcile(c, transactions)

	assert.True(t, decimal.NewFromInt(5_000_000).Equal(result.TotalPaid))
	assert.Len(t, result.RelatedTransactions, 2)
	assert.True(t, decimal.NewFromInt(15_000_000).Equal(result.Remaining))
}

func TestReconciler_Idempotent(t *testing.T) {
	r := NewReconciler()
	c := createTestContract(t, ContractTypeRevenue, 100_000_000)

	transactions := []treasury.Transaction{
		linkedTransaction(t, c.ID, treasury.TransactionTypeIncome, 30_000_000, true),
	}

	first := r.Reconcile(c, transactions)
	second := r.Reconcile(c, transactions)

	assert.True(t, first.TotalPaid.Equal(second.TotalPaid))
	assert.True(t, first.PaidPercent.Equal(second.PaidPercent))
	assert.True(t, first.Remaining.Equal(second.Remaining))
	assert.Equal(t, first.IsOverBudget, second.IsOverBudget)
}

func TestContractType_Direction(t *testing.T) {
	assert.Equal(t, treasury.TransactionTypeIncome, direction(ContractTypeRevenue))
	assert.Equal(t, treasury.TransactionTypeExpense, direction(ContractTypeSupplierMaterial))
	assert.Equal(t, treasury.TransactionTypeExpense, direction(ContractTypeLabor))
	assert.Equal(t, treasury.TransactionTypeExpense, direction(ContractTypeSubContract))
}
