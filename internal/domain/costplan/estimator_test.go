package costplan

import (
	"testing"

	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func materialTarget(t *testing.T, percent int64) CostTarget {
	target, err := NewCostTarget("Vật tư", decimal.NewFromInt(percent), MappingMaterial)
	require.NoError(t, err)
	return *target
}

func laborTarget(t *testing.T, percent int64) CostTarget {
	target, err := NewCostTarget("Nhân công", decimal.NewFromInt(percent), MappingLabor)
	require.NoError(t, err)
	return *target
}

func confirmedExpense(t *testing.T, spec expenseSpec, amount int64) treasury.Transaction {
	tx := buildExpense(t, spec)
	require.NoError(t, tx.Update(tx.Date, mustMoney(amount), tx.Scope, tx.Category, tx.Description))
	require.NoError(t, tx.SetCostFlags(true, spec.material, spec.labor, spec.costCenter))
	return *tx
}

func unconfirmedExpense(t *testing.T, spec expenseSpec, amount int64) treasury.Transaction {
	tx := buildExpense(t, spec)
	require.NoError(t, tx.Update(tx.Date, mustMoney(amount), tx.Scope, tx.Category, tx.Description))
	return *tx
}

func TestEstimator_MaterialGap(t *testing.T) {
	e := NewEstimator()
	revenue := decimal.NewFromInt(100_000_000)
	targets := []CostTarget{materialTarget(t, 60)}

	transactions := []treasury.Transaction{
		confirmedExpense(t, expenseSpec{category: "Xi măng", material: true}, 25_000_000),
		confirmedExpense(t, expenseSpec{category: "Thép", material: true}, 15_000_000),
	}

	result := e.Estimate(revenue, targets, transactions, NewConfirmationSet())

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.True(t, decimal.NewFromInt(60_000_000).Equal(line.TargetAmount))
	assert.True(t, decimal.NewFromInt(40_000_000).Equal(line.ActualAmount))
	assert.True(t, decimal.NewFromInt(20_000_000).Equal(line.MissingAmount))
	// 40/60 of target
	expected := decimal.NewFromInt(40_000_000).Div(decimal.NewFromInt(60_000_000)).Mul(decimal.NewFromInt(100))
	assert.True(t, expected.Equal(line.AchievedPercent))
}

func TestEstimator_UnconfirmedExcluded(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 50)}

	transactions := []treasury.Transaction{
		confirmedExpense(t, expenseSpec{category: "Cát đá", material: true}, 10_000_000),
		unconfirmedExpense(t, expenseSpec{category: "Gạch", material: true}, 99_000_000),
	}

	result := e.Estimate(decimal.NewFromInt(100_000_000), targets, transactions, NewConfirmationSet())

	assert.True(t, decimal.NewFromInt(10_000_000).Equal(result.Lines[0].ActualAmount))
}

func TestEstimator_ConfirmationSets(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 50), laborTarget(t, 20)}

	labor := unconfirmedExpense(t, expenseSpec{category: "Lương tổ nề", labor: true}, 8_000_000)
	internal := unconfirmedExpense(t, expenseSpec{category: "Vật tư phụ", material: true}, 2_000_000)

	confirmed := NewConfirmationSet()
	confirmed.ConfirmLabor(labor.ID)
	confirmed.ConfirmInternal(internal.ID)

	result := e.Estimate(decimal.NewFromInt(100_000_000), targets, []treasury.Transaction{labor, internal}, confirmed)

	require.Len(t, result.Lines, 2)
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(result.Lines[0].ActualAmount))
	assert.True(t, decimal.NewFromInt(8_000_000).Equal(result.Lines[1].ActualAmount))
}

// A labor confirmation does not confirm a non-labor cost and vice versa.
func TestEstimator_ConfirmationSetsDoNotCross(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 50), laborTarget(t, 20)}

	labor := unconfirmedExpense(t, expenseSpec{category: "Lương tổ sắt", labor: true}, 8_000_000)
	material := unconfirmedExpense(t, expenseSpec{category: "Vật tư", material: true}, 2_000_000)

	confirmed := NewConfirmationSet()
	confirmed.ConfirmInternal(labor.ID)
	confirmed.ConfirmLabor(material.ID)

	result := e.Estimate(decimal.NewFromInt(100_000_000), targets, []treasury.Transaction{labor, material}, confirmed)

	assert.True(t, result.Lines[0].ActualAmount.IsZero())
	assert.True(t, result.Lines[1].ActualAmount.IsZero())
}

// Each transaction resolves to exactly one key, so the sum of actuals
// never exceeds the sum of confirmed expense amounts.
func TestEstimator_AllocationConservation(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 60), laborTarget(t, 20)}

	transactions := []treasury.Transaction{
		confirmedExpense(t, expenseSpec{category: "Lương khoán vật tư", material: true}, 5_000_000),
		confirmedExpense(t, expenseSpec{category: "Lương T2", labor: true}, 7_000_000),
		confirmedExpense(t, expenseSpec{category: "Phí khác"}, 1_000_000),
	}

	result := e.Estimate(decimal.NewFromInt(100_000_000), targets, transactions, NewConfirmationSet())

	sumActual := decimal.Zero
	for _, line := range result.Lines {
		sumActual = sumActual.Add(line.ActualAmount)
	}
	totalConfirmed := decimal.NewFromInt(13_000_000)
	assert.True(t, sumActual.LessThanOrEqual(totalConfirmed))
	// first transaction counted once, under material only
	assert.True(t, decimal.NewFromInt(5_000_000).Equal(result.Lines[0].ActualAmount))
	assert.True(t, decimal.NewFromInt(7_000_000).Equal(result.Lines[1].ActualAmount))
}

func TestEstimator_Totals(t *testing.T) {
	e := NewEstimator()
	revenue := decimal.NewFromInt(100_000_000)
	targets := []CostTarget{materialTarget(t, 60), laborTarget(t, 20)}

	transactions := []treasury.Transaction{
		confirmedExpense(t, expenseSpec{category: "Thép", material: true}, 30_000_000),
	}

	result := e.Estimate(revenue, targets, transactions, NewConfirmationSet())

	assert.True(t, decimal.NewFromInt(80_000_000).Equal(result.TotalTargetExpense))
	assert.True(t, decimal.NewFromInt(30_000_000).Equal(result.TotalActual))
	assert.True(t, decimal.NewFromInt(50_000_000).Equal(result.TotalMissing))
}

func TestEstimator_ZeroRevenue(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 60)}

	transactions := []treasury.Transaction{
		confirmedExpense(t, expenseSpec{category: "Thép", material: true}, 10_000_000),
	}

	result := e.Estimate(decimal.Zero, targets, transactions, NewConfirmationSet())

	line := result.Lines[0]
	assert.True(t, line.TargetAmount.IsZero())
	assert.True(t, line.MissingAmount.IsZero())
	assert.True(t, line.AchievedPercent.IsZero(), "zero target must not divide")
	assert.True(t, result.TotalMissing.IsZero())
}

func TestEstimator_IgnoresIncome(t *testing.T) {
	e := NewEstimator()
	targets := []CostTarget{materialTarget(t, 60)}

	income := incomeTransaction(t, 50_000_000)

	result := e.Estimate(decimal.NewFromInt(100_000_000), targets, []treasury.Transaction{income}, NewConfirmationSet())

	assert.True(t, result.Lines[0].ActualAmount.IsZero())
}
