package costplan

import (
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfirmationSet holds the explicit confirmations that make an
// expense count toward its target even without a VAT invoice.
// Labor costs are confirmed through signed labor contracts, other
// costs through internal vouchers.
type ConfirmationSet struct {
	Labor    map[uuid.UUID]bool
	Internal map[uuid.UUID]bool
}

// NewConfirmationSet creates an empty confirmation set
func NewConfirmationSet() ConfirmationSet {
	return ConfirmationSet{
		Labor:    make(map[uuid.UUID]bool),
		Internal: make(map[uuid.UUID]bool),
	}
}

// ConfirmLabor marks a transaction as covered by a labor contract
func (s ConfirmationSet) ConfirmLabor(id uuid.UUID) {
	s.Labor[id] = true
}

// ConfirmInternal marks a transaction as covered by an internal voucher
func (s ConfirmationSet) ConfirmInternal(id uuid.UUID) {
	s.Internal[id] = true
}

// isConfirmed reports whether a classified expense counts toward its
// target. A VAT invoice always confirms; otherwise the transaction
// must appear in the set matching its cost kind.
func (s ConfirmationSet) isConfirmed(t *treasury.Transaction, key MappingKey) bool {
	if t.HasVATInvoice {
		return true
	}
	if key == MappingLabor {
		return s.Labor[t.ID]
	}
	return s.Internal[t.ID]
}

// TargetLine is the derived state of one cost target against the
// period's confirmed expenses.
type TargetLine struct {
	TargetID        uuid.UUID
	Label           string
	MappingKey      MappingKey
	Percent         decimal.Decimal
	TargetAmount    decimal.Decimal
	ActualAmount    decimal.Decimal
	MissingAmount   decimal.Decimal
	AchievedPercent decimal.Decimal
}

// Estimate is the tax-balance projection for a revenue base: how much
// spend each target calls for, how much compliant spend exists, and
// the advisory gap.
type Estimate struct {
	TotalRevenue       decimal.Decimal
	Lines              []TargetLine
	TotalTargetExpense decimal.Decimal
	TotalActual        decimal.Decimal
	TotalMissing       decimal.Decimal
}

// Estimator allocates expense transactions to cost targets and
// projects compliance gaps against a revenue base. It is a planning
// heuristic, not a ledger; it tolerates missing data and never errors
// on unclassifiable input.
type Estimator struct {
	classifier *Classifier
}

// NewEstimator creates a new estimator
func NewEstimator() *Estimator {
	return &Estimator{classifier: NewClassifier()}
}

// Estimate computes the per-target allocation and aggregate gaps.
// Each expense resolves to exactly one mapping key, so no amount is
// counted toward two targets. Unconfirmed expenses are classified but
// excluded from actuals.
func (e *Estimator) Estimate(
	totalRevenue decimal.Decimal,
	targets []CostTarget,
	transactions []treasury.Transaction,
	confirmed ConfirmationSet,
) Estimate {
	hundred := decimal.NewFromInt(100)

	// Sum confirmed spend per mapping key in one pass.
	actualByKey := make(map[MappingKey]decimal.Decimal)
	for i := range transactions {
		t := &transactions[i]
		if t.Type != treasury.TransactionTypeExpense {
			continue
		}
		key := e.classifier.Classify(t)
		if !confirmed.isConfirmed(t, key) {
			continue
		}
		actualByKey[key] = actualByKey[key].Add(t.Amount)
	}

	lines := make([]TargetLine, 0, len(targets))
	totalPercent := decimal.Zero
	totalActual := decimal.Zero
	for i := range targets {
		target := &targets[i]
		targetAmount := totalRevenue.Mul(target.Percent).Div(hundred)
		actualAmount := actualByKey[target.MappingKey]

		missing := targetAmount.Sub(actualAmount)
		if missing.IsNegative() {
			missing = decimal.Zero
		}

		achievedPercent := decimal.Zero
		if targetAmount.GreaterThan(decimal.Zero) {
			achievedPercent = actualAmount.Div(targetAmount).Mul(hundred)
		}

		lines = append(lines, TargetLine{
			TargetID:        target.ID,
			Label:           target.Label,
			MappingKey:      target.MappingKey,
			Percent:         target.Percent,
			TargetAmount:    targetAmount,
			ActualAmount:    actualAmount,
			MissingAmount:   missing,
			AchievedPercent: achievedPercent,
		})

		totalPercent = totalPercent.Add(target.Percent)
		totalActual = totalActual.Add(actualAmount)
	}

	totalTarget := totalRevenue.Mul(totalPercent).Div(hundred)
	totalMissing := totalTarget.Sub(totalActual)
	if totalMissing.IsNegative() {
		totalMissing = decimal.Zero
	}

	return Estimate{
		TotalRevenue:       totalRevenue,
		Lines:              lines,
		TotalTargetExpense: totalTarget,
		TotalActual:        totalActual,
		TotalMissing:       totalMissing,
	}
}
