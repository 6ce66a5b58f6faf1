package costplan

import (
	"testing"
	"time"

	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseSpec struct {
	category    string
	description string
	scope       treasury.TransactionScope
	costCenter  treasury.CostCenterType
	material    bool
	labor       bool
	override    string
}

func buildExpense(t *testing.T, spec expenseSpec) *treasury.Transaction {
	scope := spec.scope
	if scope == "" {
		scope = treasury.ScopeProject
	}
	tx, err := treasury.NewTransaction(
		"TXN-"+uuid.NewString()[:8],
		time.Now(),
		treasury.TransactionTypeExpense,
		valueobject.NewMoneyVNDFromInt(1_000_000),
		scope,
		spec.category,
		spec.description,
	)
	require.NoError(t, err)
	require.NoError(t, tx.SetCostFlags(false, spec.material, spec.labor, spec.costCenter))
	if spec.override != "" {
		tx.SetMappingOverride(spec.override)
	}
	return tx
}

func mustMoney(amount int64) valueobject.Money {
	return valueobject.NewMoneyVNDFromInt(amount)
}

func incomeTransaction(t *testing.T, amount int64) treasury.Transaction {
	tx, err := treasury.NewTransaction(
		"TXN-"+uuid.NewString()[:8],
		time.Now(),
		treasury.TransactionTypeIncome,
		valueobject.NewMoneyVNDFromInt(amount),
		treasury.ScopeProject,
		"Thu hợp đồng",
		"",
	)
	require.NoError(t, err)
	return *tx
}

func TestClassifier_Precedence(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		spec     expenseSpec
		expected MappingKey
	}{
		{
			name:     "override wins over everything",
			spec:     expenseSpec{category: "Lương tháng 1", material: true, override: "MARKETING"},
			expected: MappingMarketing,
		},
		{
			name:     "unknown override falls through",
			spec:     expenseSpec{category: "Vật tư", material: true, override: "NONSENSE"},
			expected: MappingMaterial,
		},
		{
			name:     "material flag beats labor keyword",
			spec:     expenseSpec{category: "Lương khoán đổ bê tông", material: true},
			expected: MappingMaterial,
		},
		{
			name:     "labor flag",
			spec:     expenseSpec{category: "Nhân công", labor: true},
			expected: MappingLabor,
		},
		{
			name:     "luong keyword in category",
			spec:     expenseSpec{category: "Chi lương văn phòng"},
			expected: MappingLabor,
		},
		{
			name:     "luong keyword is case insensitive",
			spec:     expenseSpec{category: "LƯƠNG T3"},
			expected: MappingLabor,
		},
		{
			name:     "marketing keyword in category",
			spec:     expenseSpec{category: "Marketing quý 2"},
			expected: MappingMarketing,
		},
		{
			name:     "marketing keyword in description",
			spec:     expenseSpec{category: "Dịch vụ", description: "chạy quảng cáo marketing"},
			expected: MappingMarketing,
		},
		{
			name:     "company fixed scope maps to office",
			spec:     expenseSpec{category: "Thuê văn phòng", scope: treasury.ScopeCompanyFixed},
			expected: MappingOffice,
		},
		{
			name:     "office cost center maps to office",
			spec:     expenseSpec{category: "Điện nước", costCenter: treasury.CostCenterOffice},
			expected: MappingOffice,
		},
		{
			name:     "unmatched falls to other",
			spec:     expenseSpec{category: "Phí ngân hàng"},
			expected: MappingOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := buildExpense(t, tt.spec)
			assert.Equal(t, tt.expected, c.Classify(tx))
		})
	}
}
