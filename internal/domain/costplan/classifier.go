package costplan

import (
	"strings"

	"github.com/buildcore/backend/internal/domain/treasury"
)

// Classifier resolves each expense transaction to exactly one mapping
// key. Keyword matching on free-text category/description is a
// best-effort heuristic; the per-transaction override always wins and
// is the escape hatch for misclassified entries.
type Classifier struct{}

// NewClassifier creates a new classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify resolves the mapping key for a transaction.
// Precedence: explicit override, material flag, labor flag or "lương"
// keyword, "marketing" keyword, company-fixed scope or office cost
// center, then OTHER.
func (c *Classifier) Classify(t *treasury.Transaction) MappingKey {
	if t.MappingOverride != "" {
		if key, ok := ParseMappingKey(t.MappingOverride); ok {
			return key
		}
	}
	if t.IsMaterialCost {
		return MappingMaterial
	}

	category := strings.ToLower(t.Category)
	description := strings.ToLower(t.Description)

	if t.IsLaborCost || strings.Contains(category, "lương") {
		return MappingLabor
	}
	if strings.Contains(category, "marketing") || strings.Contains(description, "marketing") {
		return MappingMarketing
	}
	if t.Scope == treasury.ScopeCompanyFixed || t.CostCenter == treasury.CostCenterOffice {
		return MappingOffice
	}
	return MappingOther
}
