package costplan

import (
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MappingKey is the cost category an expense is allocated to
type MappingKey string

const (
	MappingMaterial  MappingKey = "MATERIAL"
	MappingLabor     MappingKey = "LABOR"
	MappingMarketing MappingKey = "MARKETING"
	MappingOffice    MappingKey = "OFFICE"
	MappingOther     MappingKey = "OTHER"
)

// IsValid checks if the key is a valid MappingKey
func (k MappingKey) IsValid() bool {
	switch k {
	case MappingMaterial, MappingLabor, MappingMarketing, MappingOffice, MappingOther:
		return true
	}
	return false
}

// String returns the string representation of MappingKey
func (k MappingKey) String() string {
	return string(k)
}

// ParseMappingKey parses a string into a MappingKey
func ParseMappingKey(s string) (MappingKey, bool) {
	k := MappingKey(s)
	return k, k.IsValid()
}

// CostTarget is a planned percentage-of-revenue budget line, e.g.
// "Vật tư 60%". Expenses are matched to it through its mapping key.
type CostTarget struct {
	shared.AuditedAggregateRoot
	Label      string
	Percent    decimal.Decimal
	MappingKey MappingKey
	SortOrder  int
}

// NewCostTarget creates a new cost target line
func NewCostTarget(label string, percent decimal.Decimal, mappingKey MappingKey) (*CostTarget, error) {
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Cost target label cannot be empty")
	}
	if percent.LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PERCENT", "Cost target percent cannot be negative")
	}
	if !mappingKey.IsValid() {
		return nil, shared.NewDomainError("INVALID_MAPPING_KEY", "Mapping key is not valid")
	}

	return &CostTarget{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Label:                label,
		Percent:              percent,
		MappingKey:           mappingKey,
	}, nil
}

// Update updates the target line
func (c *CostTarget) Update(label string, percent decimal.Decimal) error {
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Cost target label cannot be empty")
	}
	if percent.LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_PERCENT", "Cost target percent cannot be negative")
	}
	c.Label = label
	c.Percent = percent
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetSortOrder sets the display position within the plan
func (c *CostTarget) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
}
