package models

import (
	"github.com/shopspring/decimal"

	"github.com/buildcore/backend/internal/domain/costplan"
)

// CostTargetModel is the persistence model for the CostTarget aggregate root.
type CostTargetModel struct {
	AuditedAggregateModel
	Label      string              `gorm:"type:varchar(200);not null"`
	Percent    decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	MappingKey costplan.MappingKey `gorm:"type:varchar(30);not null;index"`
	SortOrder  int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CostTargetModel) TableName() string {
	return "cost_targets"
}

// ToDomain converts the persistence model to a domain CostTarget entity.
func (m *CostTargetModel) ToDomain() *costplan.CostTarget {
	target := &costplan.CostTarget{
		Label:      m.Label,
		Percent:    m.Percent,
		MappingKey: m.MappingKey,
		SortOrder:  m.SortOrder,
	}
	m.PopulateAuditedAggregateRoot(&target.AuditedAggregateRoot)
	return target
}

// FromDomain populates the persistence model from a domain CostTarget entity.
func (m *CostTargetModel) FromDomain(target *costplan.CostTarget) {
	m.FromDomainAuditedAggregateRoot(target.AuditedAggregateRoot)
	m.Label = target.Label
	m.Percent = target.Percent
	m.MappingKey = target.MappingKey
	m.SortOrder = target.SortOrder
}

// CostTargetModelFromDomain creates a new persistence model from a domain CostTarget.
func CostTargetModelFromDomain(target *costplan.CostTarget) *CostTargetModel {
	m := &CostTargetModel{}
	m.FromDomain(target)
	return m
}
