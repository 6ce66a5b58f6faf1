package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildcore/backend/internal/domain/contract"
)

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	AuditedAggregateModel
	Number    string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string                  `gorm:"type:varchar(300);not null"`
	Type      contract.ContractType   `gorm:"type:varchar(30);not null;index"`
	Value     decimal.Decimal         `gorm:"type:decimal(18,0);not null"`
	Status    contract.ContractStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ProjectID uuid.UUID               `gorm:"type:uuid;not null;index"`
	PartnerID uuid.UUID               `gorm:"type:uuid;not null;index"`
	SignedAt  *time.Time
	Notes     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *contract.Contract {
	c := &contract.Contract{
		Number:    m.Number,
		Name:      m.Name,
		Type:      m.Type,
		Value:     m.Value,
		Status:    m.Status,
		ProjectID: m.ProjectID,
		PartnerID: m.PartnerID,
		SignedAt:  m.SignedAt,
		Notes:     m.Notes,
	}
	m.PopulateAuditedAggregateRoot(&c.AuditedAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *contract.Contract) {
	m.FromDomainAuditedAggregateRoot(c.AuditedAggregateRoot)
	m.Number = c.Number
	m.Name = c.Name
	m.Type = c.Type
	m.Value = c.Value
	m.Status = c.Status
	m.ProjectID = c.ProjectID
	m.PartnerID = c.PartnerID
	m.SignedAt = c.SignedAt
	m.Notes = c.Notes
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *contract.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}
