package project

import (
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
)

// PartnerType represents the commercial role of a partner
type PartnerType string

const (
	PartnerTypeCustomer      PartnerType = "CUSTOMER"
	PartnerTypeSupplier      PartnerType = "SUPPLIER"
	PartnerTypeSubcontractor PartnerType = "SUBCONTRACTOR"
)

// IsValid checks if the type is a valid PartnerType
func (t PartnerType) IsValid() bool {
	return t == PartnerTypeCustomer || t == PartnerTypeSupplier || t == PartnerTypeSubcontractor
}

// Partner represents a business counterparty: a customer we bill, or
// a supplier/subcontractor we pay.
type Partner struct {
	shared.AuditedAggregateRoot
	Name      string
	Type      PartnerType
	TaxCode   string
	Phone     string
	Email     string
	Address   string
	IsDeleted bool
}

// NewPartner creates a new partner
func NewPartner(name string, partnerType PartnerType) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if !partnerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Partner type is not valid")
	}

	return &Partner{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		Type:                 partnerType,
	}, nil
}

// Update updates the partner details
func (p *Partner) Update(name, taxCode, phone, email, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	p.Name = name
	p.TaxCode = taxCode
	p.Phone = phone
	p.Email = email
	p.Address = address
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Delete soft-deletes the partner
func (p *Partner) Delete() {
	p.IsDeleted = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
