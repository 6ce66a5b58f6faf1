package contract

import (
	"fmt"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractType represents the commercial nature of a contract
type ContractType string

const (
	ContractTypeRevenue          ContractType = "REVENUE"           // Customer pays us
	ContractTypeSupplierMaterial ContractType = "SUPPLIER_MATERIAL" // We pay a material supplier
	ContractTypeLabor            ContractType = "LABOR"             // We pay a labor crew
	ContractTypeSubContract      ContractType = "SUB_CONTRACT"      // We pay a subcontractor
)

// IsValid checks if the type is a valid ContractType
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeRevenue, ContractTypeSupplierMaterial, ContractTypeLabor, ContractTypeSubContract:
		return true
	}
	return false
}

// String returns the string representation of ContractType
func (t ContractType) String() string {
	return string(t)
}

// IsRevenue returns true for contracts where money flows in
func (t ContractType) IsRevenue() bool {
	return t == ContractTypeRevenue
}

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusSigned    ContractStatus = "SIGNED"
	ContractStatusCompleted ContractStatus = "COMPLETED"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	return s == ContractStatusDraft || s == ContractStatusSigned || s == ContractStatusCompleted
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// CanSign returns true if the contract can be signed
func (s ContractStatus) CanSign() bool {
	return s == ContractStatusDraft
}

// CanComplete returns true if the contract can be completed
func (s ContractStatus) CanComplete() bool {
	return s == ContractStatusSigned
}

// Contract represents a legal agreement aggregate root tied to one
// project and one partner. Payment progress is not stored on the
// contract; it is derived by the Reconciler from linked transactions.
type Contract struct {
	shared.AuditedAggregateRoot
	Number    string
	Name      string
	Type      ContractType
	Value     decimal.Decimal
	Status    ContractStatus
	ProjectID uuid.UUID
	PartnerID uuid.UUID
	SignedAt  *time.Time
	Notes     string
}

// NewContract creates a new contract in DRAFT status
func NewContract(
	number string,
	name string,
	contractType ContractType,
	value valueobject.Money,
	projectID uuid.UUID,
	partnerID uuid.UUID,
) (*Contract, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Contract number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contract name cannot be empty")
	}
	if !contractType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Contract type is not valid")
	}
	if value.Amount().LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Contract value cannot be negative")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Contract must belong to a project")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Contract must have a partner")
	}

	c := &Contract{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Number:               number,
		Name:                 name,
		Type:                 contractType,
		Value:                value.Amount(),
		Status:               ContractStatusDraft,
		ProjectID:            projectID,
		PartnerID:            partnerID,
	}

	c.AddDomainEvent(NewContractCreatedEvent(c))

	return c, nil
}

// Sign marks a draft contract as signed
func (c *Contract) Sign() error {
	if !c.Status.CanSign() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot sign contract in %s status", c.Status))
	}

	now := time.Now()
	c.Status = ContractStatusSigned
	c.SignedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewContractSignedEvent(c))

	return nil
}

// Complete marks a signed contract as completed
func (c *Contract) Complete() error {
	if !c.Status.CanComplete() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete contract in %s status", c.Status))
	}

	c.Status = ContractStatusCompleted
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewContractCompletedEvent(c))

	return nil
}

// Update updates the contract details (only allowed in draft status)
func (c *Contract) Update(name string, value valueobject.Money, notes string) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only update contract in draft status")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Contract name cannot be empty")
	}
	if value.Amount().LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_VALUE", "Contract value cannot be negative")
	}

	c.Name = name
	c.Value = value.Amount()
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// GetValueMoney returns the contracted value as Money
func (c *Contract) GetValueMoney() valueobject.Money {
	return valueobject.NewMoneyVND(c.Value)
}

// IsDraft returns true if the contract is in draft status
func (c *Contract) IsDraft() bool {
	return c.Status == ContractStatusDraft
}

// IsSigned returns true if the contract is signed
func (c *Contract) IsSigned() bool {
	return c.Status == ContractStatusSigned
}

// IsCompleted returns true if the contract is completed
func (c *Contract) IsCompleted() bool {
	return c.Status == ContractStatusCompleted
}
