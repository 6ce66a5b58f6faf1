package contract

import (
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractCreatedEvent is raised when a new contract is created
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractID   uuid.UUID       `json:"contract_id"`
	Number       string          `json:"number"`
	ContractType ContractType    `json:"contract_type"`
	Value        decimal.Decimal `json:"value"`
	ProjectID    uuid.UUID       `json:"project_id"`
	PartnerID    uuid.UUID       `json:"partner_id"`
}

// EventType returns the event type name
func (e *ContractCreatedEvent) EventType() string {
	return "ContractCreated"
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractCreated", "Contract", c.ID),
		ContractID:      c.ID,
		Number:          c.Number,
		ContractType:    c.Type,
		Value:           c.Value,
		ProjectID:       c.ProjectID,
		PartnerID:       c.PartnerID,
	}
}

// ContractSignedEvent is raised when a contract is signed
type ContractSignedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID       `json:"contract_id"`
	Number     string          `json:"number"`
	Value      decimal.Decimal `json:"value"`
	SignedAt   time.Time       `json:"signed_at"`
}

// EventType returns the event type name
func (e *ContractSignedEvent) EventType() string {
	return "ContractSigned"
}

// NewContractSignedEvent creates a new ContractSignedEvent
func NewContractSignedEvent(c *Contract) *ContractSignedEvent {
	signedAt := time.Now()
	if c.SignedAt != nil {
		signedAt = *c.SignedAt
	}
	return &ContractSignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractSigned", "Contract", c.ID),
		ContractID:      c.ID,
		Number:          c.Number,
		Value:           c.Value,
		SignedAt:        signedAt,
	}
}

// ContractCompletedEvent is raised when a contract is completed
type ContractCompletedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID       `json:"contract_id"`
	Number     string          `json:"number"`
	Value      decimal.Decimal `json:"value"`
}

// EventType returns the event type name
func (e *ContractCompletedEvent) EventType() string {
	return "ContractCompleted"
}

// NewContractCompletedEvent creates a new ContractCompletedEvent
func NewContractCompletedEvent(c *Contract) *ContractCompletedEvent {
	return &ContractCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ContractCompleted", "Contract", c.ID),
		ContractID:      c.ID,
		Number:          c.Number,
		Value:           c.Value,
	}
}
