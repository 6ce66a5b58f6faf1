package treasury

import (
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCreatedEvent is raised when a new transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Number        string          `json:"number"`
	TxType        TransactionType `json:"tx_type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"`
}

// EventType returns the event type name
func (e *TransactionCreatedEvent) EventType() string {
	return "TransactionCreated"
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(tx *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionCreated", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Number:          tx.Number,
		TxType:          tx.Type,
		Amount:          tx.Amount,
		Category:        tx.Category,
		Date:            tx.Date,
	}
}

// TransactionSubmittedEvent is raised when a transaction is submitted for approval
type TransactionSubmittedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Number        string          `json:"number"`
	TxType        TransactionType `json:"tx_type"`
	Amount        decimal.Decimal `json:"amount"`
	SubmittedBy   uuid.UUID       `json:"submitted_by"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// EventType returns the event type name
func (e *TransactionSubmittedEvent) EventType() string {
	return "TransactionSubmitted"
}

// NewTransactionSubmittedEvent creates a new TransactionSubmittedEvent
func NewTransactionSubmittedEvent(tx *Transaction) *TransactionSubmittedEvent {
	submittedAt := time.Now()
	if tx.SubmittedAt != nil {
		submittedAt = *tx.SubmittedAt
	}
	var submittedBy uuid.UUID
	if tx.SubmittedBy != nil {
		submittedBy = *tx.SubmittedBy
	}
	return &TransactionSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionSubmitted", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Number:          tx.Number,
		TxType:          tx.Type,
		Amount:          tx.Amount,
		SubmittedBy:     submittedBy,
		SubmittedAt:     submittedAt,
	}
}

// TransactionApprovedEvent is raised when a transaction is approved
type TransactionApprovedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Number        string          `json:"number"`
	TxType        TransactionType `json:"tx_type"`
	Amount        decimal.Decimal `json:"amount"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
	ApprovedAt    time.Time       `json:"approved_at"`
}

// EventType returns the event type name
func (e *TransactionApprovedEvent) EventType() string {
	return "TransactionApproved"
}

// NewTransactionApprovedEvent creates a new TransactionApprovedEvent
func NewTransactionApprovedEvent(tx *Transaction) *TransactionApprovedEvent {
	approvedAt := time.Now()
	if tx.ApprovedAt != nil {
		approvedAt = *tx.ApprovedAt
	}
	var approvedBy uuid.UUID
	if tx.ApprovedBy != nil {
		approvedBy = *tx.ApprovedBy
	}
	return &TransactionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionApproved", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Number:          tx.Number,
		TxType:          tx.Type,
		Amount:          tx.Amount,
		ApprovedBy:      approvedBy,
		ApprovedAt:      approvedAt,
	}
}

// TransactionRejectedEvent is raised when a transaction is rejected
type TransactionRejectedEvent struct {
	shared.BaseDomainEvent
	TransactionID   uuid.UUID       `json:"transaction_id"`
	Number          string          `json:"number"`
	TxType          TransactionType `json:"tx_type"`
	Amount          decimal.Decimal `json:"amount"`
	RejectedBy      uuid.UUID       `json:"rejected_by"`
	RejectedAt      time.Time       `json:"rejected_at"`
	RejectionReason string          `json:"rejection_reason"`
}

// EventType returns the event type name
func (e *TransactionRejectedEvent) EventType() string {
	return "TransactionRejected"
}

// NewTransactionRejectedEvent creates a new TransactionRejectedEvent
func NewTransactionRejectedEvent(tx *Transaction) *TransactionRejectedEvent {
	rejectedAt := time.Now()
	if tx.RejectedAt != nil {
		rejectedAt = *tx.RejectedAt
	}
	var rejectedBy uuid.UUID
	if tx.RejectedBy != nil {
		rejectedBy = *tx.RejectedBy
	}
	return &TransactionRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionRejected", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Number:          tx.Number,
		TxType:          tx.Type,
		Amount:          tx.Amount,
		RejectedBy:      rejectedBy,
		RejectedAt:      rejectedAt,
		RejectionReason: tx.RejectionReason,
	}
}

// TransactionPaidEvent is raised when cash actually moves, for both paid
// expenses and collected income
type TransactionPaidEvent struct {
	shared.BaseDomainEvent
	TransactionID   uuid.UUID       `json:"transaction_id"`
	Number          string          `json:"number"`
	TxType          TransactionType `json:"tx_type"`
	Amount          decimal.Decimal `json:"amount"`
	TargetAccountID uuid.UUID       `json:"target_account_id"`
	ConfirmedBy     uuid.UUID       `json:"confirmed_by"`
	ConfirmedAt     time.Time       `json:"confirmed_at"`
}

// EventType returns the event type name
func (e *TransactionPaidEvent) EventType() string {
	return "TransactionPaid"
}

// NewTransactionPaidEvent creates a new TransactionPaidEvent
func NewTransactionPaidEvent(tx *Transaction) *TransactionPaidEvent {
	confirmedAt := time.Now()
	if tx.ConfirmedAt != nil {
		confirmedAt = *tx.ConfirmedAt
	}
	var confirmedBy uuid.UUID
	if tx.ConfirmedBy != nil {
		confirmedBy = *tx.ConfirmedBy
	}
	var accountID uuid.UUID
	if tx.TargetAccountID != nil {
		accountID = *tx.TargetAccountID
	}
	return &TransactionPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionPaid", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		Number:          tx.Number,
		TxType:          tx.Type,
		Amount:          tx.Amount,
		TargetAccountID: accountID,
		ConfirmedBy:     confirmedBy,
		ConfirmedAt:     confirmedAt,
	}
}
