package treasury

import (
	"fmt"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the monetary direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus represents the lifecycle status of a transaction
type TransactionStatus string

const (
	TransactionStatusDraft     TransactionStatus = "DRAFT"     // Editable, not yet submitted
	TransactionStatusSubmitted TransactionStatus = "SUBMITTED" // Waiting for approval
	TransactionStatusApproved  TransactionStatus = "APPROVED"  // Approved, waiting for payment
	TransactionStatusPaid      TransactionStatus = "PAID"      // Cash has moved
	TransactionStatusRejected  TransactionStatus = "REJECTED"  // Rejected by approver
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusDraft, TransactionStatusSubmitted, TransactionStatusApproved,
		TransactionStatusPaid, TransactionStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no transition leaves this status
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusPaid || s == TransactionStatusRejected
}

// CanSubmit returns true if the transaction can be submitted for approval
func (s TransactionStatus) CanSubmit() bool {
	return s == TransactionStatusDraft
}

// CanApprove returns true if the transaction can be approved or rejected
func (s TransactionStatus) CanApprove() bool {
	return s == TransactionStatusSubmitted
}

// CanPay returns true if an expense in this status can be paid
func (s TransactionStatus) CanPay() bool {
	return s == TransactionStatusApproved
}

// CanConfirmIncome returns true if an income in this status can be collected.
// Income does not require prior approval; collection from SUBMITTED is allowed.
func (s TransactionStatus) CanConfirmIncome() bool {
	return s == TransactionStatusSubmitted || s == TransactionStatusApproved
}

// TransactionScope represents what part of the business a transaction belongs to
type TransactionScope string

const (
	ScopeProject      TransactionScope = "PROJECT"       // Tied to a construction project
	ScopeCompanyFixed TransactionScope = "COMPANY_FIXED" // Fixed company overhead
	ScopeGeneral      TransactionScope = "GENERAL"
)

// IsValid checks if the scope is a valid TransactionScope
func (s TransactionScope) IsValid() bool {
	return s == ScopeProject || s == ScopeCompanyFixed || s == ScopeGeneral
}

// CostCenterType represents the cost center a transaction is charged to
type CostCenterType string

const (
	CostCenterSite   CostCenterType = "SITE"
	CostCenterOffice CostCenterType = "OFFICE"
)

// Transaction represents a monetary event aggregate root.
// It moves through a fixed approval workflow; once PAID the amount and
// target account are frozen and the event is reflected in account balances.
type Transaction struct {
	shared.AuditedAggregateRoot
	Number          string
	Date            time.Time
	Type            TransactionType
	Amount          decimal.Decimal
	Status          TransactionStatus
	Scope           TransactionScope
	CostCenter      CostCenterType
	Category        string
	Description     string
	TargetAccountID *uuid.UUID
	ProjectID       *uuid.UUID
	PartnerID       *uuid.UUID
	EmployeeID      *uuid.UUID
	ContractID      *uuid.UUID
	HasVATInvoice   bool
	IsMaterialCost  bool
	IsLaborCost     bool
	MappingOverride string
	AttachmentURLs  string
	SubmittedAt     *time.Time
	SubmittedBy     *uuid.UUID
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID
	RejectionReason string
	ConfirmedAt     *time.Time
	ConfirmedBy     *uuid.UUID
}

// NewTransaction creates a new transaction in DRAFT status
func NewTransaction(
	number string,
	date time.Time,
	txType TransactionType,
	amount valueobject.Money,
	scope TransactionScope,
	category string,
	description string,
) (*Transaction, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transaction number cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type is not valid")
	}
	if amount.Amount().LessThan(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if !scope.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Transaction scope is not valid")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}

	tx := &Transaction{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Number:               number,
		Date:                 date,
		Type:                 txType,
		Amount:               amount.Amount(),
		Status:               TransactionStatusDraft,
		Scope:                scope,
		Category:             category,
		Description:          description,
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// Submit submits a draft transaction for approval
func (t *Transaction) Submit(submittedBy uuid.UUID) error {
	if !t.Status.CanSubmit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit transaction in %s status", t.Status))
	}
	if submittedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Submitter user ID cannot be empty")
	}

	now := time.Now()
	t.Status = TransactionStatusSubmitted
	t.SubmittedAt = &now
	t.SubmittedBy = &submittedBy
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionSubmittedEvent(t))

	return nil
}

// Approve approves a submitted transaction.
// Requires the transaction:approve permission.
func (t *Transaction) Approve(actor Actor) error {
	if !actor.HasPermission(PermApprove) {
		return shared.NewDomainError("PERMISSION_DENIED", "Actor lacks the transaction:approve permission")
	}
	if !t.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve transaction in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TransactionStatusApproved
	t.ApprovedAt = &now
	t.ApprovedBy = &actor.ID
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionApprovedEvent(t))

	return nil
}

// Reject rejects a submitted transaction with a mandatory reason.
// Requires the transaction:approve permission.
func (t *Transaction) Reject(actor Actor, reason string) error {
	if !actor.HasPermission(PermApprove) {
		return shared.NewDomainError("PERMISSION_DENIED", "Actor lacks the transaction:approve permission")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}
	if !t.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject transaction in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TransactionStatusRejected
	t.RejectedAt = &now
	t.RejectedBy = &actor.ID
	t.RejectionReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionRejectedEvent(t))

	return nil
}

// Pay pays an approved expense out of the given cash account.
// Requires the transaction:pay permission. Expenses must pass through
// APPROVED; paying straight from SUBMITTED is not allowed.
func (t *Transaction) Pay(actor Actor, accountID uuid.UUID) error {
	if !actor.HasPermission(PermPay) {
		return shared.NewDomainError("PERMISSION_DENIED", "Actor lacks the transaction:pay permission")
	}
	if t.Type != TransactionTypeExpense {
		return shared.NewDomainError("INVALID_STATE", "Only expense transactions can be paid")
	}
	if !t.Status.CanPay() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay transaction in %s status", t.Status))
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Target account is required to pay")
	}

	t.markPaid(actor.ID, accountID)

	return nil
}

// ConfirmIncome confirms collection of an income into the given cash account.
// Requires the transaction:pay permission.
func (t *Transaction) ConfirmIncome(actor Actor, accountID uuid.UUID) error {
	if !actor.HasPermission(PermPay) {
		return shared.NewDomainError("PERMISSION_DENIED", "Actor lacks the transaction:pay permission")
	}
	if t.Type != TransactionTypeIncome {
		return shared.NewDomainError("INVALID_STATE", "Only income transactions can be collected")
	}
	if !t.Status.CanConfirmIncome() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot collect transaction in %s status", t.Status))
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Target account is required to collect")
	}

	t.markPaid(actor.ID, accountID)

	return nil
}

// markPaid applies the shared PAID side effects. Account balances are
// derived from PAID transactions on read; nothing is mutated here
// beyond the transaction itself.
func (t *Transaction) markPaid(confirmedBy, accountID uuid.UUID) {
	now := time.Now()
	t.Status = TransactionStatusPaid
	t.TargetAccountID = &accountID
	t.ConfirmedAt = &now
	t.ConfirmedBy = &confirmedBy
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionPaidEvent(t))
}

// Update updates the transaction details (only allowed in draft status)
func (t *Transaction) Update(
	date time.Time,
	amount valueobject.Money,
	scope TransactionScope,
	category string,
	description string,
) error {
	if t.Status != TransactionStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only update transaction in draft status")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if amount.Amount().LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if !scope.IsValid() {
		return shared.NewDomainError("INVALID_SCOPE", "Transaction scope is not valid")
	}
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}

	t.Date = date
	t.Amount = amount.Amount()
	t.Scope = scope
	t.Category = category
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetAssociations sets the optional entity associations (draft only)
func (t *Transaction) SetAssociations(projectID, partnerID, employeeID, contractID *uuid.UUID) error {
	if t.Status != TransactionStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only update associations in draft status")
	}
	t.ProjectID = projectID
	t.PartnerID = partnerID
	t.EmployeeID = employeeID
	t.ContractID = contractID
	t.UpdatedAt = time.Now()
	return nil
}

// SetCostFlags sets the cost classification flags used by the cost plan estimator
func (t *Transaction) SetCostFlags(hasVATInvoice, isMaterialCost, isLaborCost bool, costCenter CostCenterType) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify transaction in terminal state")
	}
	t.HasVATInvoice = hasVATInvoice
	t.IsMaterialCost = isMaterialCost
	t.IsLaborCost = isLaborCost
	t.CostCenter = costCenter
	t.UpdatedAt = time.Now()
	return nil
}

// SetMappingOverride pins the transaction to a specific cost mapping key,
// taking precedence over automatic classification
func (t *Transaction) SetMappingOverride(key string) {
	t.MappingOverride = key
	t.UpdatedAt = time.Now()
}

// SetAttachmentURLs sets the attachment URLs (JSON array)
func (t *Transaction) SetAttachmentURLs(urls string) {
	t.AttachmentURLs = urls
	t.UpdatedAt = time.Now()
}

// Helper methods

// GetAmountMoney returns the amount as Money
func (t *Transaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyVND(t.Amount)
}

// SignedAmount returns the amount signed by direction (+income, -expense)
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsDraft returns true if the transaction is in draft status
func (t *Transaction) IsDraft() bool {
	return t.Status == TransactionStatusDraft
}

// IsSubmitted returns true if the transaction is waiting for approval
func (t *Transaction) IsSubmitted() bool {
	return t.Status == TransactionStatusSubmitted
}

// IsApproved returns true if the transaction is approved
func (t *Transaction) IsApproved() bool {
	return t.Status == TransactionStatusApproved
}

// IsPaid returns true if the transaction is paid/collected
func (t *Transaction) IsPaid() bool {
	return t.Status == TransactionStatusPaid
}

// IsRejected returns true if the transaction is rejected
func (t *Transaction) IsRejected() bool {
	return t.Status == TransactionStatusRejected
}
