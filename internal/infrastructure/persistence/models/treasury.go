package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildcore/backend/internal/domain/treasury"
)

// TransactionModel is the persistence model for the Transaction aggregate root.
type TransactionModel struct {
	AuditedAggregateModel
	Number          string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Date            time.Time                  `gorm:"not null;index"`
	Type            treasury.TransactionType   `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal            `gorm:"type:decimal(18,0);not null"`
	Status          treasury.TransactionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Scope           treasury.TransactionScope  `gorm:"type:varchar(30);not null;index"`
	CostCenter      treasury.CostCenterType    `gorm:"type:varchar(30);not null"`
	Category        string                     `gorm:"type:varchar(100);index"`
	Description     string                     `gorm:"type:text"`
	TargetAccountID *uuid.UUID                 `gorm:"type:uuid;index"`
	ProjectID       *uuid.UUID                 `gorm:"type:uuid;index"`
	PartnerID       *uuid.UUID                 `gorm:"type:uuid;index"`
	EmployeeID      *uuid.UUID                 `gorm:"type:uuid;index"`
	ContractID      *uuid.UUID                 `gorm:"type:uuid;index"`
	HasVATInvoice   bool                       `gorm:"not null;default:false"`
	IsMaterialCost  bool                       `gorm:"not null;default:false"`
	IsLaborCost     bool                       `gorm:"not null;default:false"`
	MappingOverride string                     `gorm:"type:varchar(30)"`
	AttachmentURLs  string                     `gorm:"type:text"`
	SubmittedAt     *time.Time
	SubmittedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:varchar(500)"`
	ConfirmedAt     *time.Time
	ConfirmedBy     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "treasury_transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *treasury.Transaction {
	tx := &treasury.Transaction{
		Number:          m.Number,
		Date:            m.Date,
		Type:            m.Type,
		Amount:          m.Amount,
		Status:          m.Status,
		Scope:           m.Scope,
		CostCenter:      m.CostCenter,
		Category:        m.Category,
		Description:     m.Description,
		TargetAccountID: m.TargetAccountID,
		ProjectID:       m.ProjectID,
		PartnerID:       m.PartnerID,
		EmployeeID:      m.EmployeeID,
		ContractID:      m.ContractID,
		HasVATInvoice:   m.HasVATInvoice,
		IsMaterialCost:  m.IsMaterialCost,
		IsLaborCost:     m.IsLaborCost,
		MappingOverride: m.MappingOverride,
		AttachmentURLs:  m.AttachmentURLs,
		SubmittedAt:     m.SubmittedAt,
		SubmittedBy:     m.SubmittedBy,
		ApprovedAt:      m.ApprovedAt,
		ApprovedBy:      m.ApprovedBy,
		RejectedAt:      m.RejectedAt,
		RejectedBy:      m.RejectedBy,
		RejectionReason: m.RejectionReason,
		ConfirmedAt:     m.ConfirmedAt,
		ConfirmedBy:     m.ConfirmedBy,
	}
	m.PopulateAuditedAggregateRoot(&tx.AuditedAggregateRoot)
	return tx
}

// FromDomain populates the persistence model from a domain Transaction entity.
func (m *TransactionModel) FromDomain(tx *treasury.Transaction) {
	m.FromDomainAuditedAggregateRoot(tx.AuditedAggregateRoot)
	m.Number = tx.Number
	m.Date = tx.Date
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.Status = tx.Status
	m.Scope = tx.Scope
	m.CostCenter = tx.CostCenter
	m.Category = tx.Category
	m.Description = tx.Description
	m.TargetAccountID = tx.TargetAccountID
	m.ProjectID = tx.ProjectID
	m.PartnerID = tx.PartnerID
	m.EmployeeID = tx.EmployeeID
	m.ContractID = tx.ContractID
	m.HasVATInvoice = tx.HasVATInvoice
	m.IsMaterialCost = tx.IsMaterialCost
	m.IsLaborCost = tx.IsLaborCost
	m.MappingOverride = tx.MappingOverride
	m.AttachmentURLs = tx.AttachmentURLs
	m.SubmittedAt = tx.SubmittedAt
	m.SubmittedBy = tx.SubmittedBy
	m.ApprovedAt = tx.ApprovedAt
	m.ApprovedBy = tx.ApprovedBy
	m.RejectedAt = tx.RejectedAt
	m.RejectedBy = tx.RejectedBy
	m.RejectionReason = tx.RejectionReason
	m.ConfirmedAt = tx.ConfirmedAt
	m.ConfirmedBy = tx.ConfirmedBy
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction.
func TransactionModelFromDomain(tx *treasury.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(tx)
	return m
}

// CashAccountModel is the persistence model for the CashAccount aggregate root.
type CashAccountModel struct {
	AuditedAggregateModel
	BankName       string                 `gorm:"type:varchar(200)"`
	AccountName    string                 `gorm:"type:varchar(200);not null"`
	AccountNumber  string                 `gorm:"type:varchar(50)"`
	InitialBalance decimal.Decimal        `gorm:"type:decimal(18,0);not null"`
	Type           treasury.AccountType   `gorm:"type:varchar(20);not null"`
	Status         treasury.AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (CashAccountModel) TableName() string {
	return "cash_accounts"
}

// ToDomain converts the persistence model to a domain CashAccount entity.
func (m *CashAccountModel) ToDomain() *treasury.CashAccount {
	account := &treasury.CashAccount{
		BankName:       m.BankName,
		AccountName:    m.AccountName,
		AccountNumber:  m.AccountNumber,
		InitialBalance: m.InitialBalance,
		Type:           m.Type,
		Status:         m.Status,
	}
	m.PopulateAuditedAggregateRoot(&account.AuditedAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain CashAccount entity.
func (m *CashAccountModel) FromDomain(account *treasury.CashAccount) {
	m.FromDomainAuditedAggregateRoot(account.AuditedAggregateRoot)
	m.BankName = account.BankName
	m.AccountName = account.AccountName
	m.AccountNumber = account.AccountNumber
	m.InitialBalance = account.InitialBalance
	m.Type = account.Type
	m.Status = account.Status
}

// CashAccountModelFromDomain creates a new persistence model from a domain CashAccount.
func CashAccountModelFromDomain(account *treasury.CashAccount) *CashAccountModel {
	m := &CashAccountModel{}
	m.FromDomain(account)
	return m
}
