package project

import (
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle status of a construction project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusPlanning || s == ProjectStatusInProgress || s == ProjectStatusCompleted
}

// Project represents a construction project aggregate root. It is a
// grouping anchor for transactions and contracts; financial progress
// is derived elsewhere, only the manually entered contract value
// lives here.
type Project struct {
	shared.AuditedAggregateRoot
	Code          string
	Name          string
	Address       string
	Status        ProjectStatus
	ContractValue decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
}

// NewProject creates a new project in PLANNING status
func NewProject(code, name, address string) (*Project, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}

	return &Project{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Code:                 code,
		Name:                 name,
		Address:              address,
		Status:               ProjectStatusPlanning,
	}, nil
}

// Update updates the project details
func (p *Project) Update(name, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	p.Name = name
	p.Address = address
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetContractValue sets the manually entered total contract value
func (p *Project) SetContractValue(value valueobject.Money) error {
	if value.Amount().LessThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_VALUE", "Contract value cannot be negative")
	}
	p.ContractValue = value.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Start moves the project into progress
func (p *Project) Start() error {
	if p.Status != ProjectStatusPlanning {
		return shared.NewDomainError("INVALID_STATE", "Can only start a project in planning status")
	}
	now := time.Now()
	p.Status = ProjectStatusInProgress
	p.StartDate = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Complete marks the project as completed
func (p *Project) Complete() error {
	if p.Status != ProjectStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Can only complete a project in progress")
	}
	now := time.Now()
	p.Status = ProjectStatusCompleted
	p.EndDate = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// GetContractValueMoney returns the contract value as Money
func (p *Project) GetContractValueMoney() valueobject.Money {
	return valueobject.NewMoneyVND(p.ContractValue)
}
