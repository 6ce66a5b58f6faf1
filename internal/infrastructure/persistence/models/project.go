package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildcore/backend/internal/domain/project"
)

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	AuditedAggregateModel
	Code          string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string                `gorm:"type:varchar(300);not null"`
	Address       string                `gorm:"type:varchar(500)"`
	Status        project.ProjectStatus `gorm:"type:varchar(20);not null;default:'PLANNING';index"`
	ContractValue decimal.Decimal       `gorm:"type:decimal(18,0);not null"`
	StartDate     *time.Time
	EndDate       *time.Time
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		Code:          m.Code,
		Name:          m.Name,
		Address:       m.Address,
		Status:        m.Status,
		ContractValue: m.ContractValue,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
	}
	m.PopulateAuditedAggregateRoot(&p.AuditedAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Address = p.Address
	m.Status = p.Status
	m.ContractValue = p.ContractValue
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
}

// ProjectModelFromDomain creates a new persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// PartnerModel is the persistence model for the Partner aggregate root.
type PartnerModel struct {
	AuditedAggregateModel
	Name      string              `gorm:"type:varchar(300);not null"`
	Type      project.PartnerType `gorm:"type:varchar(30);not null;index"`
	TaxCode   string              `gorm:"type:varchar(50);index"`
	Phone     string              `gorm:"type:varchar(30)"`
	Email     string              `gorm:"type:varchar(200)"`
	Address   string              `gorm:"type:varchar(500)"`
	IsDeleted bool                `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *project.Partner {
	p := &project.Partner{
		Name:      m.Name,
		Type:      m.Type,
		TaxCode:   m.TaxCode,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		IsDeleted: m.IsDeleted,
	}
	m.PopulateAuditedAggregateRoot(&p.AuditedAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *project.Partner) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.TaxCode = p.TaxCode
	m.Phone = p.Phone
	m.Email = p.Email
	m.Address = p.Address
	m.IsDeleted = p.IsDeleted
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *project.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}
