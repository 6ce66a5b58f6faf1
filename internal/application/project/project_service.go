package project

import (
	"context"
	"time"

	"github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectService provides application-level project and partner operations
type ProjectService struct {
	projectRepo project.ProjectRepository
	partnerRepo project.PartnerRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.ProjectRepository, partnerRepo project.PartnerRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		partnerRepo: partnerRepo,
	}
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Address       string          `json:"address,omitempty"`
	Status        string          `json:"status"`
	ContractValue decimal.Decimal `json:"contract_value"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	TaxCode   string    `json:"tax_code,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Code      string     `json:"code" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Address   string     `json:"address"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// SetContractValueRequest sets the manually entered contract value
type SetContractValueRequest struct {
	ContractValue decimal.Decimal `json:"contract_value" binding:"required"`
}

// CreatePartnerRequest represents a request to create a partner
type CreatePartnerRequest struct {
	Name      string     `json:"name" binding:"required"`
	Type      string     `json:"type" binding:"required"`
	TaxCode   string     `json:"tax_code"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdatePartnerRequest represents a request to update a partner
type UpdatePartnerRequest struct {
	Name    string `json:"name" binding:"required"`
	TaxCode string `json:"tax_code"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	existing, err := s.projectRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A project with this code already exists")
	}

	p, err := project.NewProject(req.Code, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return toProjectResponse(p), nil
}

// GetProjectByID gets a project by ID
func (s *ProjectService) GetProjectByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// UpdateProject updates a project's details
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.Address); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return toProjectResponse(p), nil
}

// SetProjectContractValue sets the manually entered total contract value
func (s *ProjectService) SetProjectContractValue(ctx context.Context, id uuid.UUID, req SetContractValueRequest) (*ProjectResponse, error) {
	p, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.SetContractValue(valueobject.NewMoneyVND(req.ContractValue)); err != nil {
		return nil, err
	}

	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}

	return toProjectResponse(p), nil
}

// StartProject moves a project into progress
func (s *ProjectService) StartProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, id, (*project.Project).Start)
}

// CompleteProject marks a project as completed
func (s *ProjectService) CompleteProject(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	return s.transition(ctx, id, (*project.Project).Complete)
}

// ListProjects lists projects with filtering
func (s *ProjectService) ListProjects(ctx context.Context, filter project.ProjectFilter) ([]ProjectResponse, int64, error) {
	projects, err := s.projectRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = *toProjectResponse(&projects[i])
	}
	return responses, total, nil
}

// CreatePartner creates a new partner
func (s *ProjectService) CreatePartner(ctx context.Context, req CreatePartnerRequest) (*PartnerResponse, error) {
	p, err := project.NewPartner(req.Name, project.PartnerType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.TaxCode, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return toPartnerResponse(p), nil
}

// GetPartnerByID gets a partner by ID
func (s *ProjectService) GetPartnerByID(ctx context.Context, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.findPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// UpdatePartner updates a partner's details
func (s *ProjectService) UpdatePartner(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*PartnerResponse, error) {
	p, err := s.findPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.TaxCode, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	return toPartnerResponse(p), nil
}

// DeletePartner soft-deletes a partner
func (s *ProjectService) DeletePartner(ctx context.Context, id uuid.UUID) error {
	p, err := s.findPartner(ctx, id)
	if err != nil {
		return err
	}
	p.Delete()
	return s.partnerRepo.Save(ctx, p)
}

// ListPartners lists partners with filtering
func (s *ProjectService) ListPartners(ctx context.Context, filter project.PartnerFilter) ([]PartnerResponse, int64, error) {
	partners, err := s.partnerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.partnerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PartnerResponse, len(partners))
	for i := range partners {
		responses[i] = *toPartnerResponse(&partners[i])
	}
	return responses, total, nil
}

func (s *ProjectService) transition(ctx context.Context, id uuid.UUID, fn func(*project.Project) error) (*ProjectResponse, error) {
	p, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.projectRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

func (s *ProjectService) findProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Project not found")
	}
	return p, nil
}

func (s *ProjectService) findPartner(ctx context.Context, id uuid.UUID) (*project.Partner, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.IsDeleted {
		return nil, shared.NewDomainError("NOT_FOUND", "Partner not found")
	}
	return p, nil
}

func toProjectResponse(p *project.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Address:       p.Address,
		Status:        string(p.Status),
		ContractValue: p.ContractValue,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

func toPartnerResponse(p *project.Partner) *PartnerResponse {
	return &PartnerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		TaxCode:   p.TaxCode,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
