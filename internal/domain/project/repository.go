package project

import (
	"context"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectFilter defines filtering options for project queries
type ProjectFilter struct {
	shared.Filter
	Status *ProjectStatus
}

// ProjectRepository defines the persistence interface for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByCode(ctx context.Context, code string) (*Project, error)
	FindAll(ctx context.Context, filter ProjectFilter) ([]Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	Save(ctx context.Context, project *Project) error
	SaveWithLock(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartnerFilter defines filtering options for partner queries
type PartnerFilter struct {
	shared.Filter
	Type *PartnerType
}

// PartnerRepository defines the persistence interface for partners
type PartnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	FindAll(ctx context.Context, filter PartnerFilter) ([]Partner, error)
	Count(ctx context.Context, filter PartnerFilter) (int64, error)
	Save(ctx context.Context, partner *Partner) error
	Delete(ctx context.Context, id uuid.UUID) error
}
