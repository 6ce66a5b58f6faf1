package contract

import (
	"context"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContractFilter defines filtering options for contract queries
type ContractFilter struct {
	shared.Filter
	Type      *ContractType
	Status    *ContractStatus
	ProjectID *uuid.UUID
	PartnerID *uuid.UUID
}

// ContractRepository defines the persistence interface for contracts
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByNumber(ctx context.Context, number string) (*Contract, error)
	FindAll(ctx context.Context, filter ContractFilter) ([]Contract, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Contract, error)
	FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]Contract, error)
	Count(ctx context.Context, filter ContractFilter) (int64, error)
	Save(ctx context.Context, contract *Contract) error
	SaveWithLock(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateNumber(ctx context.Context) (string, error)
}
