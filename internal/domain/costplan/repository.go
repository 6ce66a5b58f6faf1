package costplan

import (
	"context"

	"github.com/google/uuid"
)

// CostTargetRepository defines the persistence interface for cost targets
type CostTargetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CostTarget, error)
	FindAll(ctx context.Context) ([]CostTarget, error)
	Save(ctx context.Context, target *CostTarget) error
	SaveWithLock(ctx context.Context, target *CostTarget) error
	Delete(ctx context.Context, id uuid.UUID) error
}
