package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/costplan"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormCostTargetRepository implements costplan.CostTargetRepository using GORM
type GormCostTargetRepository struct {
	db *gorm.DB
}

// NewGormCostTargetRepository creates a new GormCostTargetRepository
func NewGormCostTargetRepository(db *gorm.DB) *GormCostTargetRepository {
	return &GormCostTargetRepository{db: db}
}

// FindByID finds a cost target by its ID
func (r *GormCostTargetRepository) FindByID(ctx context.Context, id uuid.UUID) (*costplan.CostTarget, error) {
	var model models.CostTargetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all cost targets ordered by their configured sort order
func (r *GormCostTargetRepository) FindAll(ctx context.Context) ([]costplan.CostTarget, error) {
	var targetModels []models.CostTargetModel
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at ASC").
		Find(&targetModels).Error; err != nil {
		return nil, err
	}
	targets := make([]costplan.CostTarget, len(targetModels))
	for i, model := range targetModels {
		targets[i] = *model.ToDomain()
	}
	return targets, nil
}

// Save creates or updates a cost target
func (r *GormCostTargetRepository) Save(ctx context.Context, target *costplan.CostTarget) error {
	model := models.CostTargetModelFromDomain(target)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the cost target with optimistic locking
func (r *GormCostTargetRepository) SaveWithLock(ctx context.Context, target *costplan.CostTarget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.CostTargetModel
		if err := tx.Select("version").Where("id = ?", target.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				model := models.CostTargetModelFromDomain(target)
				return tx.Create(model).Error
			}
			return err
		}

		expectedVersion := target.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Cost target has been modified by another user")
		}

		model := models.CostTargetModelFromDomain(target)
		result := tx.Model(model).
			Where("id = ? AND version = ?", target.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Cost target has been modified by another user")
		}
		return nil
	})
}

// Delete removes a cost target by ID
func (r *GormCostTargetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CostTargetModel{}, "id = ?", id).Error
}
