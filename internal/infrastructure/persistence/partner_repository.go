package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormPartnerRepository implements project.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds partners matching the filter. Soft-deleted partners are excluded.
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter project.PartnerFilter) ([]project.Partner, error) {
	var partnerModels []models.PartnerModel
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("is_deleted = ?", false)
	query = r.applyPartnerFilter(query, filter)

	if err := query.Find(&partnerModels).Error; err != nil {
		return nil, err
	}
	partners := make([]project.Partner, len(partnerModels))
	for i, model := range partnerModels {
		partners[i] = *model.ToDomain()
	}
	return partners, nil
}

// Count counts partners matching the filter. Soft-deleted partners are excluded.
func (r *GormPartnerRepository) Count(ctx context.Context, filter project.PartnerFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("is_deleted = ?", false)
	query = r.applyPartnerConditions(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *project.Partner) error {
	model := models.PartnerModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a partner row by ID. The application layer prefers
// soft deletion via the domain's Delete method; this is for cleanup.
func (r *GormPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PartnerModel{}, "id = ?", id).Error
}

func (r *GormPartnerRepository) applyPartnerFilter(query *gorm.DB, filter project.PartnerFilter) *gorm.DB {
	query = r.applyPartnerConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PartnerSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

func (r *GormPartnerRepository) applyPartnerConditions(query *gorm.DB, filter project.PartnerFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR tax_code LIKE ? OR phone LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return query
}
