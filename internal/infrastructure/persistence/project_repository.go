package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormProjectRepository implements project.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a project by its code
func (r *GormProjectRepository) FindByCode(ctx context.Context, code string) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds projects matching the filter
func (r *GormProjectRepository) FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	query = r.applyProjectFilter(query, filter)

	if err := query.Find(&projectModels).Error; err != nil {
		return nil, err
	}
	projects := make([]project.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = *model.ToDomain()
	}
	return projects, nil
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter project.ProjectFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	query = r.applyProjectConditions(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the project with optimistic locking
func (r *GormProjectRepository) SaveWithLock(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ProjectModel
		if err := tx.Select("version").Where("id = ?", p.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				model := models.ProjectModelFromDomain(p)
				return tx.Create(model).Error
			}
			return err
		}

		expectedVersion := p.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Project has been modified by another user")
		}

		model := models.ProjectModelFromDomain(p)
		result := tx.Model(model).
			Where("id = ? AND version = ?", p.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Project has been modified by another user")
		}
		return nil
	})
}

// Delete removes a project by ID
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProjectModel{}, "id = ?", id).Error
}

func (r *GormProjectRepository) applyProjectFilter(query *gorm.DB, filter project.ProjectFilter) *gorm.DB {
	query = r.applyProjectConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
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

func (r *GormProjectRepository) applyProjectConditions(query *gorm.DB, filter project.ProjectFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code LIKE ? OR name LIKE ? OR address LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
