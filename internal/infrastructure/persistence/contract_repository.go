package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/contract"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormContractRepository implements contract.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a contract by its number
func (r *GormContractRepository) FindByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds contracts matching the filter
func (r *GormContractRepository) FindAll(ctx context.Context, filter contract.ContractFilter) ([]contract.Contract, error) {
	var contractModels []models.ContractModel
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&contractModels).Error; err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

// FindByProject finds all contracts for a project
func (r *GormContractRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]contract.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

// FindByPartner finds all contracts with a partner
func (r *GormContractRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]contract.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter contract.ContractFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	model := models.ContractModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the contract with optimistic locking
func (r *GormContractRepository) SaveWithLock(ctx context.Context, c *contract.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ContractModel
		if err := tx.Select("version").Where("id = ?", c.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				model := models.ContractModelFromDomain(c)
				return tx.Create(model).Error
			}
			return err
		}

		expectedVersion := c.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Contract has been modified by another user")
		}

		model := models.ContractModelFromDomain(c)
		result := tx.Model(model).
			Where("id = ? AND version = ?", c.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Contract has been modified by another user")
		}
		return nil
	})
}

// Delete removes a contract by ID
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ContractModel{}, "id = ?", id).Error
}

// GenerateNumber generates a new contract number
func (r *GormContractRepository) GenerateNumber(ctx context.Context) (string, error) {
	yearMonth := time.Now().Format("200601")

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ContractModel{}).
		Where("number LIKE ?", fmt.Sprintf("HD-%s-%%", yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("HD-%s-%04d", yearMonth, count+1), nil
}

func (r *GormContractRepository) applyFilter(query *gorm.DB, filter contract.ContractFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ContractSortFields, "created_at")
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

func (r *GormContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter contract.ContractFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(number LIKE ? OR name LIKE ?)", searchPattern, searchPattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}
	return query
}

func toDomainContracts(contractModels []models.ContractModel) []contract.Contract {
	contracts := make([]contract.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts
}
