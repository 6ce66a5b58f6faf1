package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormCashAccountRepository implements treasury.CashAccountRepository using GORM
type GormCashAccountRepository struct {
	db *gorm.DB
}

// NewGormCashAccountRepository creates a new GormCashAccountRepository
func NewGormCashAccountRepository(db *gorm.DB) *GormCashAccountRepository {
	return &GormCashAccountRepository{db: db}
}

// FindByID finds a cash account by its ID
func (r *GormCashAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.CashAccount, error) {
	var model models.CashAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds cash accounts matching the filter
func (r *GormCashAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]treasury.CashAccount, error) {
	var accountModels []models.CashAccountModel
	query := r.db.WithContext(ctx).Model(&models.CashAccountModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toDomainCashAccounts(accountModels), nil
}

// FindActive finds all active cash accounts
func (r *GormCashAccountRepository) FindActive(ctx context.Context) ([]treasury.CashAccount, error) {
	var accountModels []models.CashAccountModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", treasury.AccountStatusActive).
		Order("account_name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toDomainCashAccounts(accountModels), nil
}

// Count counts cash accounts matching the filter
func (r *GormCashAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CashAccountModel{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(account_name LIKE ? OR bank_name LIKE ? OR account_number LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a cash account
func (r *GormCashAccountRepository) Save(ctx context.Context, account *treasury.CashAccount) error {
	model := models.CashAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a cash account by ID
func (r *GormCashAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CashAccountModel{}, "id = ?", id).Error
}

func (r *GormCashAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(account_name LIKE ? OR bank_name LIKE ? OR account_number LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	sortField := ValidateSortField(filter.OrderBy, CashAccountSortFields, "created_at")
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

func toDomainCashAccounts(accountModels []models.CashAccountModel) []treasury.CashAccount {
	accounts := make([]treasury.CashAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts
}
