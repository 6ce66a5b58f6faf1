package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements treasury.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a transaction by its document number
func (r *GormTransactionRepository) FindByNumber(ctx context.Context, number string) (*treasury.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter treasury.TransactionFilter) ([]treasury.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindByContract finds all transactions linked to a contract
func (r *GormTransactionRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]treasury.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindByAccount finds all paid transactions settled against an account
func (r *GormTransactionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]treasury.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("target_account_id = ? AND status = ?", accountID, treasury.TransactionStatusPaid).
		Order("date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindPaid finds all paid transactions
func (r *GormTransactionRepository) FindPaid(ctx context.Context) ([]treasury.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", treasury.TransactionStatusPaid).
		Order("date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindPaidInPeriod finds paid transactions with dates inside [from, to]
func (r *GormTransactionRepository) FindPaidInPeriod(ctx context.Context, from, to time.Time) ([]treasury.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND date >= ? AND date <= ?", treasury.TransactionStatusPaid, from, to).
		Order("date ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter treasury.TransactionFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *treasury.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the transaction with optimistic locking
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, txn *treasury.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.TransactionModel
		if err := tx.Select("version").Where("id = ?", txn.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// New record, just save
				model := models.TransactionModelFromDomain(txn)
				return tx.Create(model).Error
			}
			return err
		}

		// Domain model already incremented version
		expectedVersion := txn.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("VERSION_CONFLICT", "Transaction has been modified by another user")
		}

		model := models.TransactionModelFromDomain(txn)
		result := tx.Model(model).
			Where("id = ? AND version = ?", txn.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("VERSION_CONFLICT", "Transaction has been modified by another user")
		}
		return nil
	})
}

// Delete removes a transaction by ID
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id).Error
}

// GenerateNumber generates a new document number for the given transaction type.
// Income vouchers use the PT prefix, expense vouchers PC.
func (r *GormTransactionRepository) GenerateNumber(ctx context.Context, txType treasury.TransactionType) (string, error) {
	prefix := "PC"
	if txType == treasury.TransactionTypeIncome {
		prefix = "PT"
	}
	yearMonth := time.Now().Format("200601")

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("number LIKE ?", fmt.Sprintf("%s-%s-%%", prefix, yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", prefix, yearMonth, count+1), nil
}

// applyFilter applies filter conditions to query including sorting and pagination
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter treasury.TransactionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, TransactionSortFields, "date")
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

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter treasury.TransactionFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(number LIKE ? OR description LIKE ? OR category LIKE ?)", searchPattern, searchPattern, searchPattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Scope != nil {
		query = query.Where("scope = ?", *filter.Scope)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.AccountID != nil {
		query = query.Where("target_account_id = ?", *filter.AccountID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", filter.ToDate)
	}
	return query
}

func toDomainTransactions(txModels []models.TransactionModel) []treasury.Transaction {
	transactions := make([]treasury.Transaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions
}
