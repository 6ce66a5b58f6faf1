package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTransactionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.TransactionModel{})
	require.NoError(t, err)

	return db
}

func newTestTransaction(t *testing.T, number string, txType treasury.TransactionType, amount int64) *treasury.Transaction {
	t.Helper()
	tx, err := treasury.NewTransaction(
		number,
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		txType,
		valueobject.NewMoneyVNDFromInt(amount),
		treasury.ScopeGeneral,
		"materials",
		"test transaction",
	)
	require.NoError(t, err)
	return tx
}

func TestGormTransactionRepository_SaveAndFind(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	tx := newTestTransaction(t, "PC-202506-00001", treasury.TransactionTypeExpense, 5_000_000)
	require.NoError(t, repo.Save(ctx, tx))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "PC-202506-00001", found.Number)
		assert.Equal(t, treasury.TransactionTypeExpense, found.Type)
		assert.Equal(t, treasury.TransactionStatusDraft, found.Status)
		assert.True(t, found.Amount.Equal(tx.Amount))
		assert.Equal(t, 1, found.GetVersion())
	})

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "PC-202506-00001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tx.ID, found.ID)
	})

	t.Run("returns nil for unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("returns nil for unknown number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "PC-209901-00001")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormTransactionRepository_FindAll(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	projectID := uuid.New()

	expense := newTestTransaction(t, "PC-202506-00001", treasury.TransactionTypeExpense, 1_000_000)
	require.NoError(t, expense.SetAssociations(&projectID, nil, nil, nil))
	income := newTestTransaction(t, "PT-202506-00001", treasury.TransactionTypeIncome, 20_000_000)
	other := newTestTransaction(t, "PC-202506-00002", treasury.TransactionTypeExpense, 3_000_000)

	for _, tx := range []*treasury.Transaction{expense, income, other} {
		require.NoError(t, repo.Save(ctx, tx))
	}

	t.Run("filters by type", func(t *testing.T) {
		txType := treasury.TransactionTypeIncome
		filter := treasury.TransactionFilter{Type: &txType}
		filter.Page = 1
		filter.PageSize = 10

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "PT-202506-00001", result[0].Number)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("filters by project", func(t *testing.T) {
		filter := treasury.TransactionFilter{ProjectID: &projectID}
		filter.Page = 1
		filter.PageSize = 10

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, expense.ID, result[0].ID)
	})

	t.Run("searches by number", func(t *testing.T) {
		filter := treasury.TransactionFilter{}
		filter.Page = 1
		filter.PageSize = 10
		filter.Search = "PC-202506"

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := treasury.TransactionFilter{}
		filter.Page = 1
		filter.PageSize = 2

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormTransactionRepository_SaveWithLock(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	tx := newTestTransaction(t, "PC-202506-00001", treasury.TransactionTypeExpense, 1_000_000)
	require.NoError(t, repo.Save(ctx, tx))

	t.Run("persists a version increment", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Submit(userID))

		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, treasury.TransactionStatusSubmitted, found.Status)
		assert.Equal(t, 2, found.GetVersion())
	})

	t.Run("rejects a stale write", func(t *testing.T) {
		// Two actors load version 2 concurrently
		first, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)

		approver := treasury.NewActor(uuid.New(), treasury.PermApprove)
		require.NoError(t, first.Approve(approver))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Approve(approver))
		err = repo.SaveWithLock(ctx, second)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VERSION_CONFLICT", domainErr.Code)
	})
}

func TestGormTransactionRepository_PaidQueries(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	actor := treasury.NewActor(uuid.New(), treasury.PermApprove, treasury.PermPay)

	paid := newTestTransaction(t, "PC-202506-00001", treasury.TransactionTypeExpense, 2_000_000)
	require.NoError(t, paid.Submit(uuid.New()))
	require.NoError(t, paid.Approve(actor))
	require.NoError(t, paid.Pay(actor, accountID))
	require.NoError(t, repo.Save(ctx, paid))

	draft := newTestTransaction(t, "PC-202506-00002", treasury.TransactionTypeExpense, 500_000)
	require.NoError(t, repo.Save(ctx, draft))

	t.Run("FindByAccount returns only paid settlements", func(t *testing.T) {
		result, err := repo.FindByAccount(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, paid.ID, result[0].ID)
	})

	t.Run("FindPaid excludes drafts", func(t *testing.T) {
		result, err := repo.FindPaid(ctx)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, treasury.TransactionStatusPaid, result[0].Status)
	})

	t.Run("FindPaidInPeriod bounds by date", func(t *testing.T) {
		from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
		result, err := repo.FindPaidInPeriod(ctx, from, to)
		require.NoError(t, err)
		assert.Len(t, result, 1)

		result, err = repo.FindPaidInPeriod(ctx,
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestGormTransactionRepository_GenerateNumber(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	period := time.Now().Format("200601")

	t.Run("starts at one per type", func(t *testing.T) {
		number, err := repo.GenerateNumber(ctx, treasury.TransactionTypeExpense)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PC-%s-00001", period), number)

		number, err = repo.GenerateNumber(ctx, treasury.TransactionTypeIncome)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PT-%s-00001", period), number)
	})

	t.Run("increments within the month", func(t *testing.T) {
		tx := newTestTransaction(t, fmt.Sprintf("PC-%s-00001", period), treasury.TransactionTypeExpense, 100_000)
		require.NoError(t, repo.Save(ctx, tx))

		number, err := repo.GenerateNumber(ctx, treasury.TransactionTypeExpense)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PC-%s-00002", period), number)
	})
}

func TestGormTransactionRepository_Delete(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	tx := newTestTransaction(t, "PC-202506-00001", treasury.TransactionTypeExpense, 100_000)
	require.NoError(t, repo.Save(ctx, tx))

	require.NoError(t, repo.Delete(ctx, tx.ID))

	found, err := repo.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
