package persistence

import (
	"context"
	"testing"

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

func setupCashAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.CashAccountModel{})
	require.NoError(t, err)

	return db
}

func newTestCashAccount(t *testing.T, name string, accountType treasury.AccountType, initialBalance int64) *treasury.CashAccount {
	t.Helper()
	account, err := treasury.NewCashAccount(
		"Vietcombank",
		name,
		"0071000123456",
		valueobject.NewMoneyVNDFromInt(initialBalance),
		accountType,
	)
	require.NoError(t, err)
	return account
}

func TestGormCashAccountRepository_SaveAndFind(t *testing.T) {
	db := setupCashAccountTestDB(t)
	repo := NewGormCashAccountRepository(db)
	ctx := context.Background()

	account := newTestCashAccount(t, "Site cash box", treasury.AccountTypeCash, 10_000_000)
	require.NoError(t, repo.Save(ctx, account))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Site cash box", found.AccountName)
		assert.Equal(t, treasury.AccountTypeCash, found.Type)
		assert.True(t, found.InitialBalance.Equal(account.InitialBalance))
	})

	t.Run("returns nil for unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormCashAccountRepository_FindActive(t *testing.T) {
	db := setupCashAccountTestDB(t)
	repo := NewGormCashAccountRepository(db)
	ctx := context.Background()

	active := newTestCashAccount(t, "Company bank account", treasury.AccountTypeBank, 0)
	closed := newTestCashAccount(t, "Old cash box", treasury.AccountTypeCash, 0)
	require.NoError(t, closed.Close())

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, closed))

	result, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, active.ID, result[0].ID)
}

func TestGormCashAccountRepository_ListAndCount(t *testing.T) {
	db := setupCashAccountTestDB(t)
	repo := NewGormCashAccountRepository(db)
	ctx := context.Background()

	names := []string{"Cash box A", "Cash box B", "Main bank account"}
	for _, name := range names {
		require.NoError(t, repo.Save(ctx, newTestCashAccount(t, name, treasury.AccountTypeCash, 0)))
	}

	filter := shared.DefaultFilter()
	filter.Search = "Cash box"

	result, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
