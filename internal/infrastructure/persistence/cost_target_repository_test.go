package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/buildcore/backend/internal/domain/costplan"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCostTargetTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.CostTargetModel{})
	require.NoError(t, err)

	return db
}

func newTestCostTarget(t *testing.T, label string, percent string, key costplan.MappingKey) *costplan.CostTarget {
	t.Helper()
	target, err := costplan.NewCostTarget(label, decimal.RequireFromString(percent), key)
	require.NoError(t, err)
	return target
}

func TestGormCostTargetRepository_SaveAndFind(t *testing.T) {
	db := setupCostTargetTestDB(t)
	repo := NewGormCostTargetRepository(db)
	ctx := context.Background()

	target := newTestCostTarget(t, "Vật tư", "60", costplan.MappingMaterial)
	require.NoError(t, repo.Save(ctx, target))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, target.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Vật tư", found.Label)
		assert.Equal(t, costplan.MappingMaterial, found.MappingKey)
		assert.True(t, found.Percent.Equal(decimal.NewFromInt(60)))
	})

	t.Run("returns nil for unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormCostTargetRepository_FindAllOrdersBySortOrder(t *testing.T) {
	db := setupCostTargetTestDB(t)
	repo := NewGormCostTargetRepository(db)
	ctx := context.Background()

	labor := newTestCostTarget(t, "Nhân công", "20", costplan.MappingLabor)
	labor.SetSortOrder(2)
	material := newTestCostTarget(t, "Vật tư", "60", costplan.MappingMaterial)
	material.SetSortOrder(1)
	office := newTestCostTarget(t, "Văn phòng", "5", costplan.MappingOffice)
	office.SetSortOrder(3)

	for _, target := range []*costplan.CostTarget{labor, material, office} {
		require.NoError(t, repo.Save(ctx, target))
	}

	result, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "Vật tư", result[0].Label)
	assert.Equal(t, "Nhân công", result[1].Label)
	assert.Equal(t, "Văn phòng", result[2].Label)
}

func TestGormCostTargetRepository_SaveWithLock(t *testing.T) {
	db := setupCostTargetTestDB(t)
	repo := NewGormCostTargetRepository(db)
	ctx := context.Background()

	target := newTestCostTarget(t, "Vật tư", "60", costplan.MappingMaterial)
	require.NoError(t, repo.Save(ctx, target))

	first, err := repo.FindByID(ctx, target.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, target.ID)
	require.NoError(t, err)

	require.NoError(t, first.Update("Vật tư", decimal.NewFromInt(55)))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Update("Vật tư", decimal.NewFromInt(65)))
	err = repo.SaveWithLock(ctx, second)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VERSION_CONFLICT", domainErr.Code)

	found, err := repo.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, found.Percent.Equal(decimal.NewFromInt(55)))
}

func TestGormCostTargetRepository_Delete(t *testing.T) {
	db := setupCostTargetTestDB(t)
	repo := NewGormCostTargetRepository(db)
	ctx := context.Background()

	target := newTestCostTarget(t, "Khác", "5", costplan.MappingOther)
	require.NoError(t, repo.Save(ctx, target))

	require.NoError(t, repo.Delete(ctx, target.ID))

	found, err := repo.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
