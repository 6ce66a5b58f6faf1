package persistence

import (
	"context"
	"testing"

	"github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/shared/valueobject"
	"github.com/buildcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProjectTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ProjectModel{}, &models.PartnerModel{})
	require.NoError(t, err)

	return db
}

func newTestProject(t *testing.T, code, name string) *project.Project {
	t.Helper()
	p, err := project.NewProject(code, name, "Thủ Đức, TP.HCM")
	require.NoError(t, err)
	return p
}

func TestGormProjectRepository_SaveAndFind(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p := newTestProject(t, "PRJ-001", "Nhà phố Khu B")
	require.NoError(t, p.SetContractValue(valueobject.NewMoneyVNDFromInt(2_500_000_000)))
	require.NoError(t, repo.Save(ctx, p))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "PRJ-001", found.Code)
		assert.Equal(t, project.ProjectStatusPlanning, found.Status)
		assert.True(t, found.ContractValue.Equal(p.ContractValue))
	})

	t.Run("finds by code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "PRJ-001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, p.ID, found.ID)
	})

	t.Run("returns nil for unknown code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "PRJ-999")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormProjectRepository_FindAll(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	active := newTestProject(t, "PRJ-001", "Nhà phố Khu B")
	require.NoError(t, active.Start())
	planning := newTestProject(t, "PRJ-002", "Biệt thự Quận 9")

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, planning))

	t.Run("filters by status", func(t *testing.T) {
		status := project.ProjectStatusInProgress
		filter := project.ProjectFilter{Status: &status}
		filter.Page = 1
		filter.PageSize = 10

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, active.ID, result[0].ID)
	})

	t.Run("searches by name", func(t *testing.T) {
		filter := project.ProjectFilter{}
		filter.Page = 1
		filter.PageSize = 10
		filter.Search = "Biệt thự"

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "PRJ-002", result[0].Code)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormProjectRepository_SaveWithLock(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p := newTestProject(t, "PRJ-001", "Nhà phố Khu B")
	require.NoError(t, repo.Save(ctx, p))

	t.Run("persists a version increment", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Start())
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ProjectStatusInProgress, found.Status)
		assert.NotNil(t, found.StartDate)
	})

	t.Run("rejects a stale write", func(t *testing.T) {
		first, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)

		require.NoError(t, first.Complete())
		require.NoError(t, second.Complete())

		require.NoError(t, repo.SaveWithLock(ctx, first))

		err = repo.SaveWithLock(ctx, second)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VERSION_CONFLICT", domainErr.Code)
	})
}

func TestGormProjectRepository_Delete(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormProjectRepository(db)
	ctx := context.Background()

	p := newTestProject(t, "PRJ-001", "Nhà phố Khu B")
	require.NoError(t, repo.Save(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func newTestPartner(t *testing.T, name string, partnerType project.PartnerType) *project.Partner {
	t.Helper()
	p, err := project.NewPartner(name, partnerType)
	require.NoError(t, err)
	return p
}

func TestGormPartnerRepository_SaveAndFind(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	supplier := newTestPartner(t, "Công ty Vật liệu Xây dựng ABC", project.PartnerTypeSupplier)
	require.NoError(t, supplier.Update("Công ty Vật liệu Xây dựng ABC", "0312345678", "0901234567", "", ""))
	require.NoError(t, repo.Save(ctx, supplier))

	found, err := repo.FindByID(ctx, supplier.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, project.PartnerTypeSupplier, found.Type)
	assert.Equal(t, "0312345678", found.TaxCode)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormPartnerRepository_SoftDeleteVisibility(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	kept := newTestPartner(t, "Đội thợ anh Tư", project.PartnerTypeSubcontractor)
	removed := newTestPartner(t, "Nhà cung cấp cũ", project.PartnerTypeSupplier)
	removed.Delete()

	require.NoError(t, repo.Save(ctx, kept))
	require.NoError(t, repo.Save(ctx, removed))

	filter := project.PartnerFilter{}
	filter.Page = 1
	filter.PageSize = 10

	result, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, kept.ID, result[0].ID)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormPartnerRepository_FilterByType(t *testing.T) {
	db := setupProjectTestDB(t)
	repo := NewGormPartnerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestPartner(t, "Chủ nhà Khu B", project.PartnerTypeCustomer)))
	require.NoError(t, repo.Save(ctx, newTestPartner(t, "Công ty Thép XYZ", project.PartnerTypeSupplier)))

	partnerType := project.PartnerTypeCustomer
	filter := project.PartnerFilter{Type: &partnerType}
	filter.Page = 1
	filter.PageSize = 10

	result, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Chủ nhà Khu B", result[0].Name)
}
