package project

import (
	"context"
	"errors"
	"testing"

	domainproject "github.com/buildcore/backend/internal/domain/project"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainproject.Project, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domainproject.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) FindByCode(ctx context.Context, code string) (*domainproject.Project, error) {
	args := m.Called(ctx, code)
	if p := args.Get(0); p != nil {
		return p.(*domainproject.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter domainproject.ProjectFilter) ([]domainproject.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domainproject.Project), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter domainproject.ProjectFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *domainproject.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveWithLock(ctx context.Context, p *domainproject.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainproject.Partner, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domainproject.Partner), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter domainproject.PartnerFilter) ([]domainproject.Partner, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domainproject.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Count(ctx context.Context, filter domainproject.PartnerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *domainproject.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService() (*ProjectService, *MockProjectRepository, *MockPartnerRepository) {
	projectRepo := new(MockProjectRepository)
	partnerRepo := new(MockPartnerRepository)
	return NewProjectService(projectRepo, partnerRepo), projectRepo, partnerRepo
}

func TestProjectService_CreateProject(t *testing.T) {
	service, projectRepo, _ := newService()

	projectRepo.On("FindByCode", mock.Anything, "PRJ-001").Return(nil, nil)
	projectRepo.On("Save", mock.Anything, mock.AnythingOfType("*project.Project")).Return(nil)

	resp, err := service.CreateProject(context.Background(), CreateProjectRequest{
		Code:    "PRJ-001",
		Name:    "Nhà phố Khu B",
		Address: "Thủ Đức, TP.HCM",
	})

	require.NoError(t, err)
	assert.Equal(t, "PRJ-001", resp.Code)
	assert.Equal(t, "PLANNING", resp.Status)
	projectRepo.AssertExpectations(t)
}

func TestProjectService_CreateProject_DuplicateCode(t *testing.T) {
	service, projectRepo, _ := newService()

	existing, err := domainproject.NewProject("PRJ-001", "Nhà phố Khu B", "")
	require.NoError(t, err)
	projectRepo.On("FindByCode", mock.Anything, "PRJ-001").Return(existing, nil)

	_, err = service.CreateProject(context.Background(), CreateProjectRequest{
		Code: "PRJ-001",
		Name: "Nhà phố Khu B",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	projectRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProjectService_SetContractValue(t *testing.T) {
	service, projectRepo, _ := newService()

	p, err := domainproject.NewProject("PRJ-001", "Nhà phố Khu B", "")
	require.NoError(t, err)
	projectRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	projectRepo.On("SaveWithLock", mock.Anything, p).Return(nil)

	resp, err := service.SetProjectContractValue(context.Background(), p.ID, SetContractValueRequest{
		ContractValue: decimal.NewFromInt(2_500_000_000),
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2_500_000_000).Equal(resp.ContractValue))
}

func TestProjectService_StartAndComplete(t *testing.T) {
	service, projectRepo, _ := newService()

	p, err := domainproject.NewProject("PRJ-001", "Nhà phố Khu B", "")
	require.NoError(t, err)
	projectRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	projectRepo.On("SaveWithLock", mock.Anything, p).Return(nil)

	resp, err := service.StartProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", resp.Status)
	assert.NotNil(t, resp.StartDate)

	resp, err = service.CompleteProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.NotNil(t, resp.EndDate)
}

func TestProjectService_CompleteProject_FromPlanning(t *testing.T) {
	service, projectRepo, _ := newService()

	p, err := domainproject.NewProject("PRJ-001", "Nhà phố Khu B", "")
	require.NoError(t, err)
	projectRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	_, err = service.CompleteProject(context.Background(), p.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	projectRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestProjectService_GetProjectByID_NotFound(t *testing.T) {
	service, projectRepo, _ := newService()

	id := uuid.New()
	projectRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := service.GetProjectByID(context.Background(), id)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestProjectService_CreatePartner(t *testing.T) {
	service, _, partnerRepo := newService()

	partnerRepo.On("Save", mock.Anything, mock.AnythingOfType("*project.Partner")).Return(nil)

	resp, err := service.CreatePartner(context.Background(), CreatePartnerRequest{
		Name:    "Công ty Vật liệu Xây dựng ABC",
		Type:    "SUPPLIER",
		TaxCode: "0312345678",
	})

	require.NoError(t, err)
	assert.Equal(t, "SUPPLIER", resp.Type)
	assert.Equal(t, "0312345678", resp.TaxCode)
}

func TestProjectService_CreatePartner_InvalidType(t *testing.T) {
	service, _, partnerRepo := newService()

	_, err := service.CreatePartner(context.Background(), CreatePartnerRequest{
		Name: "Ai đó",
		Type: "VENDOR",
	})

	require.Error(t, err)
	partnerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProjectService_DeletePartner(t *testing.T) {
	service, _, partnerRepo := newService()

	p, err := domainproject.NewPartner("Nhà cung cấp cũ", domainproject.PartnerTypeSupplier)
	require.NoError(t, err)
	partnerRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	partnerRepo.On("Save", mock.Anything, p).Return(nil)

	require.NoError(t, service.DeletePartner(context.Background(), p.ID))
	assert.True(t, p.IsDeleted)

	// Deleted partners are invisible to reads
	_, err = service.GetPartnerByID(context.Background(), p.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestProjectService_ListProjects_RepoError(t *testing.T) {
	service, projectRepo, _ := newService()

	filter := domainproject.ProjectFilter{Filter: shared.DefaultFilter()}
	projectRepo.On("FindAll", mock.Anything, filter).Return([]domainproject.Project{}, errors.New("connection reset"))

	_, _, err := service.ListProjects(context.Background(), filter)
	require.Error(t, err)
}
