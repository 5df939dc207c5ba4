package services

import (
	"context"

	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock implementation of ProfileRepository for testing
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

func (m *MockProfileRepository) Set(ctx context.Context, userID string, fields models.ProfileFields) error {
	return m.Called(ctx, userID, fields).Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, userID string, patch models.ProfilePatch) error {
	return m.Called(ctx, userID, patch).Error(0)
}

// MockParcelRepository is a mock implementation of ParcelRepository for testing
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) List(ctx context.Context, scope repository.ParcelScope) ([]models.Parcel, error) {
	args := m.Called(ctx, scope)
	parcels, _ := args.Get(0).([]models.Parcel)
	return parcels, args.Error(1)
}

func (m *MockParcelRepository) Get(ctx context.Context, scope repository.ParcelScope, id string) (*models.Parcel, error) {
	args := m.Called(ctx, scope, id)
	parcel, _ := args.Get(0).(*models.Parcel)
	return parcel, args.Error(1)
}

func (m *MockParcelRepository) Add(ctx context.Context, scope repository.ParcelScope, fields models.ParcelFields) (string, error) {
	args := m.Called(ctx, scope, fields)
	return args.String(0), args.Error(1)
}

func (m *MockParcelRepository) Update(ctx context.Context, scope repository.ParcelScope, id string, patch models.ParcelPatch) error {
	return m.Called(ctx, scope, id, patch).Error(0)
}

func (m *MockParcelRepository) Delete(ctx context.Context, scope repository.ParcelScope, id string) error {
	return m.Called(ctx, scope, id).Error(0)
}

// MockZoneRepository is a mock implementation of ZoneRepository for testing
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) List(ctx context.Context, scope repository.ZoneScope) ([]models.Zone, error) {
	args := m.Called(ctx, scope)
	zones, _ := args.Get(0).([]models.Zone)
	return zones, args.Error(1)
}

func (m *MockZoneRepository) Get(ctx context.Context, scope repository.ZoneScope, id string) (*models.Zone, error) {
	args := m.Called(ctx, scope, id)
	zone, _ := args.Get(0).(*models.Zone)
	return zone, args.Error(1)
}

func (m *MockZoneRepository) Add(ctx context.Context, scope repository.ZoneScope, fields models.ZoneFields) (string, error) {
	args := m.Called(ctx, scope, fields)
	return args.String(0), args.Error(1)
}

func (m *MockZoneRepository) Update(ctx context.Context, scope repository.ZoneScope, id string, patch models.ZonePatch) error {
	return m.Called(ctx, scope, id, patch).Error(0)
}

func (m *MockZoneRepository) Delete(ctx context.Context, scope repository.ZoneScope, id string) error {
	return m.Called(ctx, scope, id).Error(0)
}

// MockHarvestRepository is a mock implementation of HarvestRepository for testing
type MockHarvestRepository struct {
	mock.Mock
}

func (m *MockHarvestRepository) List(ctx context.Context, scope repository.HarvestScope) ([]models.Harvest, error) {
	args := m.Called(ctx, scope)
	harvests, _ := args.Get(0).([]models.Harvest)
	return harvests, args.Error(1)
}

func (m *MockHarvestRepository) Get(ctx context.Context, scope repository.HarvestScope, id string) (*models.Harvest, error) {
	args := m.Called(ctx, scope, id)
	harvest, _ := args.Get(0).(*models.Harvest)
	return harvest, args.Error(1)
}

func (m *MockHarvestRepository) Add(ctx context.Context, scope repository.HarvestScope, fields models.HarvestFields) (string, error) {
	args := m.Called(ctx, scope, fields)
	return args.String(0), args.Error(1)
}

func (m *MockHarvestRepository) Update(ctx context.Context, scope repository.HarvestScope, id string, patch models.HarvestPatch) error {
	return m.Called(ctx, scope, id, patch).Error(0)
}

func (m *MockHarvestRepository) Delete(ctx context.Context, scope repository.HarvestScope, id string) error {
	return m.Called(ctx, scope, id).Error(0)
}
