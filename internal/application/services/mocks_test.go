package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
)

type mockMechanicRepository struct {
	mock.Mock
}

func (m *mockMechanicRepository) Create(ctx context.Context, mechanic *entities.Mechanic) error {
	return m.Called(ctx, mechanic).Error(0)
}

func (m *mockMechanicRepository) GetActiveByID(ctx context.Context, id string) (*entities.MechanicDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MechanicDetail), args.Error(1)
}

func (m *mockMechanicRepository) UpdateLocation(ctx context.Context, id string, location *entities.Location) error {
	return m.Called(ctx, id, location).Error(0)
}

func (m *mockMechanicRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}

func (m *mockMechanicRepository) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMechanicRepository) FindNearby(ctx context.Context, params repositories.NearbyParams) ([]entities.NearbyMechanic, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.NearbyMechanic), args.Error(1)
}

type mockServiceRepository struct {
	mock.Mock
}

func (m *mockServiceRepository) Create(ctx context.Context, service *entities.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *mockServiceRepository) UpsertTranslation(ctx context.Context, translation *entities.ServiceTranslation) error {
	return m.Called(ctx, translation).Error(0)
}

func (m *mockServiceRepository) ListLocalized(ctx context.Context, languageCode string) ([]entities.LocalizedService, error) {
	args := m.Called(ctx, languageCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LocalizedService), args.Error(1)
}

type mockOfferingRepository struct {
	mock.Mock
}

func (m *mockOfferingRepository) Upsert(ctx context.Context, offering *entities.MechanicService) error {
	return m.Called(ctx, offering).Error(0)
}

func (m *mockOfferingRepository) SetAvailability(ctx context.Context, mechanicID, serviceID string, available bool) error {
	return m.Called(ctx, mechanicID, serviceID, available).Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *entities.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepository) GetRatingSummary(ctx context.Context, mechanicID string) (*entities.RatingSummary, error) {
	args := m.Called(ctx, mechanicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RatingSummary), args.Error(1)
}
