package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

func TestNormalizeLanguage(t *testing.T) {
	valid := map[string]string{
		"":       "en",
		"es":     "es",
		" ES ":   "es",
		"pt-BR":  "pt-br",
		"zh-han": "zh-han",
	}
	for in, want := range valid {
		got, err := services.NormalizeLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"e", "toolonglang", "e5", "es_MX", "fr;drop"} {
		_, err := services.NormalizeLanguage(in)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), in)
	}
}

func TestCatalogService_ListServices(t *testing.T) {
	repo := new(mockServiceRepository)
	svc := services.NewCatalogService(repo, new(mockOfferingRepository), time.Second, nil)

	list := []entities.LocalizedService{{ID: "s1", Category: "maintenance", Name: "Cambio de aceite"}}
	repo.On("ListLocalized", mock.Anything, "es").Return(list, nil)

	got, lang, err := svc.ListServices(context.Background(), "ES")

	require.NoError(t, err)
	assert.Equal(t, "es", lang)
	assert.Equal(t, list, got)
	repo.AssertExpectations(t)
}

func TestCatalogService_ListServicesDefaultsToEnglish(t *testing.T) {
	repo := new(mockServiceRepository)
	svc := services.NewCatalogService(repo, new(mockOfferingRepository), time.Second, nil)
	repo.On("ListLocalized", mock.Anything, "en").Return([]entities.LocalizedService{}, nil)

	_, lang, err := svc.ListServices(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}

func TestCatalogService_ListServicesStorageFailure(t *testing.T) {
	repo := new(mockServiceRepository)
	svc := services.NewCatalogService(repo, new(mockOfferingRepository), time.Second, nil)
	repo.On("ListLocalized", mock.Anything, "en").
		Return(nil, apperrors.NewInternalError("failed to list services", errors.New("connection refused")))

	got, _, err := svc.ListServices(context.Background(), "en")

	assert.Nil(t, got)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestCatalogService_Translate(t *testing.T) {
	repo := new(mockServiceRepository)
	svc := services.NewCatalogService(repo, new(mockOfferingRepository), time.Second, nil)

	tr := &entities.ServiceTranslation{ServiceID: "s1", LanguageCode: "ES", Name: "Cambio de aceite"}
	repo.On("UpsertTranslation", mock.Anything, mock.MatchedBy(func(got *entities.ServiceTranslation) bool {
		return got.LanguageCode == "es"
	})).Return(nil)

	require.NoError(t, svc.Translate(context.Background(), tr))

	err := svc.Translate(context.Background(), &entities.ServiceTranslation{ServiceID: "s1", LanguageCode: "es"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	repo.AssertExpectations(t)
}

func TestCatalogService_SetOfferingSurfacesConstraint(t *testing.T) {
	offerings := new(mockOfferingRepository)
	svc := services.NewCatalogService(new(mockServiceRepository), offerings, time.Second, nil)

	offering := &entities.MechanicService{MechanicID: "m1", ServiceID: "s1", MinPrice: 80, MaxPrice: 50}
	offerings.On("Upsert", mock.Anything, offering).
		Return(apperrors.NewConstraintError("violates mechanic_services_price_range", nil))

	err := svc.SetOffering(context.Background(), offering)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))
	assert.Equal(t, 500, apperrors.HTTPStatus(err))

	err = svc.SetOffering(context.Background(), &entities.MechanicService{ServiceID: "s1"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCatalogService_AddService(t *testing.T) {
	repo := new(mockServiceRepository)
	svc := services.NewCatalogService(repo, new(mockOfferingRepository), time.Second, nil)

	assert.True(t, apperrors.IsType(svc.AddService(context.Background(), &entities.Service{Category: "repair"}), apperrors.ErrorTypeValidation))

	s := &entities.Service{Name: "Oil Change", Category: "maintenance", IsActive: true}
	repo.On("Create", mock.Anything, s).Return(nil)
	assert.NoError(t, svc.AddService(context.Background(), s))
}
