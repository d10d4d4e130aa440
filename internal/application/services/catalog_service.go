package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// CatalogService handles the localized service catalog and mechanic pricing
type CatalogService struct {
	services  repositories.ServiceRepository
	offerings repositories.OfferingRepository
	timeout   time.Duration
	metrics   *observability.Metrics
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	services repositories.ServiceRepository,
	offerings repositories.OfferingRepository,
	timeout time.Duration,
	metrics *observability.Metrics,
) *CatalogService {
	return &CatalogService{services: services, offerings: offerings, timeout: timeout, metrics: metrics}
}

// NormalizeLanguage lowercases code and checks it is 2-8 letters or
// hyphens. An empty code selects the default language.
func NormalizeLanguage(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return entities.DefaultLanguage, nil
	}
	if len(code) < 2 || len(code) > 8 {
		return "", apperrors.NewValidationError("language must be 2 to 8 characters")
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && r != '-' {
			return "", apperrors.NewValidationError("language may only contain letters and '-'")
		}
	}
	return code, nil
}

// ListServices returns every active service with text in language, falling
// back to the canonical text where no translation exists
func (s *CatalogService) ListServices(ctx context.Context, language string) ([]entities.LocalizedService, string, error) {
	lang, err := NormalizeLanguage(language)
	if err != nil {
		return nil, "", err
	}

	ctx, span := observability.StartSpan(ctx, "CatalogService.ListServices")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.language", lang))

	var list []entities.LocalizedService
	err = runWithTimeout(ctx, s.timeout, s.metrics, "list_services", func(ctx context.Context) error {
		var err error
		list, err = s.services.ListLocalized(ctx, lang)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, "", err
	}
	return list, lang, nil
}

// AddService creates a catalog entry
func (s *CatalogService) AddService(ctx context.Context, service *entities.Service) error {
	if strings.TrimSpace(service.Name) == "" {
		return apperrors.NewValidationError("service name is required")
	}
	if strings.TrimSpace(service.Category) == "" {
		return apperrors.NewValidationError("service category is required")
	}
	return runWithTimeout(ctx, s.timeout, s.metrics, "create_service", func(ctx context.Context) error {
		return s.services.Create(ctx, service)
	})
}

// Translate adds or replaces the text of a service in one language
func (s *CatalogService) Translate(ctx context.Context, translation *entities.ServiceTranslation) error {
	lang, err := NormalizeLanguage(translation.LanguageCode)
	if err != nil {
		return err
	}
	if strings.TrimSpace(translation.Name) == "" {
		return apperrors.NewValidationError("translated name is required")
	}
	translation.LanguageCode = lang
	return runWithTimeout(ctx, s.timeout, s.metrics, "upsert_translation", func(ctx context.Context) error {
		return s.services.UpsertTranslation(ctx, translation)
	})
}

// SetOffering creates or replaces a mechanic's price for a service. Price
// ordering is left to the store, which rejects it as a constraint violation.
func (s *CatalogService) SetOffering(ctx context.Context, offering *entities.MechanicService) error {
	if offering.MechanicID == "" || offering.ServiceID == "" {
		return apperrors.NewValidationError("mechanic_id and service_id are required")
	}
	return runWithTimeout(ctx, s.timeout, s.metrics, "upsert_offering", func(ctx context.Context) error {
		return s.offerings.Upsert(ctx, offering)
	})
}

// SetAvailability toggles whether a mechanic currently offers a service
func (s *CatalogService) SetAvailability(ctx context.Context, mechanicID, serviceID string, available bool) error {
	return runWithTimeout(ctx, s.timeout, s.metrics, "set_offering_availability", func(ctx context.Context) error {
		return s.offerings.SetAvailability(ctx, mechanicID, serviceID, available)
	})
}
