package repositories

import (
	"context"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
)

// ServiceRepository defines the interface for catalog data operations
type ServiceRepository interface {
	// Create inserts a catalog service
	Create(ctx context.Context, service *entities.Service) error

	// UpsertTranslation creates or replaces the text for one language
	UpsertTranslation(ctx context.Context, translation *entities.ServiceTranslation) error

	// ListLocalized returns active services resolved to languageCode, ordered
	// by category then resolved name
	ListLocalized(ctx context.Context, languageCode string) ([]entities.LocalizedService, error)
}

// OfferingRepository defines the interface for mechanic pricing operations
type OfferingRepository interface {
	// Upsert creates or replaces the offering for (mechanic, service)
	Upsert(ctx context.Context, offering *entities.MechanicService) error

	// SetAvailability toggles whether the offering is bookable
	SetAvailability(ctx context.Context, mechanicID, serviceID string, available bool) error
}
