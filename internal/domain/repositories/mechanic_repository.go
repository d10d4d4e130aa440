package repositories

import (
	"context"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
)

// MechanicRepository defines the interface for mechanic data operations
type MechanicRepository interface {
	// Create inserts a mechanic. Rating and review count are ignored; they
	// are derived from reviews.
	Create(ctx context.Context, mechanic *entities.Mechanic) error

	// GetActiveByID retrieves an active mechanic with its offered service names
	GetActiveByID(ctx context.Context, id string) (*entities.MechanicDetail, error)

	// UpdateLocation moves a mechanic. A nil location clears it.
	UpdateLocation(ctx context.Context, id string, location *entities.Location) error

	// SetVerified sets the verification flag
	SetVerified(ctx context.Context, id string, verified bool) error

	// Deactivate hides a mechanic without deleting it
	Deactivate(ctx context.Context, id string) error

	// FindNearby runs the proximity search
	FindNearby(ctx context.Context, params NearbyParams) ([]entities.NearbyMechanic, error)
}

// NearbyParams defines parameters for proximity search. Validation happens
// before a repository sees these values.
type NearbyParams struct {
	Latitude    float64
	Longitude   float64
	RadiusMiles float64
	// ServiceFilter is a case-insensitive substring of a service name; empty
	// matches every service.
	ServiceFilter string
}
