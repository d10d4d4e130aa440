// Package memory implements the repository interfaces on in-process maps.
// It enforces the same constraints as the Postgres schema and keeps the
// derived location index and rating aggregate consistent on every write.
package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

type offeringKey struct {
	mechanicID string
	serviceID  string
}

// Store holds every table behind one lock. Writes that touch derived state
// (location index, rating) complete under a single write lock.
type Store struct {
	mu sync.RWMutex

	mechanics      map[string]*entities.Mechanic
	mechanicEmails map[string]string
	index          *geoIndex

	services     map[string]*entities.Service
	serviceNames map[string]string
	translations map[string]map[string]entities.ServiceTranslation

	offerings           map[offeringKey]*entities.MechanicService
	offeringsByMechanic map[string]map[string]*entities.MechanicService

	customers       map[string]*entities.Customer
	customerEmails  map[string]string
	bookings        map[string]*entities.Booking
	reviews         map[string]*entities.Review
	reviewByBooking map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		mechanics:           make(map[string]*entities.Mechanic),
		mechanicEmails:      make(map[string]string),
		index:               newGeoIndex(),
		services:            make(map[string]*entities.Service),
		serviceNames:        make(map[string]string),
		translations:        make(map[string]map[string]entities.ServiceTranslation),
		offerings:           make(map[offeringKey]*entities.MechanicService),
		offeringsByMechanic: make(map[string]map[string]*entities.MechanicService),
		customers:           make(map[string]*entities.Customer),
		customerEmails:      make(map[string]string),
		bookings:            make(map[string]*entities.Booking),
		reviews:             make(map[string]*entities.Review),
		reviewByBooking:     make(map[string]string),
	}
}

// Ping reports whether the store can serve requests
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func constraintError(constraint string) error {
	return apperrors.NewConstraintError("violates "+constraint, nil)
}

// begin fails fast on a cancelled request before taking a lock.
func begin(ctx context.Context, operation string) error {
	if err := apperrors.FromContext(ctx, operation); err != nil {
		return err
	}
	return nil
}
