package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
	"github.com/zatekoja/mechanicfinder/pkg/geo"
)

// MechanicAdapter implements MechanicRepository on a Store
type MechanicAdapter struct {
	store *Store
}

// NewMechanicAdapter creates a new in-memory mechanic adapter
func NewMechanicAdapter(store *Store) repositories.MechanicRepository {
	return &MechanicAdapter{store: store}
}

func validLocation(loc *entities.Location) error {
	if loc == nil {
		return nil
	}
	if !geo.ValidLatitude(loc.Latitude) {
		return constraintError("mechanics_latitude_check")
	}
	if !geo.ValidLongitude(loc.Longitude) {
		return constraintError("mechanics_longitude_check")
	}
	return nil
}

func toPoint(loc *entities.Location) *geo.Point {
	if loc == nil {
		return nil
	}
	return &geo.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}
}

func copyMechanic(m *entities.Mechanic) entities.Mechanic {
	out := *m
	if m.Location != nil {
		loc := *m.Location
		out.Location = &loc
	}
	return out
}

// Create inserts a mechanic with a zero rating
func (a *MechanicAdapter) Create(ctx context.Context, mechanic *entities.Mechanic) error {
	if err := begin(ctx, "create mechanic"); err != nil {
		return err
	}
	if err := validLocation(mechanic.Location); err != nil {
		return err
	}
	if mechanic.YearsExperience < 0 {
		return constraintError("mechanics_years_experience_check")
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if mechanic.ID == "" {
		mechanic.ID = uuid.NewString()
	}
	if _, exists := s.mechanics[mechanic.ID]; exists {
		return constraintError("mechanics_pkey")
	}
	if _, taken := s.mechanicEmails[mechanic.Email]; taken {
		return constraintError("mechanics_email_key")
	}

	now := time.Now().UTC()
	mechanic.CreatedAt = now
	mechanic.UpdatedAt = now
	mechanic.Rating = 0
	mechanic.ReviewCount = 0

	stored := copyMechanic(mechanic)
	s.mechanics[stored.ID] = &stored
	s.mechanicEmails[stored.Email] = stored.ID
	s.index.set(stored.ID, toPoint(stored.Location))
	return nil
}

// GetActiveByID returns an active mechanic and its available service names
func (a *MechanicAdapter) GetActiveByID(ctx context.Context, id string) (*entities.MechanicDetail, error) {
	if err := begin(ctx, "get mechanic"); err != nil {
		return nil, err
	}

	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mechanics[id]
	if !ok || !m.IsActive {
		return nil, apperrors.NewNotFoundError("mechanic not found")
	}

	seen := make(map[string]struct{})
	names := []string{}
	for serviceID, offering := range s.offeringsByMechanic[id] {
		svc := s.services[serviceID]
		if !offering.IsAvailable || svc == nil || !svc.IsActive {
			continue
		}
		if _, dup := seen[svc.Name]; dup {
			continue
		}
		seen[svc.Name] = struct{}{}
		names = append(names, svc.Name)
	}
	sort.Strings(names)

	return &entities.MechanicDetail{Mechanic: copyMechanic(m), Services: names}, nil
}

// UpdateLocation moves the mechanic and re-derives its index entry
func (a *MechanicAdapter) UpdateLocation(ctx context.Context, id string, location *entities.Location) error {
	if err := validLocation(location); err != nil {
		return err
	}
	return a.update(ctx, id, "update mechanic location", func(m *entities.Mechanic) {
		if location == nil {
			m.Location = nil
		} else {
			loc := *location
			m.Location = &loc
		}
		a.store.index.set(id, toPoint(m.Location))
	})
}

// SetVerified sets the verification flag
func (a *MechanicAdapter) SetVerified(ctx context.Context, id string, verified bool) error {
	return a.update(ctx, id, "verify mechanic", func(m *entities.Mechanic) {
		m.IsVerified = verified
	})
}

// Deactivate marks the mechanic inactive
func (a *MechanicAdapter) Deactivate(ctx context.Context, id string) error {
	return a.update(ctx, id, "deactivate mechanic", func(m *entities.Mechanic) {
		m.IsActive = false
	})
}

func (a *MechanicAdapter) update(ctx context.Context, id, operation string, apply func(m *entities.Mechanic)) error {
	if err := begin(ctx, operation); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mechanics[id]
	if !ok {
		return apperrors.NewNotFoundError("mechanic not found")
	}
	apply(m)
	m.UpdatedAt = time.Now().UTC()
	return nil
}

type nearbyCandidate struct {
	row      entities.NearbyMechanic
	distance float64
}

// FindNearby returns active, verified mechanics within the radius that have
// at least one matching available offering, nearest first
func (a *MechanicAdapter) FindNearby(ctx context.Context, params repositories.NearbyParams) ([]entities.NearbyMechanic, error) {
	if err := begin(ctx, "search nearby mechanics"); err != nil {
		return nil, err
	}

	center := geo.Point{Latitude: params.Latitude, Longitude: params.Longitude}
	radius := geo.MilesToMeters(params.RadiusMiles)
	filter := strings.ToLower(params.ServiceFilter)

	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.index.candidates(center, radius)
	if !ok {
		ids = s.index.all()
	}

	var found []nearbyCandidate
	for _, id := range ids {
		m := s.mechanics[id]
		if m == nil || !m.IsActive || !m.IsVerified || m.Location == nil {
			continue
		}

		d := geo.DistanceMeters(center, *toPoint(m.Location))
		if d > radius {
			continue
		}

		minPrice, maxPrice, matched := s.priceBoundsLocked(id, filter)
		if !matched {
			continue
		}

		found = append(found, nearbyCandidate{
			row: entities.NearbyMechanic{
				ID:            m.ID,
				BusinessName:  m.BusinessName,
				DistanceMiles: geo.Round2(geo.MetersToMiles(d)),
				Rating:        m.Rating,
				MinPrice:      minPrice,
				MaxPrice:      maxPrice,
			},
			distance: d,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].row.ID < found[j].row.ID
	})

	results := make([]entities.NearbyMechanic, len(found))
	for i, c := range found {
		results[i] = c.row
	}
	return results, nil
}

// priceBoundsLocked aggregates the mechanic's available offerings on active
// services whose name contains filter. Callers hold s.mu.
func (s *Store) priceBoundsLocked(mechanicID, filter string) (minPrice, maxPrice float64, matched bool) {
	for serviceID, offering := range s.offeringsByMechanic[mechanicID] {
		svc := s.services[serviceID]
		if !offering.IsAvailable || svc == nil || !svc.IsActive {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(svc.Name), filter) {
			continue
		}
		if !matched || offering.MinPrice < minPrice {
			minPrice = offering.MinPrice
		}
		if !matched || offering.MaxPrice > maxPrice {
			maxPrice = offering.MaxPrice
		}
		matched = true
	}
	return minPrice, maxPrice, matched
}
