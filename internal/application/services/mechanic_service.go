package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
	"github.com/zatekoja/mechanicfinder/pkg/geo"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultRadiusMiles applies when the caller omits a radius
	DefaultRadiusMiles = 10
	// MaxRadiusMiles bounds the candidate set of one search
	MaxRadiusMiles = 500
	// MaxServiceFilterLength bounds the service name filter
	MaxServiceFilterLength = 100
)

// NearbyQuery is the raw proximity search input as received from a client
type NearbyQuery struct {
	Latitude  string
	Longitude string
	Radius    string
	Service   string
}

// MechanicService handles mechanic search and administration
type MechanicService struct {
	repo    repositories.MechanicRepository
	timeout time.Duration
	metrics *observability.Metrics
}

// NewMechanicService creates a new mechanic service. A zero timeout leaves
// the caller's deadline untouched.
func NewMechanicService(repo repositories.MechanicRepository, timeout time.Duration, metrics *observability.Metrics) *MechanicService {
	return &MechanicService{repo: repo, timeout: timeout, metrics: metrics}
}

// ParseNearbyQuery validates raw query values and converts them to search
// parameters. Everything is checked before a store is touched.
func ParseNearbyQuery(q NearbyQuery) (repositories.NearbyParams, error) {
	var params repositories.NearbyParams

	lat, err := parseCoordinate("latitude", q.Latitude)
	if err != nil {
		return params, err
	}
	lng, err := parseCoordinate("longitude", q.Longitude)
	if err != nil {
		return params, err
	}

	radius := DefaultRadiusMiles
	if raw := strings.TrimSpace(q.Radius); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			return params, apperrors.NewValidationError("radius must be a positive integer number of miles")
		}
	}

	params = repositories.NearbyParams{
		Latitude:      lat,
		Longitude:     lng,
		RadiusMiles:   float64(radius),
		ServiceFilter: strings.TrimSpace(q.Service),
	}
	return params, ValidateNearbyParams(params)
}

func parseCoordinate(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewValidationError(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be a number")
	}
	return v, nil
}

// ValidateNearbyParams checks coordinate ranges, the radius bound and the
// filter length
func ValidateNearbyParams(p repositories.NearbyParams) error {
	switch {
	case !geo.ValidLatitude(p.Latitude):
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	case !geo.ValidLongitude(p.Longitude):
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	case p.RadiusMiles <= 0:
		return apperrors.NewValidationError("radius must be a positive integer number of miles")
	case p.RadiusMiles > MaxRadiusMiles:
		return apperrors.NewValidationError(fmt.Sprintf("radius must not exceed %d miles", MaxRadiusMiles))
	case utf8.RuneCountInString(p.ServiceFilter) > MaxServiceFilterLength:
		return apperrors.NewValidationError(fmt.Sprintf("service must be at most %d characters", MaxServiceFilterLength))
	}
	return nil
}

// SearchNearby returns verified mechanics within the radius, nearest first
func (s *MechanicService) SearchNearby(ctx context.Context, params repositories.NearbyParams) ([]entities.NearbyMechanic, error) {
	if err := ValidateNearbyParams(params); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "MechanicService.SearchNearby")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("search.latitude", params.Latitude),
		attribute.Float64("search.longitude", params.Longitude),
		attribute.Float64("search.radius_miles", params.RadiusMiles),
		attribute.String("search.service", params.ServiceFilter),
	)

	var results []entities.NearbyMechanic
	err := s.withTimeout(ctx, "find_nearby_mechanics", func(ctx context.Context) error {
		var err error
		results, err = s.repo.FindNearby(ctx, params)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.results", len(results)))
	return results, nil
}

// GetByID returns an active mechanic. Ids that are not UUIDs cannot exist
// and are reported as not found.
func (s *MechanicService) GetByID(ctx context.Context, id string) (*entities.MechanicDetail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFoundError("mechanic not found")
	}

	ctx, span := observability.StartSpan(ctx, "MechanicService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("mechanic.id", id))

	var detail *entities.MechanicDetail
	err := s.withTimeout(ctx, "get_mechanic", func(ctx context.Context) error {
		var err error
		detail, err = s.repo.GetActiveByID(ctx, id)
		return err
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return detail, nil
}

// Register creates a mechanic after checking its required fields
func (s *MechanicService) Register(ctx context.Context, mechanic *entities.Mechanic) error {
	if strings.TrimSpace(mechanic.BusinessName) == "" {
		return apperrors.NewValidationError("business_name is required")
	}
	if strings.TrimSpace(mechanic.Email) == "" {
		return apperrors.NewValidationError("email is required")
	}
	if loc := mechanic.Location; loc != nil && !(geo.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}).Valid() {
		return apperrors.NewValidationError("location is out of range")
	}
	return s.withTimeout(ctx, "create_mechanic", func(ctx context.Context) error {
		return s.repo.Create(ctx, mechanic)
	})
}

// Relocate moves a mechanic; nil clears its location
func (s *MechanicService) Relocate(ctx context.Context, id string, location *entities.Location) error {
	if location != nil && !(geo.Point{Latitude: location.Latitude, Longitude: location.Longitude}).Valid() {
		return apperrors.NewValidationError("location is out of range")
	}
	return s.withTimeout(ctx, "update_mechanic_location", func(ctx context.Context) error {
		return s.repo.UpdateLocation(ctx, id, location)
	})
}

// Verify marks a mechanic as verified
func (s *MechanicService) Verify(ctx context.Context, id string) error {
	return s.withTimeout(ctx, "verify_mechanic", func(ctx context.Context) error {
		return s.repo.SetVerified(ctx, id, true)
	})
}

// Deactivate hides a mechanic from search and detail lookups
func (s *MechanicService) Deactivate(ctx context.Context, id string) error {
	return s.withTimeout(ctx, "deactivate_mechanic", func(ctx context.Context) error {
		return s.repo.Deactivate(ctx, id)
	})
}

func (s *MechanicService) withTimeout(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return runWithTimeout(ctx, s.timeout, s.metrics, operation, fn)
}

// runWithTimeout applies the per-query deadline and records its duration.
// An expired deadline is reported as an internal error regardless of how
// the store surfaced it.
func runWithTimeout(ctx context.Context, timeout time.Duration, metrics *observability.Metrics, operation string, fn func(ctx context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	observability.RecordDBMetric(ctx, metrics, operation, time.Since(start))

	if err != nil {
		if ctxErr := apperrors.FromContext(ctx, operation); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
