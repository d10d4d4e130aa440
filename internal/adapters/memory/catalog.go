package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

// ServiceAdapter implements ServiceRepository on a Store
type ServiceAdapter struct {
	store *Store
}

// NewServiceAdapter creates a new in-memory service catalog adapter
func NewServiceAdapter(store *Store) repositories.ServiceRepository {
	return &ServiceAdapter{store: store}
}

// Create inserts a catalog service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	if err := begin(ctx, "create service"); err != nil {
		return err
	}
	if service.EstimatedDuration < 0 {
		return constraintError("services_estimated_duration_check")
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	if _, exists := s.services[service.ID]; exists {
		return constraintError("services_pkey")
	}
	if _, taken := s.serviceNames[service.Name]; taken {
		return constraintError("services_name_key")
	}

	service.CreatedAt = time.Now().UTC()
	stored := *service
	s.services[stored.ID] = &stored
	s.serviceNames[stored.Name] = stored.ID
	return nil
}

// UpsertTranslation writes the text for one language
func (a *ServiceAdapter) UpsertTranslation(ctx context.Context, translation *entities.ServiceTranslation) error {
	if err := begin(ctx, "upsert translation"); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[translation.ServiceID]; !ok {
		return constraintError("service_translations_service_id_fkey")
	}

	byLang, ok := s.translations[translation.ServiceID]
	if !ok {
		byLang = make(map[string]entities.ServiceTranslation)
		s.translations[translation.ServiceID] = byLang
	}
	byLang[translation.LanguageCode] = *translation
	return nil
}

// ListLocalized returns active services resolved to languageCode
func (a *ServiceAdapter) ListLocalized(ctx context.Context, languageCode string) ([]entities.LocalizedService, error) {
	if err := begin(ctx, "list services"); err != nil {
		return nil, err
	}

	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []entities.LocalizedService{}
	for _, svc := range s.services {
		if !svc.IsActive {
			continue
		}
		item := entities.LocalizedService{
			ID:                svc.ID,
			Category:          svc.Category,
			EstimatedDuration: svc.EstimatedDuration,
			Name:              svc.Name,
			Description:       svc.Description,
		}
		if t, ok := s.translations[svc.ID][languageCode]; ok {
			item.Name = t.Name
			item.Description = t.Description
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// OfferingAdapter implements OfferingRepository on a Store
type OfferingAdapter struct {
	store *Store
}

// NewOfferingAdapter creates a new in-memory offering adapter
func NewOfferingAdapter(store *Store) repositories.OfferingRepository {
	return &OfferingAdapter{store: store}
}

func checkPrices(o *entities.MechanicService) error {
	switch {
	case o.MinPrice < 0:
		return constraintError("mechanic_services_min_price_check")
	case o.MinPrice > o.MaxPrice:
		return constraintError("mechanic_services_price_range")
	case !o.LaborCost.Ordered():
		return constraintError("mechanic_services_labor_range")
	case !o.PartsCost.Ordered():
		return constraintError("mechanic_services_parts_range")
	}
	for _, bound := range []*float64{o.LaborCost.Min, o.PartsCost.Min} {
		if bound != nil && *bound < 0 {
			return constraintError("mechanic_services_cost_check")
		}
	}
	return nil
}

func copyPriceRange(r entities.PriceRange) entities.PriceRange {
	var out entities.PriceRange
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}

// Upsert creates or replaces the offering for (mechanic, service)
func (a *OfferingAdapter) Upsert(ctx context.Context, offering *entities.MechanicService) error {
	if err := begin(ctx, "upsert offering"); err != nil {
		return err
	}
	if err := checkPrices(offering); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mechanics[offering.MechanicID]; !ok {
		return constraintError("mechanic_services_mechanic_id_fkey")
	}
	if _, ok := s.services[offering.ServiceID]; !ok {
		return constraintError("mechanic_services_service_id_fkey")
	}

	now := time.Now().UTC()
	key := offeringKey{mechanicID: offering.MechanicID, serviceID: offering.ServiceID}
	if existing, ok := s.offerings[key]; ok {
		offering.ID = existing.ID
		offering.CreatedAt = existing.CreatedAt
	} else {
		if offering.ID == "" {
			offering.ID = uuid.NewString()
		}
		offering.CreatedAt = now
	}
	offering.UpdatedAt = now

	stored := *offering
	stored.LaborCost = copyPriceRange(offering.LaborCost)
	stored.PartsCost = copyPriceRange(offering.PartsCost)
	s.offerings[key] = &stored

	byService, ok := s.offeringsByMechanic[offering.MechanicID]
	if !ok {
		byService = make(map[string]*entities.MechanicService)
		s.offeringsByMechanic[offering.MechanicID] = byService
	}
	byService[offering.ServiceID] = &stored
	return nil
}

// SetAvailability toggles whether the offering can be booked
func (a *OfferingAdapter) SetAvailability(ctx context.Context, mechanicID, serviceID string, available bool) error {
	if err := begin(ctx, "update offering availability"); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.offerings[offeringKey{mechanicID: mechanicID, serviceID: serviceID}]
	if !ok {
		return apperrors.NewNotFoundError("offering not found")
	}
	o.IsAvailable = available
	o.UpdatedAt = time.Now().UTC()
	return nil
}
