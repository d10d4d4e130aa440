// Package seed loads the demo catalog: services with Spanish translations,
// Los Angeles area mechanics with their prices, and a few published reviews.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
)

// Fixed ids so seeded records can be addressed directly
const (
	DowntownAutoID   = "a1b2c3d4-0001-4000-8000-000000000001"
	HollywoodMotorID = "a1b2c3d4-0002-4000-8000-000000000002"
	PasadenaGarageID = "a1b2c3d4-0003-4000-8000-000000000003"
	SantaMonicaID    = "a1b2c3d4-0004-4000-8000-000000000004"
	PendingShopID    = "a1b2c3d4-0005-4000-8000-000000000005"

	OilChangeID   = "b1b2c3d4-0001-4000-8000-000000000001"
	BrakeRepairID = "b1b2c3d4-0002-4000-8000-000000000002"
	TireRotateID  = "b1b2c3d4-0003-4000-8000-000000000003"
	BatteryID     = "b1b2c3d4-0004-4000-8000-000000000004"
	DiagnosticsID = "b1b2c3d4-0005-4000-8000-000000000005"
)

// Services bundles the application services the fixtures are written through
type Services struct {
	Mechanics *services.MechanicService
	Catalog   *services.CatalogService
	Reviews   *services.ReviewService
}

// Result counts what was written
type Result struct {
	Services  int
	Mechanics int
	Offerings int
	Reviews   int
	Skipped   bool
}

type translation struct {
	name        string
	description string
}

var catalog = []struct {
	service entities.Service
	es      translation
}{
	{
		service: entities.Service{ID: OilChangeID, Name: "Oil Change", Category: "maintenance", EstimatedDuration: 30,
			Description: "Drain and replace engine oil and filter"},
		es: translation{"Cambio de aceite", "Vaciar y reemplazar el aceite del motor y el filtro"},
	},
	{
		service: entities.Service{ID: BrakeRepairID, Name: "Brake Repair", Category: "repair", EstimatedDuration: 120,
			Description: "Replace pads and resurface rotors"},
		es: translation{"Reparación de frenos", "Cambio de pastillas y rectificado de discos"},
	},
	{
		service: entities.Service{ID: TireRotateID, Name: "Tire Rotation", Category: "maintenance", EstimatedDuration: 45,
			Description: "Rotate and balance all four tires"},
		es: translation{"Rotación de neumáticos", "Rotar y balancear los cuatro neumáticos"},
	},
	{
		service: entities.Service{ID: BatteryID, Name: "Battery Replacement", Category: "electrical", EstimatedDuration: 30,
			Description: "Test and replace the starter battery"},
		es: translation{"Reemplazo de batería", "Probar y reemplazar la batería de arranque"},
	},
	{
		// Left untranslated so the Spanish catalog shows the fallback
		service: entities.Service{ID: DiagnosticsID, Name: "Engine Diagnostics", Category: "diagnostics", EstimatedDuration: 60,
			Description: "Read fault codes and inspect the engine"},
	},
}

var mechanics = []entities.Mechanic{
	{
		ID: DowntownAutoID, BusinessName: "Downtown LA Auto Care", OwnerName: "Maria Lopez",
		Email: "service@downtownla-auto.example", PhoneNumber: "+1-213-555-0101",
		Address:  entities.Address{Street: "200 N Spring St", City: "Los Angeles", State: "CA", ZipCode: "90012", Country: "USA"},
		Location: &entities.Location{Latitude: 34.0522, Longitude: -118.2437}, YearsExperience: 12,
		IsActive: true, IsVerified: true,
	},
	{
		ID: HollywoodMotorID, BusinessName: "Hollywood Motor Works", OwnerName: "James Carter",
		Email: "hello@hollywoodmotor.example", PhoneNumber: "+1-323-555-0102",
		Address:  entities.Address{Street: "6801 Hollywood Blvd", City: "Los Angeles", State: "CA", ZipCode: "90028", Country: "USA"},
		Location: &entities.Location{Latitude: 34.0928, Longitude: -118.3287}, YearsExperience: 8,
		IsActive: true, IsVerified: true,
	},
	{
		ID: PasadenaGarageID, BusinessName: "Pasadena Precision Garage", OwnerName: "Kenji Watanabe",
		Email: "shop@pasadenaprecision.example", PhoneNumber: "+1-626-555-0103",
		Address:  entities.Address{Street: "100 N Garfield Ave", City: "Pasadena", State: "CA", ZipCode: "91101", Country: "USA"},
		Location: &entities.Location{Latitude: 34.1478, Longitude: -118.1445}, YearsExperience: 20,
		IsActive: true, IsVerified: true,
	},
	{
		ID: SantaMonicaID, BusinessName: "Santa Monica Service Center", OwnerName: "Aisha Rahman",
		Email: "desk@smservice.example", PhoneNumber: "+1-310-555-0104",
		Address:  entities.Address{Street: "1685 Main St", City: "Santa Monica", State: "CA", ZipCode: "90401", Country: "USA"},
		Location: &entities.Location{Latitude: 34.0195, Longitude: -118.4912}, YearsExperience: 5,
		IsActive: true, IsVerified: true,
	},
	{
		// Awaiting verification, never returned by search
		ID: PendingShopID, BusinessName: "Echo Park Garage", OwnerName: "Sam Reyes",
		Email: "owner@echoparkgarage.example", PhoneNumber: "+1-213-555-0105",
		Address:  entities.Address{Street: "1500 Sunset Blvd", City: "Los Angeles", State: "CA", ZipCode: "90026", Country: "USA"},
		Location: &entities.Location{Latitude: 34.0781, Longitude: -118.2606}, YearsExperience: 2,
		IsActive: true, IsVerified: false,
	},
}

func price(v float64) *float64 { return &v }

var offerings = []entities.MechanicService{
	{MechanicID: DowntownAutoID, ServiceID: OilChangeID, MinPrice: 30, MaxPrice: 50, IsAvailable: true,
		LaborCost: entities.PriceRange{Min: price(15), Max: price(20)}, PartsCost: entities.PriceRange{Min: price(15), Max: price(30)}},
	{MechanicID: DowntownAutoID, ServiceID: BrakeRepairID, MinPrice: 150, MaxPrice: 300, IsAvailable: true},
	{MechanicID: HollywoodMotorID, ServiceID: OilChangeID, MinPrice: 35, MaxPrice: 60, IsAvailable: true},
	{MechanicID: HollywoodMotorID, ServiceID: TireRotateID, MinPrice: 25, MaxPrice: 40, IsAvailable: true},
	{MechanicID: PasadenaGarageID, ServiceID: BrakeRepairID, MinPrice: 180, MaxPrice: 350, IsAvailable: true},
	{MechanicID: PasadenaGarageID, ServiceID: DiagnosticsID, MinPrice: 90, MaxPrice: 120, IsAvailable: true},
	{MechanicID: PasadenaGarageID, ServiceID: BatteryID, MinPrice: 120, MaxPrice: 220, IsAvailable: false},
	{MechanicID: SantaMonicaID, ServiceID: OilChangeID, MinPrice: 40, MaxPrice: 70, IsAvailable: true},
	{MechanicID: PendingShopID, ServiceID: OilChangeID, MinPrice: 20, MaxPrice: 30, IsAvailable: true},
}

var reviews = []struct {
	mechanicID string
	serviceID  string
	customer   string
	rating     int
	comment    string
	published  bool
}{
	{HollywoodMotorID, OilChangeID, "Dana Kim", 5, "Quick and friendly", true},
	{HollywoodMotorID, TireRotateID, "Luis Ortega", 4, "Fair price", true},
	{PasadenaGarageID, BrakeRepairID, "Priya Nair", 5, "Brakes feel new", true},
	{PasadenaGarageID, DiagnosticsID, "Tom Becker", 2, "Took longer than quoted", false},
}

// Load writes the fixtures. A catalog that already has services is left
// alone and reported as skipped.
func Load(ctx context.Context, svc Services) (*Result, error) {
	existing, _, err := svc.Catalog.ListServices(ctx, entities.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("services", len(existing)).Msg("catalog already seeded, skipping")
		return &Result{Skipped: true}, nil
	}

	result := &Result{}

	for _, entry := range catalog {
		s := entry.service
		s.IsActive = true
		if err := svc.Catalog.AddService(ctx, &s); err != nil {
			return result, fmt.Errorf("failed to create service %s: %w", s.Name, err)
		}
		result.Services++

		if entry.es.name == "" {
			continue
		}
		if err := svc.Catalog.Translate(ctx, &entities.ServiceTranslation{
			ServiceID: s.ID, LanguageCode: "es", Name: entry.es.name, Description: entry.es.description,
		}); err != nil {
			return result, fmt.Errorf("failed to translate service %s: %w", s.Name, err)
		}
	}

	for _, m := range mechanics {
		if err := svc.Mechanics.Register(ctx, &m); err != nil {
			return result, fmt.Errorf("failed to create mechanic %s: %w", m.BusinessName, err)
		}
		result.Mechanics++
	}

	for _, o := range offerings {
		if err := svc.Catalog.SetOffering(ctx, &o); err != nil {
			return result, fmt.Errorf("failed to create offering %s/%s: %w", o.MechanicID, o.ServiceID, err)
		}
		result.Offerings++
	}

	scheduled := time.Now().Add(-7 * 24 * time.Hour).Truncate(time.Hour)
	for i, r := range reviews {
		customer := &entities.Customer{FullName: r.customer, Email: fmt.Sprintf("customer%d@example.com", i+1)}
		if err := svc.Reviews.AddCustomer(ctx, customer); err != nil {
			return result, fmt.Errorf("failed to create customer %s: %w", r.customer, err)
		}
		booking := &entities.Booking{
			CustomerID: customer.ID, MechanicID: r.mechanicID, ServiceID: r.serviceID,
			Status: "completed", ScheduledAt: scheduled,
		}
		if err := svc.Reviews.AddBooking(ctx, booking); err != nil {
			return result, fmt.Errorf("failed to create booking for %s: %w", r.customer, err)
		}
		if err := svc.Reviews.Submit(ctx, &entities.Review{
			BookingID: booking.ID, MechanicID: r.mechanicID, CustomerID: customer.ID,
			Rating: r.rating, Comment: r.comment, IsPublished: r.published,
		}); err != nil {
			return result, fmt.Errorf("failed to create review by %s: %w", r.customer, err)
		}
		result.Reviews++
	}

	log.Info().
		Int("services", result.Services).
		Int("mechanics", result.Mechanics).
		Int("offerings", result.Offerings).
		Int("reviews", result.Reviews).
		Msg("seed data loaded")
	return result, nil
}
