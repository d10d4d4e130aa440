package memory

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
	"github.com/zatekoja/mechanicfinder/pkg/geo"
)

var downtownLA = entities.Location{Latitude: 34.0522, Longitude: -118.2437}

type fixture struct {
	store     *Store
	mechanics repositories.MechanicRepository
	services  repositories.ServiceRepository
	offerings repositories.OfferingRepository
	reviews   repositories.ReviewRepository
	bookings  repositories.BookingRepository
}

func newFixture() *fixture {
	s := NewStore()
	return &fixture{
		store:     s,
		mechanics: NewMechanicAdapter(s),
		services:  NewServiceAdapter(s),
		offerings: NewOfferingAdapter(s),
		reviews:   NewReviewAdapter(s),
		bookings:  NewBookingAdapter(s),
	}
}

func (f *fixture) service(t *testing.T, name, category string) *entities.Service {
	t.Helper()
	svc := &entities.Service{Name: name, Category: category, EstimatedDuration: 30, IsActive: true}
	require.NoError(t, f.services.Create(context.Background(), svc))
	return svc
}

func (f *fixture) mechanic(t *testing.T, name string, loc *entities.Location) *entities.Mechanic {
	t.Helper()
	m := &entities.Mechanic{
		BusinessName: name,
		Email:        fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		Location:     loc,
		IsActive:     true,
		IsVerified:   true,
	}
	require.NoError(t, f.mechanics.Create(context.Background(), m))
	return m
}

func (f *fixture) offer(t *testing.T, m *entities.Mechanic, svc *entities.Service, minPrice, maxPrice float64) {
	t.Helper()
	require.NoError(t, f.offerings.Upsert(context.Background(), &entities.MechanicService{
		MechanicID:  m.ID,
		ServiceID:   svc.ID,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		IsAvailable: true,
	}))
}

func (f *fixture) review(t *testing.T, m *entities.Mechanic, svc *entities.Service, rating int, published bool) *entities.Review {
	t.Helper()
	ctx := context.Background()
	customer := &entities.Customer{FullName: "Sam", Email: fmt.Sprintf("sam-%d@example.com", time.Now().UnixNano())}
	require.NoError(t, f.bookings.CreateCustomer(ctx, customer))
	booking := &entities.Booking{CustomerID: customer.ID, MechanicID: m.ID, ServiceID: svc.ID, ScheduledAt: time.Now()}
	require.NoError(t, f.bookings.CreateBooking(ctx, booking))

	r := &entities.Review{
		BookingID:   booking.ID,
		MechanicID:  m.ID,
		CustomerID:  customer.ID,
		Rating:      rating,
		IsPublished: published,
	}
	require.NoError(t, f.reviews.Create(ctx, r))
	return r
}

// offset returns a point roughly milesNorth and milesEast of loc.
func offset(loc entities.Location, milesNorth, milesEast float64) *entities.Location {
	dLat := geo.MilesToMeters(milesNorth) / 111_195.0
	dLng := geo.MilesToMeters(milesEast) / (111_195.0 * cosDeg(loc.Latitude))
	return &entities.Location{Latitude: loc.Latitude + dLat, Longitude: loc.Longitude + dLng}
}

func TestFindNearby_LosAngelesOilChange(t *testing.T) {
	f := newFixture()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Downtown Auto", &downtownLA)
	f.offer(t, m, oil, 30, 50)

	results, err := f.mechanics.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude:    34.0522,
		Longitude:   -118.2437,
		RadiusMiles: 10,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entities.NearbyMechanic{
		ID:            m.ID,
		BusinessName:  "Downtown Auto",
		DistanceMiles: 0,
		Rating:        0,
		MinPrice:      30,
		MaxPrice:      50,
	}, results[0])
}

func TestFindNearby_RespectsRadius(t *testing.T) {
	f := newFixture()
	oil := f.service(t, "Oil Change", "maintenance")

	near := f.mechanic(t, "Near", offset(downtownLA, 4, 0))
	edge := f.mechanic(t, "Edge", offset(downtownLA, 0, 9.5))
	far := f.mechanic(t, "Far", offset(downtownLA, 0, 11))
	for _, m := range []*entities.Mechanic{near, edge, far} {
		f.offer(t, m, oil, 20, 40)
	}

	results, err := f.mechanics.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
	})

	require.NoError(t, err)
	var names []string
	for _, r := range results {
		names = append(names, r.BusinessName)
		assert.LessOrEqual(t, r.DistanceMiles, 10.0)
	}
	assert.Equal(t, []string{"Near", "Edge"}, names)
}

func TestFindNearby_SortedByDistanceThenID(t *testing.T) {
	f := newFixture()
	brakes := f.service(t, "Brake Repair", "repair")

	for i, miles := range []float64{6, 1, 3, 1} {
		m := f.mechanic(t, fmt.Sprintf("shop-%d", i), offset(downtownLA, miles, 0))
		f.offer(t, m, brakes, 100, 300)
	}

	results, err := f.mechanics.FindNearby(context.Background(), repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
	})

	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.True(t, prev.DistanceMiles < cur.DistanceMiles ||
			(prev.DistanceMiles == cur.DistanceMiles && prev.ID < cur.ID),
			"row %d out of order", i)
	}
}

func TestFindNearby_ExcludesInactiveUnverifiedAndUnpriced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")

	inactive := f.mechanic(t, "Inactive", &downtownLA)
	f.offer(t, inactive, oil, 30, 50)
	require.NoError(t, f.mechanics.Deactivate(ctx, inactive.ID))

	unverified := f.mechanic(t, "Unverified", &downtownLA)
	f.offer(t, unverified, oil, 30, 50)
	require.NoError(t, f.mechanics.SetVerified(ctx, unverified.ID, false))

	unavailable := f.mechanic(t, "Unavailable", &downtownLA)
	f.offer(t, unavailable, oil, 30, 50)
	require.NoError(t, f.offerings.SetAvailability(ctx, unavailable.ID, oil.ID, false))

	f.mechanic(t, "NoOfferings", &downtownLA)
	f.mechanic(t, "NoLocation", nil)

	results, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindNearby_ServiceFilterNarrowsPrices(t *testing.T) {
	f := newFixture()
	oil := f.service(t, "Oil Change", "maintenance")
	brakes := f.service(t, "Brake Repair", "repair")

	m := f.mechanic(t, "Full Service", &downtownLA)
	f.offer(t, m, oil, 30, 50)
	f.offer(t, m, brakes, 150, 400)
	f.mechanic(t, "Brakes Elsewhere", offset(downtownLA, 1, 1))

	ctx := context.Background()
	all, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
	})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 30.0, all[0].MinPrice)
	assert.Equal(t, 400.0, all[0].MaxPrice)

	filtered, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
		ServiceFilter: "BRAKE",
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 150.0, filtered[0].MinPrice)
	assert.Equal(t, 400.0, filtered[0].MaxPrice)

	none, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
		ServiceFilter: "transmission",
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindNearby_LocationUpdateMovesMechanic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Mover", &downtownLA)
	f.offer(t, m, oil, 30, 50)

	newYork := entities.Location{Latitude: 40.7128, Longitude: -74.0060}
	require.NoError(t, f.mechanics.UpdateLocation(ctx, m.ID, &newYork))

	la, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, la)

	ny, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: newYork.Latitude, Longitude: newYork.Longitude, RadiusMiles: 10,
	})
	require.NoError(t, err)
	require.Len(t, ny, 1)
	assert.Equal(t, m.ID, ny[0].ID)

	require.NoError(t, f.mechanics.UpdateLocation(ctx, m.ID, nil))
	ny, err = f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: newYork.Latitude, Longitude: newYork.Longitude, RadiusMiles: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, ny)
}

func TestFindNearby_IndexMatchesFullScan(t *testing.T) {
	f := newFixture()
	svc := f.service(t, "Tire Rotation", "maintenance")
	rng := rand.New(rand.NewSource(42))

	var all []*entities.Mechanic
	for i := 0; i < 400; i++ {
		loc := &entities.Location{
			Latitude:  rng.Float64()*170 - 85,
			Longitude: rng.Float64()*360 - 180,
		}
		if i%2 == 0 {
			loc = offset(downtownLA, rng.Float64()*60-30, rng.Float64()*60-30)
		}
		m := f.mechanic(t, fmt.Sprintf("m%03d", i), loc)
		f.offer(t, m, svc, 10, 20)
		all = append(all, m)
	}

	centers := []entities.Location{
		downtownLA,
		{Latitude: 0, Longitude: 179.99},
		{Latitude: 88.5, Longitude: 10},
		{Latitude: -45, Longitude: 60},
	}
	for _, c := range centers {
		for _, radius := range []float64{1, 10, 50, 500} {
			got, err := f.mechanics.FindNearby(context.Background(), repositories.NearbyParams{
				Latitude: c.Latitude, Longitude: c.Longitude, RadiusMiles: radius,
			})
			require.NoError(t, err)

			var want []string
			for _, m := range all {
				d := geo.DistanceMeters(
					geo.Point{Latitude: c.Latitude, Longitude: c.Longitude},
					geo.Point{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude},
				)
				if d <= geo.MilesToMeters(radius) {
					want = append(want, m.ID)
				}
			}

			var gotIDs []string
			for _, r := range got {
				gotIDs = append(gotIDs, r.ID)
			}
			sort.Strings(want)
			sort.Strings(gotIDs)
			assert.Equal(t, want, gotIDs, "center=%v radius=%v", c, radius)
		}
	}
}

func TestRating_RecomputedFromPublishedReviews(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Rated", &downtownLA)

	first := f.review(t, m, oil, 5, true)
	summary, err := f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Rating)
	assert.Equal(t, 1, summary.ReviewCount)

	f.review(t, m, oil, 3, true)
	summary, err = f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)

	f.review(t, m, oil, 1, false)
	summary, err = f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)

	f.review(t, m, oil, 4, true)
	summary, err = f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 3, summary.ReviewCount)

	first.IsPublished = false
	require.NoError(t, f.reviews.Update(ctx, first))
	summary, err = f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)
}

func TestRating_DeleteAndRounding(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Rounded", &downtownLA)

	f.review(t, m, oil, 5, true)
	f.review(t, m, oil, 5, true)
	last := f.review(t, m, oil, 1, true)

	summary, err := f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.67, summary.Rating)

	require.NoError(t, f.reviews.Delete(ctx, last.ID))
	summary, err = f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)

	detail, err := f.mechanics.GetActiveByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, detail.Rating)
}

func TestRating_NoPublishedReviewsIsZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Quiet", &downtownLA)

	r := f.review(t, m, oil, 2, true)
	r.IsPublished = false
	require.NoError(t, f.reviews.Update(ctx, r))

	summary, err := f.reviews.GetRatingSummary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Rating)
	assert.Equal(t, 0, summary.ReviewCount)
}

func TestReviews_Constraints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Strict", &downtownLA)
	r := f.review(t, m, oil, 4, true)

	dup := &entities.Review{BookingID: r.BookingID, MechanicID: m.ID, CustomerID: r.CustomerID, Rating: 5, IsPublished: true}
	err := f.reviews.Create(ctx, dup)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))
	assert.Contains(t, err.Error(), "reviews_booking_id_key")

	r.Rating = 6
	err = f.reviews.Update(ctx, r)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))

	err = f.reviews.Delete(ctx, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestOfferings_PriceOrderingEnforced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Pricing", &downtownLA)

	err := f.offerings.Upsert(ctx, &entities.MechanicService{MechanicID: m.ID, ServiceID: oil.ID, MinPrice: 80, MaxPrice: 50})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))
	assert.Contains(t, err.Error(), "mechanic_services_price_range")

	lo, hi := 40.0, 20.0
	err = f.offerings.Upsert(ctx, &entities.MechanicService{
		MechanicID: m.ID, ServiceID: oil.ID, MinPrice: 30, MaxPrice: 50,
		LaborCost: entities.PriceRange{Min: &lo, Max: &hi},
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))

	err = f.offerings.Upsert(ctx, &entities.MechanicService{MechanicID: "ghost", ServiceID: oil.ID, MinPrice: 1, MaxPrice: 2})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))
}

func TestOfferings_UpsertReplaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	m := f.mechanic(t, "Repricer", &downtownLA)

	first := &entities.MechanicService{MechanicID: m.ID, ServiceID: oil.ID, MinPrice: 30, MaxPrice: 50, IsAvailable: true}
	require.NoError(t, f.offerings.Upsert(ctx, first))
	second := &entities.MechanicService{MechanicID: m.ID, ServiceID: oil.ID, MinPrice: 35, MaxPrice: 60, IsAvailable: true}
	require.NoError(t, f.offerings.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	results, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{
		Latitude: downtownLA.Latitude, Longitude: downtownLA.Longitude, RadiusMiles: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 35.0, results[0].MinPrice)
	assert.Equal(t, 60.0, results[0].MaxPrice)
}

func TestListLocalized_FallsBackToCanonicalText(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	brakes := f.service(t, "Brake Repair", "repair")
	tires := f.service(t, "Tire Rotation", "maintenance")
	retired := &entities.Service{Name: "Carburetor Tuning", Category: "repair", IsActive: false}
	require.NoError(t, f.services.Create(ctx, retired))

	require.NoError(t, f.services.UpsertTranslation(ctx, &entities.ServiceTranslation{
		ServiceID: oil.ID, LanguageCode: "es", Name: "Cambio de aceite", Description: "Aceite y filtro",
	}))

	es, err := f.services.ListLocalized(ctx, "es")
	require.NoError(t, err)
	require.Len(t, es, 3)
	assert.Equal(t, "Cambio de aceite", es[0].Name)
	assert.Equal(t, oil.ID, es[0].ID)
	assert.Equal(t, tires.ID, es[1].ID)
	assert.Equal(t, "Tire Rotation", es[1].Name)
	assert.Equal(t, brakes.ID, es[2].ID)
	assert.Equal(t, "Brake Repair", es[2].Name)

	fr, err := f.services.ListLocalized(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Oil Change", "Tire Rotation", "Brake Repair"}, localizedNames(fr))
}

func TestUpsertTranslation_ReplacesExisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")

	for _, name := range []string{"Cambio", "Cambio de aceite"} {
		require.NoError(t, f.services.UpsertTranslation(ctx, &entities.ServiceTranslation{
			ServiceID: oil.ID, LanguageCode: "es", Name: name,
		}))
	}

	es, err := f.services.ListLocalized(ctx, "es")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cambio de aceite"}, localizedNames(es))

	err = f.services.UpsertTranslation(ctx, &entities.ServiceTranslation{ServiceID: "ghost", LanguageCode: "es", Name: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))
}

func TestGetActiveByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	oil := f.service(t, "Oil Change", "maintenance")
	brakes := f.service(t, "Brake Repair", "repair")
	m := f.mechanic(t, "Detail", &downtownLA)
	f.offer(t, m, oil, 30, 50)
	f.offer(t, m, brakes, 100, 200)

	detail, err := f.mechanics.GetActiveByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Detail", detail.BusinessName)
	assert.Equal(t, []string{"Brake Repair", "Oil Change"}, detail.Services)

	require.NoError(t, f.mechanics.Deactivate(ctx, m.ID))
	_, err = f.mechanics.GetActiveByID(ctx, m.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = f.mechanics.GetActiveByID(ctx, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestMechanics_Constraints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.mechanic(t, "Unique", &downtownLA)

	err := f.mechanics.Create(ctx, &entities.Mechanic{BusinessName: "Copy", Email: m.Email})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))

	err = f.mechanics.Create(ctx, &entities.Mechanic{
		BusinessName: "Off Planet", Email: "off@example.com",
		Location: &entities.Location{Latitude: 91, Longitude: 0},
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConstraint))

	err = f.mechanics.SetVerified(ctx, "missing", true)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestStore_CancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.mechanics.FindNearby(ctx, repositories.NearbyParams{RadiusMiles: 10})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Error(t, f.store.Ping(ctx))
}

func cosDeg(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}

func localizedNames(services []entities.LocalizedService) []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return names
}
