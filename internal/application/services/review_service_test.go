package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/mechanicfinder/internal/adapters/memory"
	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

func TestReviewService_SubmitValidatesRating(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := services.NewReviewService(repo, nil, time.Second, nil)

	for _, rating := range []int{0, 6} {
		err := svc.Submit(context.Background(), &entities.Review{BookingID: "b", MechanicID: "m", CustomerID: "c", Rating: rating})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_RatingScenario(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	mechanics := services.NewMechanicService(memory.NewMechanicAdapter(store), time.Second, nil)
	catalog := services.NewCatalogService(memory.NewServiceAdapter(store), memory.NewOfferingAdapter(store), time.Second, nil)
	reviews := services.NewReviewService(memory.NewReviewAdapter(store), memory.NewBookingAdapter(store), time.Second, nil)

	m := &entities.Mechanic{BusinessName: "Rated Auto", Email: "rated@example.com", IsActive: true, IsVerified: true}
	require.NoError(t, mechanics.Register(ctx, m))
	oil := &entities.Service{Name: "Oil Change", Category: "maintenance", IsActive: true}
	require.NoError(t, catalog.AddService(ctx, oil))

	submit := func(email string, rating int, published bool) *entities.Review {
		c := &entities.Customer{FullName: "Customer", Email: email}
		require.NoError(t, reviews.AddCustomer(ctx, c))
		b := &entities.Booking{CustomerID: c.ID, MechanicID: m.ID, ServiceID: oil.ID, ScheduledAt: time.Now()}
		require.NoError(t, reviews.AddBooking(ctx, b))
		r := &entities.Review{BookingID: b.ID, MechanicID: m.ID, CustomerID: c.ID, Rating: rating, IsPublished: published}
		require.NoError(t, reviews.Submit(ctx, r))
		return r
	}

	submit("a@example.com", 5, true)
	summary, err := reviews.Summary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Rating)
	assert.Equal(t, 1, summary.ReviewCount)

	second := submit("b@example.com", 3, true)
	summary, err = reviews.Summary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)

	submit("c@example.com", 1, false)
	summary, err = reviews.Summary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 2, summary.ReviewCount)

	second.Rating = 4
	require.NoError(t, reviews.Revise(ctx, second))
	summary, err = reviews.Summary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.Rating)

	require.NoError(t, reviews.Remove(ctx, second.ID))
	summary, err = reviews.Summary(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Rating)
	assert.Equal(t, 1, summary.ReviewCount)
}
