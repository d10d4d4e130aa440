package services

import (
	"context"
	"time"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

// ReviewService handles reviews. Rating aggregation happens in the store as
// part of each write.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	bookings repositories.BookingRepository
	timeout  time.Duration
	metrics  *observability.Metrics
}

// NewReviewService creates a new review service
func NewReviewService(
	reviews repositories.ReviewRepository,
	bookings repositories.BookingRepository,
	timeout time.Duration,
	metrics *observability.Metrics,
) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, timeout: timeout, metrics: metrics}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}

// Submit records a review for a booking
func (s *ReviewService) Submit(ctx context.Context, review *entities.Review) error {
	if err := validateRating(review.Rating); err != nil {
		return err
	}
	if review.BookingID == "" || review.MechanicID == "" || review.CustomerID == "" {
		return apperrors.NewValidationError("booking_id, mechanic_id and customer_id are required")
	}
	return runWithTimeout(ctx, s.timeout, s.metrics, "create_review", func(ctx context.Context) error {
		return s.reviews.Create(ctx, review)
	})
}

// Revise changes a review's rating, comment or publication status
func (s *ReviewService) Revise(ctx context.Context, review *entities.Review) error {
	if err := validateRating(review.Rating); err != nil {
		return err
	}
	return runWithTimeout(ctx, s.timeout, s.metrics, "update_review", func(ctx context.Context) error {
		return s.reviews.Update(ctx, review)
	})
}

// Remove deletes a review
func (s *ReviewService) Remove(ctx context.Context, id string) error {
	return runWithTimeout(ctx, s.timeout, s.metrics, "delete_review", func(ctx context.Context) error {
		return s.reviews.Delete(ctx, id)
	})
}

// Summary returns the mechanic's derived rating
func (s *ReviewService) Summary(ctx context.Context, mechanicID string) (*entities.RatingSummary, error) {
	var summary *entities.RatingSummary
	err := runWithTimeout(ctx, s.timeout, s.metrics, "get_rating_summary", func(ctx context.Context) error {
		var err error
		summary, err = s.reviews.GetRatingSummary(ctx, mechanicID)
		return err
	})
	return summary, err
}

// AddCustomer creates the customer a booking belongs to
func (s *ReviewService) AddCustomer(ctx context.Context, customer *entities.Customer) error {
	return runWithTimeout(ctx, s.timeout, s.metrics, "create_customer", func(ctx context.Context) error {
		return s.bookings.CreateCustomer(ctx, customer)
	})
}

// AddBooking records a booking that can later be reviewed
func (s *ReviewService) AddBooking(ctx context.Context, booking *entities.Booking) error {
	return runWithTimeout(ctx, s.timeout, s.metrics, "create_booking", func(ctx context.Context) error {
		return s.bookings.CreateBooking(ctx, booking)
	})
}
