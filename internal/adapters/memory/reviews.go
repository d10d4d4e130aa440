package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
	"github.com/zatekoja/mechanicfinder/pkg/geo"
)

// ReviewAdapter implements ReviewRepository on a Store. Each write and the
// rating recompute it triggers happen under one write lock.
type ReviewAdapter struct {
	store *Store
}

// NewReviewAdapter creates a new in-memory review adapter
func NewReviewAdapter(store *Store) repositories.ReviewRepository {
	return &ReviewAdapter{store: store}
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return constraintError("reviews_rating_check")
	}
	return nil
}

// Create inserts a review and refreshes the mechanic's rating
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if err := begin(ctx, "create review"); err != nil {
		return err
	}
	if err := checkRating(review.Rating); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[review.BookingID]; !ok {
		return constraintError("reviews_booking_id_fkey")
	}
	if _, ok := s.mechanics[review.MechanicID]; !ok {
		return constraintError("reviews_mechanic_id_fkey")
	}
	if _, ok := s.customers[review.CustomerID]; !ok {
		return constraintError("reviews_customer_id_fkey")
	}
	if _, taken := s.reviewByBooking[review.BookingID]; taken {
		return constraintError("reviews_booking_id_key")
	}

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if _, exists := s.reviews[review.ID]; exists {
		return constraintError("reviews_pkey")
	}

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	stored := *review
	s.reviews[stored.ID] = &stored
	s.reviewByBooking[stored.BookingID] = stored.ID
	s.refreshRatingLocked(stored.MechanicID)
	return nil
}

// Update changes rating, comment and publication status
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	if err := begin(ctx, "update review"); err != nil {
		return err
	}
	if err := checkRating(review.Rating); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reviews[review.ID]
	if !ok {
		return apperrors.NewNotFoundError("review not found")
	}

	stored.Rating = review.Rating
	stored.Comment = review.Comment
	stored.IsPublished = review.IsPublished
	stored.UpdatedAt = time.Now().UTC()
	review.UpdatedAt = stored.UpdatedAt

	s.refreshRatingLocked(stored.MechanicID)
	return nil
}

// Delete removes a review and refreshes the mechanic's rating
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	if err := begin(ctx, "delete review"); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reviews[id]
	if !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	delete(s.reviews, id)
	delete(s.reviewByBooking, stored.BookingID)
	s.refreshRatingLocked(stored.MechanicID)
	return nil
}

// GetRatingSummary returns the stored aggregate
func (a *ReviewAdapter) GetRatingSummary(ctx context.Context, mechanicID string) (*entities.RatingSummary, error) {
	if err := begin(ctx, "get rating summary"); err != nil {
		return nil, err
	}

	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mechanics[mechanicID]
	if !ok {
		return nil, apperrors.NewNotFoundError("mechanic not found")
	}
	return &entities.RatingSummary{MechanicID: m.ID, Rating: m.Rating, ReviewCount: m.ReviewCount}, nil
}

// refreshRatingLocked recomputes rating and review_count from published
// reviews. Callers hold the write lock.
func (s *Store) refreshRatingLocked(mechanicID string) {
	m, ok := s.mechanics[mechanicID]
	if !ok {
		return
	}

	sum, count := 0, 0
	for _, r := range s.reviews {
		if r.MechanicID == mechanicID && r.IsPublished {
			sum += r.Rating
			count++
		}
	}

	m.ReviewCount = count
	if count == 0 {
		m.Rating = 0
		return
	}
	m.Rating = geo.Round2(float64(sum) / float64(count))
}

// BookingAdapter implements BookingRepository on a Store
type BookingAdapter struct {
	store *Store
}

// NewBookingAdapter creates a new in-memory booking adapter
func NewBookingAdapter(store *Store) repositories.BookingRepository {
	return &BookingAdapter{store: store}
}

// CreateCustomer inserts a customer
func (a *BookingAdapter) CreateCustomer(ctx context.Context, customer *entities.Customer) error {
	if err := begin(ctx, "create customer"); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if _, taken := s.customerEmails[customer.Email]; taken {
		return constraintError("customers_email_key")
	}
	customer.CreatedAt = time.Now().UTC()

	stored := *customer
	s.customers[stored.ID] = &stored
	s.customerEmails[stored.Email] = stored.ID
	return nil
}

// CreateBooking inserts a booking
func (a *BookingAdapter) CreateBooking(ctx context.Context, booking *entities.Booking) error {
	if err := begin(ctx, "create booking"); err != nil {
		return err
	}

	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[booking.CustomerID]; !ok {
		return constraintError("bookings_customer_id_fkey")
	}
	if _, ok := s.mechanics[booking.MechanicID]; !ok {
		return constraintError("bookings_mechanic_id_fkey")
	}
	if _, ok := s.services[booking.ServiceID]; !ok {
		return constraintError("bookings_service_id_fkey")
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = "pending"
	}
	booking.CreatedAt = time.Now().UTC()

	stored := *booking
	s.bookings[stored.ID] = &stored
	return nil
}
