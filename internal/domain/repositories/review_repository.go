package repositories

import (
	"context"

	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
)

// ReviewRepository defines the interface for review data operations. Every
// write recomputes the owning mechanic's rating in the same transaction.
type ReviewRepository interface {
	// Create inserts a review; one review per booking
	Create(ctx context.Context, review *entities.Review) error

	// Update changes the rating, comment and publication status
	Update(ctx context.Context, review *entities.Review) error

	// Delete removes a review; the mechanic's rating drops it immediately
	Delete(ctx context.Context, id string) error

	// GetRatingSummary returns the mechanic's derived rating
	GetRatingSummary(ctx context.Context, mechanicID string) (*entities.RatingSummary, error)
}

// BookingRepository persists the placeholder rows reviews reference
type BookingRepository interface {
	CreateCustomer(ctx context.Context, customer *entities.Customer) error
	CreateBooking(ctx context.Context, booking *entities.Booking) error
}
