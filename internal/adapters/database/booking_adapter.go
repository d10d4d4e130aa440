package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
)

// BookingAdapter persists customers and bookings
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new PostgreSQL booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateCustomer inserts a customer
func (a *BookingAdapter) CreateCustomer(ctx context.Context, customer *entities.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	customer.CreatedAt = time.Now().UTC()

	return a.insert(ctx, "customers", goqu.Record{
		"id":         customer.ID,
		"full_name":  customer.FullName,
		"email":      customer.Email,
		"created_at": customer.CreatedAt,
	}, "failed to create customer")
}

// CreateBooking inserts a booking. Status defaults to "pending".
func (a *BookingAdapter) CreateBooking(ctx context.Context, booking *entities.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = "pending"
	}
	booking.CreatedAt = time.Now().UTC()

	return a.insert(ctx, "bookings", goqu.Record{
		"id":           booking.ID,
		"customer_id":  booking.CustomerID,
		"mechanic_id":  booking.MechanicID,
		"service_id":   booking.ServiceID,
		"status":       booking.Status,
		"scheduled_at": booking.ScheduledAt,
		"created_at":   booking.CreatedAt,
	}, "failed to create booking")
}

func (a *BookingAdapter) insert(ctx context.Context, table string, record goqu.Record, message string) error {
	query, args, err := a.db.Insert(table).Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return classify(ctx, "failed to build "+table+" insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify(ctx, message, err)
	}
	return nil
}
