package entities

import "time"

// Customer is the placeholder account a booking belongs to
type Customer struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Booking records that a customer scheduled a service with a mechanic.
// Status is free text; no state machine exists yet.
type Booking struct {
	ID          string    `json:"id" db:"id"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	MechanicID  string    `json:"mechanic_id" db:"mechanic_id"`
	ServiceID   string    `json:"service_id" db:"service_id"`
	Status      string    `json:"status" db:"status"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
