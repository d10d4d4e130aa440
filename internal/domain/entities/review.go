package entities

import "time"

// Review is a customer's rating of a completed booking. Only published
// reviews count towards the mechanic's rating.
type Review struct {
	ID          string    `json:"id" db:"id"`
	BookingID   string    `json:"booking_id" db:"booking_id"`
	MechanicID  string    `json:"mechanic_id" db:"mechanic_id"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     string    `json:"comment" db:"comment"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RatingSummary is the aggregate derived from a mechanic's published reviews
type RatingSummary struct {
	MechanicID  string  `json:"mechanic_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
