package entities

import "time"

// Mechanic represents a repair shop listed in the marketplace
type Mechanic struct {
	ID              string    `json:"id" db:"id"`
	BusinessName    string    `json:"business_name" db:"business_name"`
	OwnerName       string    `json:"owner_name" db:"owner_name"`
	Email           string    `json:"email" db:"email"`
	PhoneNumber     string    `json:"phone_number" db:"phone_number"`
	Description     string    `json:"description" db:"description"`
	Address         Address   `json:"address" db:"-"`
	Location        *Location `json:"location" db:"-"`
	YearsExperience int       `json:"years_experience" db:"years_experience"`
	Rating          float64   `json:"rating" db:"rating"`
	ReviewCount     int       `json:"review_count" db:"review_count"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	IsVerified      bool      `json:"is_verified" db:"is_verified"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Location represents geographical coordinates. A mechanic without a
// location is never returned by proximity search.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// MechanicDetail is a mechanic together with the distinct names of the
// services it offers.
type MechanicDetail struct {
	Mechanic
	Services []string `json:"services"`
}
