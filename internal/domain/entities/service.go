package entities

import "time"

// DefaultLanguage is the language of the canonical service text
const DefaultLanguage = "en"

// Service is a catalog entry such as "Oil Change"
type Service struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	Category          string    `json:"category" db:"category"`
	EstimatedDuration int       `json:"estimated_duration" db:"estimated_duration"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ServiceTranslation holds localized text for a service, unique per language
type ServiceTranslation struct {
	ServiceID    string `json:"service_id" db:"service_id"`
	LanguageCode string `json:"language_code" db:"language_code"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
}

// LocalizedService is a service whose name and description are resolved to
// the requested language, falling back to the canonical text
type LocalizedService struct {
	ID                string `json:"id" db:"id"`
	Category          string `json:"category" db:"category"`
	EstimatedDuration int    `json:"estimated_duration" db:"estimated_duration"`
	Name              string `json:"name" db:"name"`
	Description       string `json:"description" db:"description"`
}

// PriceRange is an ordered price interval. Nil bounds are unknown.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Ordered reports whether the range is empty, half open, or min <= max
func (r PriceRange) Ordered() bool {
	if r.Min == nil || r.Max == nil {
		return true
	}
	return *r.Min <= *r.Max
}

// MechanicService is one mechanic's offering of one service
type MechanicService struct {
	ID          string     `json:"id" db:"id"`
	MechanicID  string     `json:"mechanic_id" db:"mechanic_id"`
	ServiceID   string     `json:"service_id" db:"service_id"`
	MinPrice    float64    `json:"min_price" db:"min_price"`
	MaxPrice    float64    `json:"max_price" db:"max_price"`
	LaborCost   PriceRange `json:"labor_cost" db:"-"`
	PartsCost   PriceRange `json:"parts_cost" db:"-"`
	IsAvailable bool       `json:"is_available" db:"is_available"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PricesOrdered reports whether the overall and sub-cost ranges are ordered
func (o *MechanicService) PricesOrdered() bool {
	return o.MinPrice <= o.MaxPrice && o.LaborCost.Ordered() && o.PartsCost.Ordered()
}
