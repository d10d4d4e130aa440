package entities

// NearbyMechanic is one proximity search row
type NearbyMechanic struct {
	ID            string  `json:"id" db:"id"`
	BusinessName  string  `json:"business_name" db:"business_name"`
	DistanceMiles float64 `json:"distance_miles" db:"distance_miles"`
	Rating        float64 `json:"rating" db:"rating"`
	MinPrice      float64 `json:"min_price" db:"min_price"`
	MaxPrice      float64 `json:"max_price" db:"max_price"`
}
