// Package geo holds the distance math shared by the search layers.
package geo

import "math"

const (
	// MetersPerMile is the fixed conversion applied at the API boundary.
	MetersPerMile = 1609.34

	// EarthRadiusMeters is the IUGG mean Earth radius.
	EarthRadiusMeters = 6371008.8
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether p lies within the latitude/longitude ranges.
func (p Point) Valid() bool {
	return ValidLatitude(p.Latitude) && ValidLongitude(p.Longitude)
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is within [-180, 180].
func ValidLongitude(lng float64) bool {
	return !math.IsNaN(lng) && lng >= -180 && lng <= 180
}

// MilesToMeters converts a radius in miles to meters.
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

// MetersToMiles converts meters to miles.
func MetersToMiles(meters float64) float64 {
	return meters / MetersPerMile
}

// DistanceMeters returns the great-circle distance between a and b using the
// haversine formula on a spherical Earth.
func DistanceMeters(a, b Point) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Clamp to guard asin against rounding just above 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Around returns the smallest box containing every point within radiusMeters
// of center. ok is false when the circle reaches a pole, in which case every
// longitude is in range and the caller should not prune by box.
func Around(center Point, radiusMeters float64) (box BoundingBox, ok bool) {
	dLat := radiansToDegrees(radiusMeters / EarthRadiusMeters)

	box.MinLat = center.Latitude - dLat
	box.MaxLat = center.Latitude + dLat
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		return box, false
	}

	// The widest longitude span occurs at the box edge closest to a pole.
	maxAbsLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	dLng := radiansToDegrees(radiusMeters / (EarthRadiusMeters * math.Cos(degreesToRadians(maxAbsLat))))
	if dLng >= 180 {
		return box, false
	}

	box.MinLng = center.Longitude - dLng
	box.MaxLng = center.Longitude + dLng
	return box, true
}

// Height returns the box latitude span in degrees.
func (b BoundingBox) Height() float64 {
	return b.MaxLat - b.MinLat
}

// Width returns the box longitude span in degrees.
func (b BoundingBox) Width() float64 {
	return b.MaxLng - b.MinLng
}

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
