package domain

import "math"

// EarthRadiusMeters is the sphere radius used for great-circle distances.
// It equals Postgres earthdistance's earth() so the memory and Postgres
// backends agree on which stores fall inside a search radius.
const EarthRadiusMeters = 6378168.0

// DefaultMaxDistanceMeters is the default search radius for nearby queries (10km).
const DefaultMaxDistanceMeters float64 = 10000

// Point is a longitude/latitude pair in GeoJSON order.
type Point struct {
	Lng float64
	Lat float64
}

// Validate reports a *ValidationError when either coordinate is not a finite
// number or falls outside [-180,180] / [-90,90].
func (p Point) Validate() error {
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return NewValidationError("longitude", "must be a finite number")
	}
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return NewValidationError("latitude", "must be a finite number")
	}
	if p.Lng < -180 || p.Lng > 180 {
		return NewValidationError("longitude", "must be between -180 and 180")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return NewValidationError("latitude", "must be between -90 and 90")
	}
	return nil
}

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	const rad = math.Pi / 180
	lat1, lat2 := a.Lat*rad, b.Lat*rad
	dLat := (b.Lat - a.Lat) * rad
	dLng := (b.Lng - a.Lng) * rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
