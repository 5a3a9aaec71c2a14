package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/trailgoods/trailhead/internal/model"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance between two
// points in meters. Non-finite inputs propagate NaN; callers sort NaN last.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// ValidCoordinate reports whether the pair is finite and within range.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}

// PlottableOnly keeps listings whose coordinates can be placed on the map.
// Listings dropped here still appear in list views.
func PlottableOnly(listings []model.Listing) []model.Listing {
	var out []model.Listing
	for _, l := range listings {
		if ValidCoordinate(l.Latitude, l.Longitude) {
			out = append(out, l)
		}
	}
	return out
}

// homeRegion is the Oregon bounding box used for default map centering.
// orb.Bound is [lng, lat] ordered: Min is the southwest corner.
var homeRegion = orb.Bound{
	Min: orb.Point{-124.703, 41.991},
	Max: orb.Point{-116.463, 46.299},
}

// InHomeRegion reports whether the coordinate falls inside the home region.
func InHomeRegion(c model.Coordinate) bool {
	if !ValidCoordinate(c.Latitude, c.Longitude) {
		return false
	}
	return homeRegion.Contains(orb.Point{c.Longitude, c.Latitude})
}

// MetersToMiles converts a distance for display labels.
func MetersToMiles(m float64) float64 {
	return m / 1609.34
}
