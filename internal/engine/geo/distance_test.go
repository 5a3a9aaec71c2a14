package geo

import (
	"math"
	"testing"

	"github.com/trailgoods/trailhead/internal/model"
)

func TestDistanceMetersZeroAtIdentity(t *testing.T) {
	points := [][2]float64{{0, 0}, {45, -122}, {-33.9, 151.2}, {89.9, 179.9}}
	for _, p := range points {
		if d := DistanceMeters(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceMeters(%v, %v, same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{45, -122, 46, -122},
		{0, 0, 10, 10},
		{-45, 170, 45, -170},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		if diff := math.Abs(ab-ba) / ab; diff > 1e-6 {
			t.Errorf("asymmetric distance: %v vs %v (rel diff %v)", ab, ba, diff)
		}
	}
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := DistanceMeters(45, -122, 46, -122)
	if d < 111000 || d > 111500 {
		t.Errorf("one degree latitude: got %v m, want ~111195 m", d)
	}
}

func TestDistanceMetersPropagatesNaN(t *testing.T) {
	if d := DistanceMeters(math.NaN(), 0, 45, -122); !math.IsNaN(d) {
		t.Errorf("NaN input: got %v, want NaN", d)
	}
}

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		lat, lng float64
		want     bool
	}{
		{45, -122, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, 180.1, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := ValidCoordinate(tt.lat, tt.lng); got != tt.want {
			t.Errorf("ValidCoordinate(%v, %v): got %v, want %v", tt.lat, tt.lng, got, tt.want)
		}
	}
}

func TestPlottableOnly(t *testing.T) {
	in := []model.Listing{
		{ID: "ok", Latitude: 45, Longitude: -122},
		{ID: "nan", Latitude: math.NaN(), Longitude: -122},
		{ID: "range", Latitude: 95, Longitude: -122},
	}
	out := PlottableOnly(in)
	if len(out) != 1 || out[0].ID != "ok" {
		t.Errorf("PlottableOnly: got %v, want only %q", out, "ok")
	}
}

func TestInHomeRegion(t *testing.T) {
	if !InHomeRegion(model.Coordinate{Latitude: 44.0, Longitude: -120.5}) {
		t.Error("central Oregon should be in the home region")
	}
	if InHomeRegion(model.Coordinate{Latitude: 40.7, Longitude: -74.0}) {
		t.Error("New York should not be in the home region")
	}
	if InHomeRegion(model.Coordinate{Latitude: math.NaN(), Longitude: -120.5}) {
		t.Error("invalid coordinate should not be in the home region")
	}
}
