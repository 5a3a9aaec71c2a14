// Package location abstracts the device position source. One reading per
// screen activation; the coordinate lives in memory only.
package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/model"
)

// ErrUnavailable signals a permission or hardware failure. Callers render
// without nearest sorting; this is never fatal.
var ErrUnavailable = errors.New("location unavailable")

// Provider supplies the current device coordinate.
type Provider interface {
	Current(ctx context.Context) (model.Coordinate, error)
}

// Static always reports a fixed coordinate.
type Static struct {
	Coordinate model.Coordinate
}

func (s Static) Current(ctx context.Context) (model.Coordinate, error) {
	if !geo.ValidCoordinate(s.Coordinate.Latitude, s.Coordinate.Longitude) {
		return model.Coordinate{}, ErrUnavailable
	}
	return s.Coordinate, nil
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context) (model.Coordinate, error)

func (f Func) Current(ctx context.Context) (model.Coordinate, error) {
	return f(ctx)
}

// FromEnv reads TRAILHEAD_LAT / TRAILHEAD_LNG. Missing or malformed values
// report ErrUnavailable.
func FromEnv() Provider {
	return Func(func(ctx context.Context) (model.Coordinate, error) {
		latStr, lngStr := os.Getenv("TRAILHEAD_LAT"), os.Getenv("TRAILHEAD_LNG")
		if latStr == "" || lngStr == "" {
			return model.Coordinate{}, ErrUnavailable
		}
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil || !geo.ValidCoordinate(lat, lng) {
			return model.Coordinate{}, fmt.Errorf("%w: bad TRAILHEAD_LAT/TRAILHEAD_LNG", ErrUnavailable)
		}
		return model.Coordinate{Latitude: lat, Longitude: lng}, nil
	})
}
