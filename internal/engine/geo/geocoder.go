package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/trailgoods/trailhead/internal/model"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// Geocoder resolves a free-text address to at most one coordinate.
// Best effort, first result only; implementations do not retry.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Coordinate, error)
}

// NominatimGeocoder queries the OSM Nominatim API.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	client    *http.Client
}

// NewNominatimGeocoder returns a geocoder against the public Nominatim endpoint.
func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	if userAgent == "" {
		userAgent = "trailhead/0.1 (business directory)"
	}
	return &NominatimGeocoder{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the first match for the address, or (nil, nil) when the
// service has no result. Transport and decode failures are returned as errors.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*model.Coordinate, error) {
	u := g.BaseURL + "?" + url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude from geocoder: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude from geocoder: %w", err)
	}

	return &model.Coordinate{Latitude: lat, Longitude: lng}, nil
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, address string) (*model.Coordinate, error)

func (f GeocoderFunc) Geocode(ctx context.Context, address string) (*model.Coordinate, error) {
	return f(ctx, address)
}
