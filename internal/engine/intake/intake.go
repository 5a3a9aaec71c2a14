// Package intake turns a submission form into exactly one pending record, or
// rejects it before any write happens.
package intake

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/trailgoods/trailhead/internal/cache"
	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/logging"
	"github.com/trailgoods/trailhead/internal/model"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrDuplicate       = errors.New("business already submitted at this address")
	ErrRateLimited     = errors.New("submitted too soon after the previous one")
	ErrAddressNotFound = errors.New("address not found")
)

// DefaultRateLimitWindow matches the original anti-spam threshold. The exact
// value is a heuristic; override it through NewService.
const DefaultRateLimitWindow = 30 * time.Second

// Form is the raw user input. Latitude and Longitude are the optional manual
// override, kept as text until validated.
type Form struct {
	Name              string
	Owner             string
	Category          string
	Description       string
	Address           string
	Phone             string
	Website           string
	Latitude          string
	Longitude         string
	IsCommunitySeller bool
}

// Store is the slice of the record store intake writes to.
type Store interface {
	FindSubmissions(ctx context.Context, name, address string) ([]model.Submission, error)
	AddSubmission(ctx context.Context, sub model.Submission) (string, error)
}

type Service struct {
	store    Store
	geocoder geo.Geocoder
	cache    *cache.Cache
	log      *logging.Logger
	window   time.Duration
	now      func() time.Time
}

func NewService(store Store, geocoder geo.Geocoder, c *cache.Cache, log *logging.Logger, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &Service{
		store:    store,
		geocoder: geocoder,
		cache:    c,
		log:      log,
		window:   window,
		now:      time.Now,
	}
}

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// sanitize strips markup-like substrings from free text. Non-string fields
// (numbers, booleans) never pass through here.
func sanitize(s string) string {
	return strings.TrimSpace(markupPattern.ReplaceAllString(s, ""))
}

// Submit validates the form, resolves coordinates, and writes one pending
// submission. Every guard rejects before the write: a failed Submit leaves
// the store untouched and the rate-limit stamp unchanged.
func (s *Service) Submit(ctx context.Context, form Form) (model.Submission, error) {
	var zero model.Submission

	if missing := missingRequired(form); len(missing) > 0 {
		return zero, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	sub := model.Submission{
		Listing: model.Listing{
			Name:              sanitize(form.Name),
			Owner:             sanitize(form.Owner),
			Category:          sanitize(form.Category),
			Description:       sanitize(form.Description),
			Address:           sanitize(form.Address),
			Phone:             sanitize(form.Phone),
			Website:           sanitize(form.Website),
			IsCommunitySeller: form.IsCommunitySeller,
		},
		Status: model.StatusPending,
	}

	dups, err := s.store.FindSubmissions(ctx, sub.Name, sub.Address)
	if err != nil {
		return zero, fmt.Errorf("checking duplicates: %w", err)
	}
	if len(dups) > 0 {
		return zero, ErrDuplicate
	}

	if last := s.cache.LastSubmission(); !last.IsZero() {
		if elapsed := s.now().Sub(last); elapsed < s.window {
			return zero, fmt.Errorf("%w: wait %s", ErrRateLimited, (s.window - elapsed).Round(time.Second))
		}
	}

	coord, err := s.resolveLocation(ctx, form, sub.Address)
	if err != nil {
		return zero, err
	}
	sub.Latitude = coord.Latitude
	sub.Longitude = coord.Longitude
	if !geo.InHomeRegion(coord) {
		s.log.Warn("submission %q resolved outside the home region (%.4f, %.4f)", sub.Name, coord.Latitude, coord.Longitude)
	}

	id, err := s.store.AddSubmission(ctx, sub)
	if err != nil {
		return zero, fmt.Errorf("writing submission: %w", err)
	}
	sub.ID = id

	if err := s.cache.SetLastSubmission(s.now()); err != nil {
		// Advisory anti-spam state only.
		s.log.Warn("recording submission stamp: %v", err)
	}
	s.log.Info("submission %s accepted (pending)", id)
	return sub, nil
}

var requiredFields = []string{"name", "owner", "category", "description", "address"}

func missingRequired(form Form) []string {
	values := map[string]string{
		"name":        form.Name,
		"owner":       form.Owner,
		"category":    form.Category,
		"description": form.Description,
		"address":     form.Address,
	}
	var missing []string
	for _, f := range requiredFields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// resolveLocation prefers valid manual coordinates, otherwise geocodes the
// address. Geocoding is best effort, first result only, no automatic retry.
func (s *Service) resolveLocation(ctx context.Context, form Form, address string) (model.Coordinate, error) {
	if form.Latitude != "" && form.Longitude != "" {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(form.Latitude), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(form.Longitude), 64)
		if errLat == nil && errLng == nil && geo.ValidCoordinate(lat, lng) {
			return model.Coordinate{Latitude: lat, Longitude: lng}, nil
		}
	}

	coord, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("geocoding address: %w", err)
	}
	if coord == nil {
		return model.Coordinate{}, ErrAddressNotFound
	}
	return *coord, nil
}
