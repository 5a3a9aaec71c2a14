package review

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/engine/storage"
	"github.com/trailgoods/trailhead/internal/logging"
	"github.com/trailgoods/trailhead/internal/model"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "review.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addPending(t *testing.T, s *storage.Store, mutate func(*model.Submission)) string {
	t.Helper()
	sub := model.Submission{
		Listing: model.Listing{
			Name:        "Cedar Basket Studio",
			Owner:       "M. Silvas",
			Category:    model.CategoryCulturalGoods,
			Description: "Hand-woven cedar baskets",
			Address:     "Pendleton, OR",
			Latitude:    45.67,
			Longitude:   -118.79,
		},
		Status: model.StatusPending,
	}
	if mutate != nil {
		mutate(&sub)
	}
	id, err := s.AddSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("AddSubmission: %v", err)
	}
	return id
}

func newWorkflow(s *storage.Store, g geo.Geocoder) *Workflow {
	return NewWorkflow(s, g, nil, logging.New(false))
}

func noGeocoder() geo.Geocoder {
	return geo.GeocoderFunc(func(ctx context.Context, address string) (*model.Coordinate, error) {
		return nil, nil
	})
}

func TestApprovePublishesOnce(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, nil)

	listingID, err := w.Approve(ctx, id)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	sub, _ := s.GetSubmission(ctx, id)
	if sub.Status != model.StatusApproved || sub.PublishedBusinessID != listingID {
		t.Errorf("submission after approve: %+v", sub)
	}

	listings, _ := s.ListListings(ctx)
	if len(listings) != 1 || listings[0].Name != "Cedar Basket Studio" {
		t.Errorf("published listings: %v", listings)
	}
}

func TestApproveTwiceFails(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, nil)
	if _, err := w.Approve(ctx, id); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if _, err := w.Approve(ctx, id); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("second Approve: got %v, want ErrAlreadyApproved", err)
	}

	listings, _ := s.ListListings(ctx)
	if len(listings) != 1 {
		t.Errorf("exactly one listing must exist, got %d", len(listings))
	}
}

func TestApproveInvalidCategory(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, func(sub *model.Submission) { sub.Category = "Unknown" })
	_, err := w.Approve(ctx, id)
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("got %v, want ErrInvalidCategory", err)
	}

	sub, _ := s.GetSubmission(ctx, id)
	if sub.Status != model.StatusPending {
		t.Errorf("submission must remain pending, got %q", sub.Status)
	}
	if listings, _ := s.ListListings(ctx); len(listings) != 0 {
		t.Errorf("no listing may be created, got %d", len(listings))
	}
}

func TestApproveGeocodesMissingCoordinates(t *testing.T) {
	s := openStore(t)
	g := geo.GeocoderFunc(func(ctx context.Context, address string) (*model.Coordinate, error) {
		return &model.Coordinate{Latitude: 45.67, Longitude: -118.79}, nil
	})
	w := newWorkflow(s, g)
	ctx := context.Background()

	id := addPending(t, s, func(sub *model.Submission) {
		sub.Latitude = math.NaN()
		sub.Longitude = math.NaN()
	})
	if _, err := w.Approve(ctx, id); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	listings, _ := s.ListListings(ctx)
	if len(listings) != 1 || listings[0].Latitude != 45.67 {
		t.Errorf("approval-time geocode should supply coordinates, got %v", listings)
	}
}

func TestApproveUnresolvableCoordinatesStaysPending(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, func(sub *model.Submission) {
		sub.Latitude = 0
		sub.Longitude = 0
	})
	_, err := w.Approve(ctx, id)
	if !errors.Is(err, ErrMissingCoordinates) {
		t.Fatalf("got %v, want ErrMissingCoordinates", err)
	}

	sub, _ := s.GetSubmission(ctx, id)
	if sub.Status != model.StatusPending {
		t.Errorf("submission must remain pending, got %q", sub.Status)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, nil)
	if err := w.Reject(ctx, id); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	sub, _ := s.GetSubmission(ctx, id)
	if sub.Status != model.StatusRejected {
		t.Errorf("status: got %q, want rejected", sub.Status)
	}

	if err := w.Reject(ctx, id); !errors.Is(err, ErrTerminalState) {
		t.Errorf("second Reject: got %v, want ErrTerminalState", err)
	}
	if _, err := w.Approve(ctx, id); !errors.Is(err, ErrTerminalState) {
		t.Errorf("Approve after Reject: got %v, want ErrTerminalState", err)
	}
	if listings, _ := s.ListListings(ctx); len(listings) != 0 {
		t.Errorf("rejection must not publish, got %d listings", len(listings))
	}
}

func TestDeleteKeepsPublishedListing(t *testing.T) {
	s := openStore(t)
	w := newWorkflow(s, noGeocoder())
	ctx := context.Background()

	id := addPending(t, s, nil)
	if _, err := w.Approve(ctx, id); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := w.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.GetSubmission(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("submission should be gone, got %v", err)
	}
	if listings, _ := s.ListListings(ctx); len(listings) != 1 {
		t.Errorf("published listing must survive deletion, got %d", len(listings))
	}
}

func TestAuthorizerGatesEverything(t *testing.T) {
	s := openStore(t)
	deny := func(context.Context) bool { return false }
	w := NewWorkflow(s, noGeocoder(), deny, logging.New(false))
	ctx := context.Background()

	id := addPending(t, s, nil)

	if _, err := w.Approve(ctx, id); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Approve: got %v, want ErrNotAuthorized", err)
	}
	if err := w.Reject(ctx, id); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Reject: got %v, want ErrNotAuthorized", err)
	}
	if err := w.Delete(ctx, id); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Delete: got %v, want ErrNotAuthorized", err)
	}
	if _, err := w.List(ctx); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("List: got %v, want ErrNotAuthorized", err)
	}

	sub, _ := s.GetSubmission(ctx, id)
	if sub.Status != model.StatusPending {
		t.Errorf("denied operations must not change state, got %q", sub.Status)
	}
}
