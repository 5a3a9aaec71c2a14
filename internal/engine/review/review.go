// Package review moderates submissions. Pending records move to approved or
// rejected, both terminal; approval publishes exactly one listing.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/logging"
	"github.com/trailgoods/trailhead/internal/model"
)

var (
	ErrNotAuthorized      = errors.New("not authorized to moderate submissions")
	ErrAlreadyApproved    = errors.New("submission already published")
	ErrTerminalState      = errors.New("submission already in a terminal state")
	ErrInvalidCategory    = errors.New("category is not one of the canonical set")
	ErrMissingCoordinates = errors.New("submission has no resolvable coordinates")
)

// Authorizer is the injected capability check gating every moderation
// operation. It replaces any fixed admin identity.
type Authorizer func(ctx context.Context) bool

// Store is the slice of the record store the workflow drives.
type Store interface {
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
	UpdateSubmissionFields(ctx context.Context, id string, fields map[string]any) error
	DeleteSubmission(ctx context.Context, id string) error
	// Approve writes the new listing and the approved submission as one unit.
	Approve(ctx context.Context, sub model.Submission) (string, error)
}

type Workflow struct {
	store     Store
	geocoder  geo.Geocoder
	authorize Authorizer
	log       *logging.Logger
}

// NewWorkflow wires the moderation workflow. A nil authorizer permits every
// caller, for trusted local use.
func NewWorkflow(store Store, geocoder geo.Geocoder, authorize Authorizer, log *logging.Logger) *Workflow {
	if authorize == nil {
		authorize = func(context.Context) bool { return true }
	}
	return &Workflow{store: store, geocoder: geocoder, authorize: authorize, log: log}
}

// Approve publishes a pending submission. Guards run in order and each
// failure leaves the submission unchanged:
//
//   - already approved, or already carrying a published-listing reference
//   - rejected (terminal)
//   - category outside the canonical six
//   - no coordinates and the address does not geocode
//
// On success exactly one listing exists for the submission, with the
// back-reference recorded in the same transaction.
func (w *Workflow) Approve(ctx context.Context, id string) (string, error) {
	if !w.authorize(ctx) {
		return "", ErrNotAuthorized
	}

	sub, err := w.store.GetSubmission(ctx, id)
	if err != nil {
		return "", err
	}

	if sub.Status == model.StatusApproved || sub.PublishedBusinessID != "" {
		return "", ErrAlreadyApproved
	}
	if sub.Status == model.StatusRejected {
		return "", ErrTerminalState
	}
	if !model.IsCanonicalCategory(sub.Category) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, sub.Category)
	}

	if missingCoordinates(sub) {
		coord, err := w.geocoder.Geocode(ctx, sub.Address)
		if err != nil {
			return "", fmt.Errorf("geocoding at approval: %w", err)
		}
		if coord == nil {
			return "", ErrMissingCoordinates
		}
		sub.Latitude = coord.Latitude
		sub.Longitude = coord.Longitude
	}

	listingID, err := w.store.Approve(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("publishing submission: %w", err)
	}
	w.log.Info("submission %s approved, published as %s", id, listingID)
	return listingID, nil
}

// Reject moves a pending submission to rejected. No listing is created.
func (w *Workflow) Reject(ctx context.Context, id string) error {
	if !w.authorize(ctx) {
		return ErrNotAuthorized
	}

	sub, err := w.store.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if sub.Terminal() {
		return ErrTerminalState
	}

	err = w.store.UpdateSubmissionFields(ctx, id, map[string]any{
		"status":     model.StatusRejected,
		"rejectedAt": time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("rejecting submission: %w", err)
	}
	w.log.Info("submission %s rejected", id)
	return nil
}

// Delete removes a submission in any state. A previously published listing
// stays published.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	if !w.authorize(ctx) {
		return ErrNotAuthorized
	}
	return w.store.DeleteSubmission(ctx, id)
}

// List returns all submissions, newest first.
func (w *Workflow) List(ctx context.Context) ([]model.Submission, error) {
	if !w.authorize(ctx) {
		return nil, ErrNotAuthorized
	}
	return w.store.ListSubmissions(ctx)
}

// missingCoordinates treats NaN and the (0,0) null island pair as absent,
// matching how unset coordinates come out of normalization and legacy data.
func missingCoordinates(sub model.Submission) bool {
	if math.IsNaN(sub.Latitude) || math.IsNaN(sub.Longitude) {
		return true
	}
	if sub.Latitude == 0 && sub.Longitude == 0 {
		return true
	}
	return !geo.ValidCoordinate(sub.Latitude, sub.Longitude)
}
