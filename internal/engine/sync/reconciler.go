// Package sync bridges the record store and the ranking engine: cached
// snapshot first for instant rendering, then live full-replacement updates,
// with transient failures never clearing what is already on screen.
package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/trailgoods/trailhead/internal/cache"
	"github.com/trailgoods/trailhead/internal/engine/storage"
	"github.com/trailgoods/trailhead/internal/logging"
	"github.com/trailgoods/trailhead/internal/model"
)

// Feed is the slice of the record store the reconciler consumes.
type Feed interface {
	Watch(ctx context.Context) <-chan storage.Snapshot
	ListListings(ctx context.Context) ([]model.Listing, error)
}

// Options configures a Reconciler. Both callbacks are optional and are
// invoked from whichever goroutine applied the snapshot.
type Options struct {
	// OnChange fires after every applied snapshot with the new collection.
	OnChange func([]model.Listing)
	// OnError fires on subscription or refresh failures. Existing in-memory
	// data is always preserved across these.
	OnError func(error)
}

type Reconciler struct {
	feed  Feed
	cache *cache.Cache
	log   *logging.Logger
	opts  Options

	mu       gosync.Mutex
	listings []model.Listing
	stopped  bool
	cancel   context.CancelFunc
}

func NewReconciler(feed Feed, c *cache.Cache, log *logging.Logger, opts Options) *Reconciler {
	return &Reconciler{feed: feed, cache: c, log: log, opts: opts}
}

// Start renders the cached snapshot immediately (stale-but-available), then
// subscribes to the live stream. Each received snapshot replaces the
// in-memory collection wholesale and overwrites the cache slot. Stream errors
// surface through OnError; data already applied stays visible.
func (r *Reconciler) Start(ctx context.Context) {
	if cached, ok := r.cache.LoadSnapshot(); ok {
		r.apply(cached, false)
		r.log.Debug("rendered %d cached listings", len(cached))
	}

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	ch := r.feed.Watch(ctx)
	go func() {
		for snap := range ch {
			if snap.Err != nil {
				r.log.Warn("listing stream error: %v", snap.Err)
				if r.opts.OnError != nil {
					r.opts.OnError(snap.Err)
				}
				continue
			}
			r.apply(snap.Listings, true)
		}
	}()
}

// Refresh is the manual one-shot fallback: a single fetch-all with the same
// replace-and-cache behavior. A refresh that completes after Stop does not
// apply. When refreshes race, the last one to complete wins, matching the
// store's full-replace model.
func (r *Reconciler) Refresh(ctx context.Context) error {
	listings, err := r.feed.ListListings(ctx)
	if err != nil {
		if r.opts.OnError != nil {
			r.opts.OnError(err)
		}
		return fmt.Errorf("refreshing listings: %w", err)
	}
	if !r.apply(listings, true) {
		return nil
	}
	r.log.Info("refreshed %d listings", len(listings))
	return nil
}

// Stop tears down the live subscription. No snapshot received or completed
// after Stop is applied.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Listings returns a copy of the current collection.
func (r *Reconciler) Listings() []model.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Listing, len(r.listings))
	copy(out, r.listings)
	return out
}

func (r *Reconciler) apply(listings []model.Listing, persist bool) bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return false
	}
	r.listings = listings
	r.mu.Unlock()

	if persist {
		if err := r.cache.SaveSnapshot(listings); err != nil {
			// Cache writes are advisory; rendering continues.
			r.log.Warn("caching snapshot: %v", err)
		}
	}
	if r.opts.OnChange != nil {
		r.opts.OnChange(listings)
	}
	return true
}
