package main

import (
	"fmt"

	"github.com/trailgoods/trailhead/internal/cache"
	"github.com/trailgoods/trailhead/internal/config"
	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/engine/storage"
	"github.com/trailgoods/trailhead/internal/logging"
)

// app bundles the pieces every subcommand needs.
type app struct {
	cfg   *config.Config
	log   *logging.Logger
	store *storage.Store
	cache *cache.Cache
}

func newApp(dbPath string) (*app, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DBPath, err)
	}

	return &app{
		cfg:   cfg,
		log:   logging.New(cfg.Verbose),
		store: store,
		cache: cache.New(cfg.CacheDir),
	}, nil
}

func (a *app) geocoder() geo.Geocoder {
	return geo.NewNominatimGeocoder(a.cfg.GeocoderURL, a.cfg.GeocoderUserAgent)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store: %v", err)
	}
}
