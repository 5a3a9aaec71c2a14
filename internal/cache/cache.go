// Package cache is the local persistent store for the last-known listings
// snapshot and the submission rate-limit stamp. Content is advisory: always
// possibly stale, never a source of truth. A single slot per key, overwritten
// wholesale; concurrent writers race and the last one wins.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/trailgoods/trailhead/internal/model"
)

const (
	snapshotKey   = "businesses-cache-v1"
	submissionKey = "last-submission"
)

type Cache struct {
	dir string
}

// New returns a cache rooted at dir. An empty dir defaults to the trailhead
// folder under the user config directory.
func New(dir string) *Cache {
	if dir == "" {
		cfg, _ := os.UserConfigDir()
		dir = filepath.Join(cfg, "trailhead")
	}
	return &Cache{dir: dir}
}

// LoadSnapshot returns the cached listings snapshot. A missing or corrupt
// cache is a miss, never an error: rendering falls back to live data.
func (c *Cache) LoadSnapshot() ([]model.Listing, bool) {
	data, err := os.ReadFile(c.path(snapshotKey))
	if err != nil {
		return nil, false
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, false
	}
	listings := make([]model.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, model.NormalizeListing(doc, ""))
	}
	return listings, true
}

// SaveSnapshot overwrites the snapshot slot with the full collection.
func (c *Cache) SaveSnapshot(listings []model.Listing) error {
	docs := make([]map[string]any, 0, len(listings))
	for _, l := range listings {
		docs = append(docs, model.ListingDoc(l))
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	return c.write(snapshotKey, data)
}

// LastSubmission returns when the last successful submission happened,
// or the zero time if none is recorded.
func (c *Cache) LastSubmission() time.Time {
	data, err := os.ReadFile(c.path(submissionKey))
	if err != nil {
		return time.Time{}
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

// SetLastSubmission records the rate-limit stamp.
func (c *Cache) SetLastSubmission(t time.Time) error {
	data, _ := json.Marshal(t.UnixMilli())
	return c.write(submissionKey, data)
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) write(key string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0644)
}
