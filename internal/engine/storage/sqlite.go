// Package storage implements the record store backing the directory: two
// document collections (published listings, pending submissions) with opaque
// ids, exact-field queries, and a full-snapshot watch stream.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/trailgoods/trailhead/internal/model"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrClosed is delivered to watchers when the store shuts down.
var ErrClosed = errors.New("store closed")

// Snapshot is one emission of the watch stream: a full replacement view of
// the listings collection, or a terminal error.
type Snapshot struct {
	Listings []model.Listing
	Err      error
}

type Store struct {
	db *sql.DB
	mu sync.Mutex

	watchMu   sync.Mutex
	watchers  map[int]chan Snapshot
	nextWatch int
	closed    bool
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &Store{db: db, watchers: make(map[int]chan Snapshot)}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_listings_created ON listings(created_at);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// AddListing stores a new published listing and returns its assigned id.
// A zero CreatedAt is stamped with the current time.
func (s *Store) AddListing(ctx context.Context, l model.Listing) (string, error) {
	s.mu.Lock()
	id, err := s.insertListing(ctx, l)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	s.broadcast(ctx)
	return id, nil
}

func (s *Store) insertListing(ctx context.Context, l model.Listing) (string, error) {
	id := uuid.NewString()
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().UnixMilli()
	}
	l.ID = id
	doc, err := json.Marshal(model.ListingDoc(l))
	if err != nil {
		return "", fmt.Errorf("encoding listing: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO listings (id, doc, created_at) VALUES (?,?,?)`,
		id, string(doc), l.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("inserting listing: %w", err)
	}
	return id, nil
}

// ListListings returns the full listings collection, newest first.
func (s *Store) ListListings(ctx context.Context) ([]model.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM listings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(doc), &raw); err != nil {
			continue
		}
		listings = append(listings, model.NormalizeListing(raw, id))
	}
	return listings, rows.Err()
}

// UpdateListingFields merges fields into the listing document.
func (s *Store) UpdateListingFields(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	err := s.mergeDoc(ctx, "listings", id, fields)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.broadcast(ctx)
	return nil
}

// DeleteListing removes a published listing.
func (s *Store) DeleteListing(ctx context.Context, id string) error {
	s.mu.Lock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}
	s.broadcast(ctx)
	return nil
}

// CountListings returns the size of the published collection.
func (s *Store) CountListings(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	return count, err
}

// AddSubmission stores a pending submission and returns its assigned id.
func (s *Store) AddSubmission(ctx context.Context, sub model.Submission) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if sub.Status == "" {
		sub.Status = model.StatusPending
	}
	if sub.CreatedAt == 0 {
		sub.CreatedAt = time.Now().UnixMilli()
	}
	sub.ID = id
	doc, err := json.Marshal(model.SubmissionDoc(sub))
	if err != nil {
		return "", fmt.Errorf("encoding submission: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, doc, created_at) VALUES (?,?,?)`,
		id, string(doc), sub.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("inserting submission: %w", err)
	}
	return id, nil
}

// GetSubmission fetches one submission by id.
func (s *Store) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM submissions WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return model.Submission{}, ErrNotFound
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("querying submission: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return model.Submission{}, fmt.Errorf("decoding submission: %w", err)
	}
	return model.NormalizeSubmission(raw, id), nil
}

// ListSubmissions returns all submissions, newest first.
func (s *Store) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM submissions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(doc), &raw); err != nil {
			continue
		}
		subs = append(subs, model.NormalizeSubmission(raw, id))
	}
	return subs, rows.Err()
}

// FindSubmissions returns submissions whose name and address both match
// exactly. Used for duplicate detection; the collection is small, so the
// match runs over the decoded documents.
func (s *Store) FindSubmissions(ctx context.Context, name, address string) ([]model.Submission, error) {
	subs, err := s.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Submission
	for _, sub := range subs {
		if sub.Name == name && sub.Address == address {
			out = append(out, sub)
		}
	}
	return out, nil
}

// UpdateSubmissionFields merges fields into the submission document.
func (s *Store) UpdateSubmissionFields(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeDoc(ctx, "submissions", id, fields)
}

// DeleteSubmission removes a submission in any state. Previously published
// listings are untouched.
func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return nil
}

// Approve publishes a submission: one transaction inserts the new listing and
// marks the submission approved with the back-reference. The listing id is
// returned. The final state never shows an approved submission without its
// listing.
func (s *Store) Approve(ctx context.Context, sub model.Submission) (string, error) {
	s.mu.Lock()
	listingID, err := s.approveTx(ctx, sub)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	s.broadcast(ctx)
	return listingID, nil
}

func (s *Store) approveTx(ctx context.Context, sub model.Submission) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning tx: %w", err)
	}

	now := time.Now().UnixMilli()
	listing := sub.Listing
	listing.ID = uuid.NewString()
	listing.CreatedAt = now

	listingDoc := model.ListingDoc(listing)
	listingDoc["approvedAt"] = now
	listingDoc["sourceSubmissionId"] = sub.ID
	encodedListing, err := json.Marshal(listingDoc)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("encoding listing: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO listings (id, doc, created_at) VALUES (?,?,?)`,
		listing.ID, string(encodedListing), now); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("inserting listing: %w", err)
	}

	updated := sub
	updated.Status = model.StatusApproved
	updated.PublishedBusinessID = listing.ID
	subDoc := model.SubmissionDoc(updated)
	subDoc["approvedAt"] = now
	encodedSub, err := json.Marshal(subDoc)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("encoding submission: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE submissions SET doc = ? WHERE id = ?`, string(encodedSub), sub.ID)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("updating submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return "", ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing tx: %w", err)
	}
	return listing.ID, nil
}

func (s *Store) mergeDoc(ctx context.Context, table, id string, fields map[string]any) error {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM `+table+` WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return fmt.Errorf("decoding %s doc: %w", table, err)
	}
	for k, v := range fields {
		raw[k] = v
	}
	merged, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding %s doc: %w", table, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET doc = ? WHERE id = ?`, string(merged), id); err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.watchMu.Lock()
	s.closed = true
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		deliver(ch, Snapshot{Err: ErrClosed})
		close(ch)
	}
	s.watchMu.Unlock()
	return s.db.Close()
}
