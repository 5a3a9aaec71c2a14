package model

import (
	"math"
	"strconv"
	"time"
)

// NormalizeListing converts an untyped store record into a Listing, supplying
// defaults for missing optional fields. Malformed numeric fields become NaN
// (coordinates) or 0 (createdAt) rather than failing.
func NormalizeListing(raw map[string]any, id string) Listing {
	if id == "" {
		id, _ = raw["id"].(string)
	}

	name := stringField(raw, "name")
	if name == "" {
		name = "Untitled"
	}

	return Listing{
		ID:                id,
		Name:              name,
		Owner:             stringField(raw, "owner"),
		Category:          stringField(raw, "category"),
		Description:       stringField(raw, "description"),
		Address:           stringField(raw, "address"),
		Phone:             stringField(raw, "phone"),
		Website:           stringField(raw, "website"),
		Hours:             stringField(raw, "hours"),
		Latitude:          numberField(raw["latitude"]),
		Longitude:         numberField(raw["longitude"]),
		CreatedAt:         NormalizeCreatedAt(raw["createdAt"]),
		IsCommunitySeller: boolField(raw, "isCommunitySeller"),
	}
}

// NormalizeCreatedAt coerces heterogeneous timestamp representations to
// milliseconds since epoch. Unknown shapes yield 0.
func NormalizeCreatedAt(val any) int64 {
	switch v := val.(type) {
	case nil:
		return 0
	case time.Time:
		return v.UnixMilli()
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case map[string]any:
		// Native timestamp object: {seconds, nanoseconds}.
		secs, ok := v["seconds"]
		if !ok {
			return 0
		}
		s := numberField(secs)
		if math.IsNaN(s) {
			return 0
		}
		n := numberField(v["nanoseconds"])
		if math.IsNaN(n) {
			n = 0
		}
		return int64(s*1000 + n/1e6)
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UnixMilli()
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t.UnixMilli()
		}
		return 0
	}
	return 0
}

// NormalizeSubmission is NormalizeListing plus the moderation fields.
// A record with no status is treated as pending.
func NormalizeSubmission(raw map[string]any, id string) Submission {
	sub := Submission{Listing: NormalizeListing(raw, id)}
	sub.Status = stringField(raw, "status")
	if sub.Status == "" {
		sub.Status = StatusPending
	}
	sub.PublishedBusinessID = stringField(raw, "publishedBusinessId")
	return sub
}

// ListingDoc converts a Listing to the untyped record shape persisted by the
// store and the snapshot cache. Non-finite coordinates are omitted so the
// document stays JSON-serializable; they normalize back to NaN on read.
func ListingDoc(l Listing) map[string]any {
	doc := map[string]any{
		"name":              l.Name,
		"owner":             l.Owner,
		"category":          l.Category,
		"description":       l.Description,
		"address":           l.Address,
		"phone":             l.Phone,
		"website":           l.Website,
		"hours":             l.Hours,
		"createdAt":         l.CreatedAt,
		"isCommunitySeller": l.IsCommunitySeller,
	}
	if l.ID != "" {
		doc["id"] = l.ID
	}
	if !math.IsNaN(l.Latitude) && !math.IsInf(l.Latitude, 0) {
		doc["latitude"] = l.Latitude
	}
	if !math.IsNaN(l.Longitude) && !math.IsInf(l.Longitude, 0) {
		doc["longitude"] = l.Longitude
	}
	return doc
}

// SubmissionDoc is ListingDoc plus the moderation fields.
func SubmissionDoc(s Submission) map[string]any {
	doc := ListingDoc(s.Listing)
	doc["status"] = s.Status
	if s.PublishedBusinessID != "" {
		doc["publishedBusinessId"] = s.PublishedBusinessID
	}
	return doc
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func numberField(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
