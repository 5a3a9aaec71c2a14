package model

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeListingDefaults(t *testing.T) {
	l := NormalizeListing(map[string]any{}, "abc")
	if l.ID != "abc" {
		t.Errorf("ID: got %q, want %q", l.ID, "abc")
	}
	if l.Name != "Untitled" {
		t.Errorf("Name: got %q, want %q", l.Name, "Untitled")
	}
	if l.Owner != "" || l.Description != "" || l.Address != "" {
		t.Errorf("optional fields should default to empty, got %+v", l)
	}
	if !math.IsNaN(l.Latitude) || !math.IsNaN(l.Longitude) {
		t.Errorf("missing coordinates should be NaN, got (%v, %v)", l.Latitude, l.Longitude)
	}
	if l.CreatedAt != 0 {
		t.Errorf("CreatedAt: got %d, want 0", l.CreatedAt)
	}
	if l.IsCommunitySeller {
		t.Error("IsCommunitySeller should default to false")
	}
}

func TestNormalizeListingCoercesCoordinates(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want float64
	}{
		{"float", 45.5, 45.5},
		{"int", 45, 45},
		{"numeric string", "45.5", 45.5},
		{"garbage string", "north", math.NaN()},
		{"wrong type", []int{1}, math.NaN()},
	}

	for _, tt := range tests {
		l := NormalizeListing(map[string]any{"latitude": tt.val, "longitude": tt.val}, "x")
		if math.IsNaN(tt.want) {
			if !math.IsNaN(l.Latitude) {
				t.Errorf("%s: got %v, want NaN", tt.name, l.Latitude)
			}
			continue
		}
		if l.Latitude != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, l.Latitude, tt.want)
		}
	}
}

func TestNormalizeCreatedAt(t *testing.T) {
	ref := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		val  any
		want int64
	}{
		{"nil", nil, 0},
		{"time.Time", ref, ref.UnixMilli()},
		{"epoch millis int64", int64(1748779200000), 1748779200000},
		{"epoch millis float", float64(1748779200000), 1748779200000},
		{"timestamp object", map[string]any{"seconds": float64(1748779200), "nanoseconds": float64(500000000)}, 1748779200500},
		{"timestamp object no nanos", map[string]any{"seconds": float64(1748779200)}, 1748779200000},
		{"rfc3339 string", "2025-06-01T12:00:00Z", ref.UnixMilli()},
		{"date string", "2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()},
		{"garbage string", "yesterday", 0},
		{"wrong type", true, 0},
	}

	for _, tt := range tests {
		if got := NormalizeCreatedAt(tt.val); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCanonicalizeCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		mapped bool
	}{
		{"Arts, Crafts & Cultural Goods", CategoryCulturalGoods, true},
		{"Tribal Enterprises & Tribal Programs", CategoryTribalEnterprise, true},
		{CategoryProfessional, CategoryProfessional, true},
		{"  Professional Services  ", CategoryProfessional, true},
		{"Unknown Stuff", FallbackCategory, false},
		{"", FallbackCategory, false},
	}

	for _, tt := range tests {
		got, ok := CanonicalizeCategory(tt.in)
		if got != tt.want || ok != tt.mapped {
			t.Errorf("CanonicalizeCategory(%q): got (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.mapped)
		}
	}
}

func TestIsCanonicalCategory(t *testing.T) {
	for _, c := range Categories() {
		if !IsCanonicalCategory(c) {
			t.Errorf("%q should be canonical", c)
		}
	}
	if IsCanonicalCategory("Unknown") {
		t.Error("Unknown should not be canonical")
	}
	if IsCanonicalCategory(CategoryAll) {
		t.Error("the all-categories sentinel is not itself a category")
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5035551234", "(503) 555-1234"},
		{"503-555-1234", "(503) 555-1234"},
		{"(503) 555 1234", "(503) 555-1234"},
		{"555-1234", "555-1234"},
		{"", ""},
		{"+1 503 555 1234", "+1 503 555 1234"},
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
