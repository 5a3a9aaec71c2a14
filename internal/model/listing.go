package model

import "strings"

// Listing is a published business record, visible in browse and on the map.
type Listing struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Owner             string  `json:"owner"`
	Category          string  `json:"category"`
	Description       string  `json:"description"`
	Address           string  `json:"address"`
	Phone             string  `json:"phone"`
	Website           string  `json:"website"`
	Hours             string  `json:"hours"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	CreatedAt         int64   `json:"created_at"` // milliseconds since epoch, 0 if unknown
	IsCommunitySeller bool    `json:"is_community_seller"`
}

// Submission status values. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is a candidate listing awaiting moderation.
type Submission struct {
	Listing
	Status              string `json:"status"`
	PublishedBusinessID string `json:"published_business_id"`
}

// Terminal reports whether the submission can no longer change status.
func (s *Submission) Terminal() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}

// Coordinate is a device position. Ephemeral, never persisted.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// SortMode selects the ordering produced by the ranking engine.
type SortMode int

const (
	SortByNearest SortMode = iota
	SortByName
	SortByRecent
)

func (m SortMode) String() string {
	switch m {
	case SortByNearest:
		return "nearest"
	case SortByName:
		return "name"
	case SortByRecent:
		return "recent"
	}
	return "unknown"
}

// ParseSortMode maps a user-supplied mode name to a SortMode.
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return SortByNearest, true
	case "name":
		return SortByName, true
	case "recent":
		return SortByRecent, true
	}
	return SortByNearest, false
}

// FormatPhone renders a bare 10-digit number as (xxx) xxx-xxxx.
// Anything else is returned verbatim.
func FormatPhone(value string) string {
	if value == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return value
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
