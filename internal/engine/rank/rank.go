// Package rank orders and filters listing snapshots for display. It is a pure
// function of its inputs: no state, no side effects, inputs never mutated.
package rank

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/model"
)

// Rank returns a new ordered, filtered view of listings.
//
// The category filter keeps listings whose trimmed category equals it exactly;
// model.CategoryAll keeps everything. Sort modes:
//
//   - SortByName: ascending locale-aware order on Name.
//   - SortByRecent: descending CreatedAt, ties broken by ascending Name.
//   - SortByNearest: ascending haversine distance from user. A nil user leaves
//     the input order untouched. A NaN distance (invalid listing coordinates)
//     compares as +Inf, so such listings sort last, stable among themselves.
func Rank(listings []model.Listing, user *model.Coordinate, mode model.SortMode, category string) []model.Listing {
	out := filterCategory(listings, category)

	switch mode {
	case model.SortByName:
		cmp := nameComparator()
		sort.SliceStable(out, func(i, j int) bool {
			return cmp(out[i].Name, out[j].Name) < 0
		})
	case model.SortByRecent:
		cmp := nameComparator()
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CreatedAt != out[j].CreatedAt {
				return out[i].CreatedAt > out[j].CreatedAt
			}
			return cmp(out[i].Name, out[j].Name) < 0
		})
	case model.SortByNearest:
		if user == nil {
			return out
		}
		// Sort indices so each listing's distance is computed exactly once.
		dist := make([]float64, len(out))
		for i, l := range out {
			d := geo.DistanceMeters(user.Latitude, user.Longitude, l.Latitude, l.Longitude)
			if math.IsNaN(d) {
				d = math.Inf(1)
			}
			dist[i] = d
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			return dist[idx[i]] < dist[idx[j]]
		})
		sorted := make([]model.Listing, len(out))
		for i, k := range idx {
			sorted[i] = out[k]
		}
		return sorted
	}

	return out
}

func filterCategory(listings []model.Listing, category string) []model.Listing {
	if category == model.CategoryAll || category == "" {
		out := make([]model.Listing, len(listings))
		copy(out, listings)
		return out
	}
	out := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.TrimSpace(l.Category) == category {
			out = append(out, l)
		}
	}
	return out
}

// nameComparator returns a locale-aware string comparison. Collators are not
// safe for concurrent use, so each sort gets its own.
func nameComparator() func(a, b string) int {
	c := collate.New(language.English)
	return c.CompareString
}
