package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/trailgoods/trailhead/internal/engine/geo"
	"github.com/trailgoods/trailhead/internal/engine/rank"
	"github.com/trailgoods/trailhead/internal/engine/sync"
	"github.com/trailgoods/trailhead/internal/location"
	"github.com/trailgoods/trailhead/internal/model"
)

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	sortFlag := fs.String("sort", "nearest", "sort order: nearest, name or recent")
	categoryFlag := fs.String("category", model.CategoryAll, "filter to a single category")
	latFlag := fs.Float64("lat", math.NaN(), "your latitude (overrides TRAILHEAD_LAT)")
	lngFlag := fs.Float64("lng", math.NaN(), "your longitude (overrides TRAILHEAD_LNG)")
	mappableFlag := fs.Bool("mappable", false, "only businesses with plottable coordinates")
	dbFlag := fs.String("db", "", "path to the sqlite database")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trailhead browse [options]

Lists approved businesses, sorted and filtered.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  trailhead browse -sort name
  trailhead browse -category "Restaurants, Food Carts & Coffee" -lat 45.52 -lng -122.68
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, ok := model.ParseSortMode(*sortFlag)
	if !ok {
		return fmt.Errorf("unknown sort order %q (want nearest, name or recent)", *sortFlag)
	}

	a, err := newApp(*dbFlag)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	r := sync.NewReconciler(a.store, a.cache, a.log, sync.Options{})
	r.Start(ctx)
	defer r.Stop()
	if err := r.Refresh(ctx); err != nil {
		a.log.Warn("could not refresh listings, showing cached data: %v", err)
	}

	user := resolveUser(ctx, *latFlag, *lngFlag, a)
	pool := r.Listings()
	if *mappableFlag {
		pool = geo.PlottableOnly(pool)
	}
	listings := rank.Rank(pool, user, mode, *categoryFlag)

	if len(listings) == 0 {
		fmt.Println(mutedStyle.Render("No businesses found."))
		return nil
	}

	printListings(listings, user)
	fmt.Println(mutedStyle.Render(fmt.Sprintf("%d businesses · sorted by %s", len(listings), mode)))
	return nil
}

// resolveUser picks a location from flags, then the environment. A nil
// result keeps listings in their stored order under nearest-sort.
func resolveUser(ctx context.Context, lat, lng float64, a *app) *model.Coordinate {
	if geo.ValidCoordinate(lat, lng) {
		return &model.Coordinate{Latitude: lat, Longitude: lng}
	}
	c, err := location.FromEnv().Current(ctx)
	if err != nil {
		a.log.Debug("location unavailable: %v", err)
		return nil
	}
	return &c
}

func printListings(listings []model.Listing, user *model.Coordinate) {
	for _, l := range listings {
		header := titleStyle.Render(l.Name)
		if d := distanceLabel(l, user); d != "" {
			header += "  " + mutedStyle.Render(d)
		}
		fmt.Println(header)

		var details []string
		details = append(details, l.Category)
		if l.Address != "" {
			details = append(details, l.Address)
		}
		if phone := model.FormatPhone(l.Phone); phone != "" {
			details = append(details, phone)
		}
		if l.Website != "" {
			details = append(details, l.Website)
		}
		fmt.Println("  " + strings.Join(details, " · "))
		fmt.Println()
	}
}

func distanceLabel(l model.Listing, user *model.Coordinate) string {
	if user == nil || !geo.ValidCoordinate(l.Latitude, l.Longitude) {
		return ""
	}
	m := geo.DistanceMeters(user.Latitude, user.Longitude, l.Latitude, l.Longitude)
	return fmt.Sprintf("%.1f mi", geo.MetersToMiles(m))
}
