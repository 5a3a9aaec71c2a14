package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/trailgoods/trailhead/internal/engine/intake"
	"github.com/trailgoods/trailhead/internal/model"
)

func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	form := intake.Form{}
	fs.StringVar(&form.Name, "name", "", "business name (required)")
	fs.StringVar(&form.Owner, "owner", "", "owner name (required)")
	fs.StringVar(&form.Category, "category", "", "business category (required)")
	fs.StringVar(&form.Description, "description", "", "short description (required)")
	fs.StringVar(&form.Address, "address", "", "street address (required)")
	fs.StringVar(&form.Phone, "phone", "", "contact phone")
	fs.StringVar(&form.Website, "website", "", "website URL")
	fs.StringVar(&form.Latitude, "lat", "", "latitude, if you already know it")
	fs.StringVar(&form.Longitude, "lng", "", "longitude, if you already know it")
	fs.BoolVar(&form.IsCommunitySeller, "community-seller", false, "mark as an individual community seller")
	dbFlag := fs.String("db", "", "path to the sqlite database")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trailhead submit [options]

Submits a business for review. The address is geocoded unless -lat and
-lng are both given.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Categories:
  %s
`, strings.Join(model.Categories(), "\n  "))
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*dbFlag)
	if err != nil {
		return err
	}
	defer a.close()

	svc := intake.NewService(a.store, a.geocoder(), a.cache, a.log, a.cfg.RateLimitWindow)
	sub, err := svc.Submit(context.Background(), form)
	if err != nil {
		return err
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"Submitted for review\n\n%s\n%s\nid: %s",
		titleStyle.Render(sub.Name),
		sub.Address,
		sub.ID,
	)))
	return nil
}
