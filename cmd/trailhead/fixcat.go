package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/trailgoods/trailhead/internal/model"
)

func runFixCategories(args []string) error {
	fs := flag.NewFlagSet("fix-categories", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report what would change without writing")
	dbFlag := fs.String("db", "", "path to the sqlite database")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trailhead fix-categories [options]

Rewrites retired category names to their current equivalents across
businesses and submissions.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*dbFlag)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	listings, err := a.store.ListListings(ctx)
	if err != nil {
		return err
	}
	var fixedListings int
	for _, l := range listings {
		fields := categoryFixes(l.Category)
		if len(fields) == 0 {
			continue
		}
		fixedListings++
		if *dryRun {
			a.log.Info("would fix business %s: %q -> %q", l.ID, l.Category, fields["category"])
			continue
		}
		if err := a.store.UpdateListingFields(ctx, l.ID, fields); err != nil {
			return fmt.Errorf("business %s: %w", l.ID, err)
		}
	}

	subs, err := a.store.ListSubmissions(ctx)
	if err != nil {
		return err
	}
	var fixedSubs int
	for _, sub := range subs {
		fields := categoryFixes(sub.Category)
		if len(fields) == 0 {
			continue
		}
		fixedSubs++
		if *dryRun {
			a.log.Info("would fix submission %s: %q -> %q", sub.ID, sub.Category, fields["category"])
			continue
		}
		if err := a.store.UpdateSubmissionFields(ctx, sub.ID, fields); err != nil {
			return fmt.Errorf("submission %s: %w", sub.ID, err)
		}
	}

	verb := "fixed"
	if *dryRun {
		verb = "would fix"
	}
	fmt.Printf("%s %d businesses and %d submissions\n", verb, fixedListings, fixedSubs)
	return nil
}

// categoryFixes returns the field updates a record needs, or nil when
// its category is already canonical. Unknown labels rewrite to the
// fallback category.
func categoryFixes(category string) map[string]any {
	canonical, _ := model.CanonicalizeCategory(category)
	if canonical == strings.TrimSpace(category) {
		return nil
	}
	return map[string]any{"category": canonical}
}
