package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/trailgoods/trailhead/internal/model"
)

var importColumns = []string{
	"name", "owner", "category", "description", "address",
	"phone", "website", "latitude", "longitude", "community_seller",
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fileFlag := fs.String("file", "", "CSV file to import (required)")
	dbFlag := fs.String("db", "", "path to the sqlite database")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trailhead import -file businesses.csv

Bulk-loads approved businesses from a CSV file. The first row must be a
header; recognized columns are:

  %s

Rows matching an existing business by name and address are skipped.
`, strings.Join(importColumns, ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fileFlag == "" {
		fs.Usage()
		return fmt.Errorf("missing -file")
	}

	f, err := os.Open(*fileFlag)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *fileFlag, err)
	}
	defer f.Close()

	a, err := newApp(*dbFlag)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	existing, err := a.store.ListListings(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, l := range existing {
		seen[dedupeKey(l.Name, l.Address)] = true
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return fmt.Errorf("header has no name column")
	}

	var imported, skipped, remapped, invalid int
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			a.log.Warn("line %d: %v", line, err)
			invalid++
			continue
		}

		l := listingFromRecord(record, cols)
		if l.Name == "" || l.Address == "" {
			a.log.Warn("line %d: missing name or address, skipping", line)
			invalid++
			continue
		}
		if canonical, _ := model.CanonicalizeCategory(l.Category); canonical != l.Category {
			l.Category = canonical
			remapped++
		}
		key := dedupeKey(l.Name, l.Address)
		if seen[key] {
			skipped++
			continue
		}

		if _, err := a.store.AddListing(ctx, l); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		seen[key] = true
		imported++
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"%s\n\nimported:   %d\nduplicates: %d\nremapped:   %d\ninvalid:    %d",
		titleStyle.Render("Import complete"), imported, skipped, remapped, invalid,
	)))
	return nil
}

// listingFromRecord funnels a CSV row through the same normalization as
// documents read from storage.
func listingFromRecord(record []string, cols map[string]int) model.Listing {
	raw := make(map[string]any, len(cols))
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	raw["name"] = field("name")
	raw["owner"] = field("owner")
	raw["category"] = field("category")
	raw["description"] = field("description")
	raw["address"] = field("address")
	raw["phone"] = field("phone")
	raw["website"] = field("website")
	if v, err := strconv.ParseFloat(field("latitude"), 64); err == nil {
		raw["latitude"] = v
	}
	if v, err := strconv.ParseFloat(field("longitude"), 64); err == nil {
		raw["longitude"] = v
	}
	raw["isCommunitySeller"] = field("community_seller") == "true"

	l := model.NormalizeListing(raw, "")
	if l.Name == "Untitled" {
		l.Name = ""
	}
	return l
}

func dedupeKey(name, address string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(address))
}
