package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trailgoods/trailhead/internal/engine/review"
	"github.com/trailgoods/trailhead/internal/model"
)

func runReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	approveFlag := fs.String("approve", "", "approve and publish the submission with this id")
	rejectFlag := fs.String("reject", "", "reject the submission with this id")
	deleteFlag := fs.String("delete", "", "delete the submission with this id")
	dbFlag := fs.String("db", "", "path to the sqlite database")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trailhead review [options]

Lists pending submissions, or acts on one. Requires TRAILHEAD_ADMIN=1.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  trailhead review
  trailhead review -approve 4f1c...
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*dbFlag)
	if err != nil {
		return err
	}
	defer a.close()

	authorize := func(ctx context.Context) bool {
		return os.Getenv("TRAILHEAD_ADMIN") == "1"
	}
	w := review.NewWorkflow(a.store, a.geocoder(), authorize, a.log)
	ctx := context.Background()

	switch {
	case *approveFlag != "":
		listingID, err := w.Approve(ctx, *approveFlag)
		if err != nil {
			return err
		}
		fmt.Printf("%s published as %s\n", approvedBadge.Render("approved"), listingID)
		return nil
	case *rejectFlag != "":
		if err := w.Reject(ctx, *rejectFlag); err != nil {
			return err
		}
		fmt.Println(rejectedBadge.Render("rejected"))
		return nil
	case *deleteFlag != "":
		if err := w.Delete(ctx, *deleteFlag); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	}

	subs, err := w.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println(mutedStyle.Render("No submissions."))
		return nil
	}
	printSubmissions(subs)
	return nil
}

func printSubmissions(subs []model.Submission) {
	for _, sub := range subs {
		fmt.Printf("%s  %s  %s\n", statusBadge(sub.Status), titleStyle.Render(sub.Name), mutedStyle.Render(sub.ID))
		fmt.Printf("   %s · %s · submitted %s\n", sub.Category, sub.Address,
			time.UnixMilli(sub.CreatedAt).Format("2006-01-02"))
		if sub.PublishedBusinessID != "" {
			fmt.Printf("   published as %s\n", sub.PublishedBusinessID)
		}
	}
}
