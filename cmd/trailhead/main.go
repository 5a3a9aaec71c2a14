package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "browse":
			run(runBrowse(os.Args[2:]))
			return
		case "submit":
			run(runSubmit(os.Args[2:]))
			return
		case "review":
			run(runReview(os.Args[2:]))
			return
		case "import":
			run(runImport(os.Args[2:]))
			return
		case "fix-categories":
			run(runFixCategories(os.Args[2:]))
			return
		case "version":
			fmt.Println("trailhead " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	printUsage()
	os.Exit(1)
}

func run(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `trailhead - Native-owned business directory

Usage:
  trailhead browse [flags]          List businesses, sorted and filtered
  trailhead submit [flags]          Submit a business for review
  trailhead review [flags]          List, approve, or reject submissions
  trailhead import [flags]          Bulk-load businesses from CSV
  trailhead fix-categories [flags]  Migrate legacy category labels
  trailhead version                 Show version

Run 'trailhead <command> --help' for flags.
`)
}
