package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goliatone/go-hr-auth/employees/fixtures"
)

func main() {
	path := flag.String("out", "sample_employees.json", "fixture file to write")
	count := flag.Int("n", fixtures.DefaultCount, "number of employees")
	seed := flag.Uint64("seed", 0, "generator seed, 0 for random")
	flag.Parse()

	removed, err := fixtures.Remove(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if removed {
		fmt.Printf("Removed existing %s\n", *path)
	}

	fmt.Println("Generating new sample employee data...")
	records := fixtures.NewGenerator(*seed, time.Now()).Generate(*count)

	if err := fixtures.Save(*path, records); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d employees and saved to %s\n", len(records), *path)
}
