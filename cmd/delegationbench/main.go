// Command delegationbench drives the delegation core's micro-benchmark
// grid and writes the results as CSV.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/transitivedelegationvc/delegation/pkg/bench"
)

func main() {
	delegators := flag.Int("delegators", 4, "number of delegation hops in the benchmarked chain")
	permissions := flag.Int("permissions", 4, "permission/operation count granted at the chain root")
	iterations := flag.Int("iterations", 50, "iterations per measured metric")
	out := flag.String("out", "csv_dir", "output directory for the per-scenario CSV files")
	flag.Parse()

	cfg := bench.Config{Delegators: *delegators, Permissions: *permissions, Iterations: *iterations}

	rows, err := bench.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark run failed: %v\n", err)
		os.Exit(1)
	}

	writer, err := bench.NewCSVWriter(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "csv writer setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := writer.WriteAll(rows); err != nil {
		fmt.Fprintf(os.Stderr, "csv write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d rows across %s\n", len(rows), *out)
}
