// Command breakdown runs a single query and prints per-phase timings
// (plan, optimize, scan, exec) alongside row-count and scan diagnostics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/celect/celect/internal/csvio"
	"github.com/celect/celect/internal/driver"
)

func main() {
	fs := flag.NewFlagSet("breakdown", flag.ExitOnError)
	parallelism := fs.Int("parallelism", 0, "scan worker count (0 = runtime.NumCPU())")
	batchSize := fs.Int("batch-size", 0, "rows per batch (0 = default)")
	sampleRows := fs.Int("sample-rows", 0, "rows sampled for type inference (0 = default)")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: breakdown [flags] \"SELECT ... FROM '...'\"")
		os.Exit(1)
	}
	sql := args[0]

	cfg := driver.Config{Parallelism: *parallelism, BatchSize: *batchSize, SampleRows: *sampleRows}

	caps := csvio.DetectCapabilities()
	fmt.Printf("tokenizer:  %s\n", caps.String())

	res, diag, err := driver.Execute(sql, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("rows:       %d\n", res.RowCount())
	fmt.Printf("malformed:  %d\n", diag.MalformedRows)
	fmt.Printf("scan bytes: %d\n", diag.ScanBytes)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("parse+plan: %v\n", diag.PlanElapsed)
	fmt.Printf("optimize:   %v\n", diag.OptimizeElapsed)
	fmt.Printf("scan:       %v\n", diag.ScanElapsed)
	fmt.Printf("execute:    %v\n", diag.ExecElapsed)
}
