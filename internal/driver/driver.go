// Package driver binds the parser, planner, optimizer, and physical
// pipeline into the single entry point every collaborator (REPL,
// breakdown, benchmark) calls.
package driver

import (
	"time"

	"github.com/celect/celect/internal/celecterr"
	"github.com/celect/celect/internal/csvio"
	"github.com/celect/celect/internal/optimize"
	"github.com/celect/celect/internal/parser"
	"github.com/celect/celect/internal/physical"
	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

// Config carries the scanner tunables a caller can override; it is a
// thin wrapper around csvio.Config so driver callers never need to
// import csvio directly.
type Config struct {
	Parallelism int
	BatchSize   int
	SampleRows  int
}

func (c Config) toScanConfig() csvio.Config {
	sc := csvio.DefaultConfig()
	if c.Parallelism > 0 {
		sc.Parallelism = c.Parallelism
	}
	if c.BatchSize > 0 {
		sc.BatchSize = c.BatchSize
	}
	if c.SampleRows > 0 {
		sc.SampleRows = c.SampleRows
	}
	return sc
}

// Result is the executed query's output table.
type Result struct {
	Schema  value.Schema
	Batches []*value.Batch
}

// RowCount returns the total number of rows across every result batch.
func (r Result) RowCount() int {
	n := 0
	for _, b := range r.Batches {
		n += b.N()
	}
	return n
}

// Diagnostics is the per-query accounting record.
type Diagnostics struct {
	MalformedRows   int64
	ScanBytes       int64
	ScanElapsed     time.Duration
	PlanElapsed     time.Duration
	OptimizeElapsed time.Duration
	ExecElapsed     time.Duration
}

// Execute parses, plans, optimizes, and runs sql against the CSV file
// it names, returning the result table and diagnostics. Errors are
// classified into a celecterr.Kind at the boundary where they were
// first detected: parse errors in the parser, plan errors in the
// builder, I/O/schema errors in the scanner.
func Execute(sql string, cfg Config) (Result, Diagnostics, error) {
	var diag Diagnostics

	planStart := time.Now()
	stmt, err := parser.Parse(sql)
	if err != nil {
		return Result{}, diag, err
	}

	scanCfg := cfg.toScanConfig()
	var src *csvio.Source
	var schema value.Schema
	var dataStart int

	resolve := func(path string) (value.Schema, error) {
		var err error
		src, err = csvio.OpenSource(path)
		if err != nil {
			return value.Schema{}, err
		}
		schema, dataStart, err = csvio.InferSchema(src.Data, scanCfg.SampleRows)
		return schema, err
	}

	node, err := plan.Build(stmt, resolve)
	diag.PlanElapsed = time.Since(planStart)
	if src != nil {
		defer src.Close()
	}
	if err != nil {
		return Result{}, diag, err
	}

	optStart := time.Now()
	node = optimize.Optimize(node)
	diag.OptimizeElapsed = time.Since(optStart)

	execStart := time.Now()
	pipeline := physical.Build(node)
	csvDiag := &csvio.Diagnostics{}
	scanStart := time.Now()
	if err := csvio.Run(src, dataStart, schema, pipeline.Scan, scanCfg, pipeline, csvDiag); err != nil {
		return Result{}, diag, celecterr.Wrap(celecterr.Io, "scan", err)
	}
	diag.ScanElapsed = time.Since(scanStart)
	if err := pipeline.Entry.Finish(); err != nil {
		return Result{}, diag, err
	}
	diag.ExecElapsed = time.Since(execStart)
	diag.MalformedRows = csvDiag.MalformedRows
	diag.ScanBytes = csvDiag.ScanBytes

	return Result{Schema: pipeline.Sink.Schema, Batches: pipeline.Sink.Batches}, diag, nil
}
