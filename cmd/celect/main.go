// Command celect is an interactive REPL: it reads one SQL statement per
// line, runs it through the driver, and prints the result as a simple
// fixed-width table.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/celect/celect/internal/celecterr"
	"github.com/celect/celect/internal/driver"
	"github.com/celect/celect/internal/parser"
	"github.com/celect/celect/internal/value"
)

func main() {
	fs := flag.NewFlagSet("celect", flag.ExitOnError)
	csvPath := fs.String("csv", "", "default CSV path appended as FROM '<path>' to lines that contain no single quote (optional; queries may also name their file directly)")
	parallelism := fs.Int("parallelism", 0, "scan worker count (0 = runtime.NumCPU())")
	batchSize := fs.Int("batch-size", 0, "rows per batch (0 = default)")
	sampleRows := fs.Int("sample-rows", 0, "rows sampled for type inference (0 = default)")
	fs.Parse(os.Args[1:])

	cfg := driver.Config{Parallelism: *parallelism, BatchSize: *batchSize, SampleRows: *sampleRows}

	fmt.Println("celect — columnar SQL over CSV. Type .help for commands, Ctrl-D to exit.")
	repl(os.Stdin, os.Stdout, cfg, *csvPath)
}

func repl(in *os.File, out *os.File, cfg driver.Config, defaultCSV string) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		fmt.Fprint(out, "celect> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := parser.TrimStatement(scanner.Text())
		if line == "" {
			continue
		}
		if handleCommand(w, line) {
			w.Flush()
			continue
		}

		sql := line
		if defaultCSV != "" {
			sql = substituteDefaultFrom(sql, defaultCSV)
		}

		res, diag, err := driver.Execute(sql, cfg)
		if err != nil {
			printErr(w, err)
			w.Flush()
			continue
		}
		printTable(w, res)
		fmt.Fprintf(w, "(%d rows, %d malformed, %d bytes scanned)\n", res.RowCount(), diag.MalformedRows, diag.ScanBytes)
		w.Flush()
	}
}

func handleCommand(w *bufio.Writer, line string) bool {
	switch line {
	case ".help":
		fmt.Fprintln(w, "Commands:")
		fmt.Fprintln(w, "  .help              show this message")
		fmt.Fprintln(w, "  .quit              exit (same as Ctrl-D)")
		fmt.Fprintln(w, "Anything else is run as a SELECT statement against the file it names.")
		return true
	case ".quit", ".exit":
		os.Exit(0)
	}
	return false
}

// substituteDefaultFrom lets a query omit its FROM clause: when no single
// quote appears in the line, " FROM '<path>'" is appended to its end, so
// only a line with no WHERE/LIMIT/OFFSET clause becomes valid SQL.
func substituteDefaultFrom(sql, path string) string {
	if strings.Contains(sql, "'") {
		return sql
	}
	return sql + " FROM '" + path + "'"
}

func printErr(w *bufio.Writer, err error) {
	if kind, ok := celecterr.Of(err); ok {
		fmt.Fprintf(w, "error [%s]: %v\n", kind, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func printTable(w *bufio.Writer, res driver.Result) {
	widths := make([]int, len(res.Schema.Fields))
	for i, f := range res.Schema.Fields {
		widths[i] = len(f.Name)
	}
	rows := make([][]string, 0, res.RowCount())
	for _, b := range res.Batches {
		for i := 0; i < b.N(); i++ {
			row := make([]string, len(res.Schema.Fields))
			for c := range res.Schema.Fields {
				row[c] = cellString(b.Columns[c], i)
				if len(row[c]) > widths[c] {
					widths[c] = len(row[c])
				}
			}
			rows = append(rows, row)
		}
	}

	for i, f := range res.Schema.Fields {
		fmt.Fprintf(w, "%-*s  ", widths[i], f.Name)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(w, "%-*s  ", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
}

func cellString(col *value.Column, i int) string {
	if !col.Validity.Valid(i) {
		return "NULL"
	}
	switch col.Type {
	case value.Int64:
		return fmt.Sprintf("%d", col.Int64s[i])
	case value.Float64:
		return fmt.Sprintf("%g", col.Float64s[i])
	case value.Bool:
		return fmt.Sprintf("%t", col.Bools[i])
	default:
		return col.Strings[i]
	}
}
