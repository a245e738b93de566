// Command benchmark generates a synthetic CSV and runs a fixed set of
// representative queries against it through the driver, printing
// throughput in MB/s and rows/s for each.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/celect/celect/internal/driver"
)

func main() {
	sizeMB := 200
	if len(os.Args) >= 2 {
		fmt.Sscanf(os.Args[1], "%d", &sizeMB)
	}

	fmt.Printf("Generating %d MB CSV...\n", sizeMB)
	tmpDir, err := os.MkdirTemp("", "celect_bench")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	csvPath := filepath.Join(tmpDir, "bench.csv")
	rows, bytesWritten := generateCSV(csvPath, int64(sizeMB)*1024*1024)
	fmt.Printf("Generated %d rows (%.2f MB)\n", rows, float64(bytesWritten)/1024/1024)

	queries := []struct {
		name string
		sql  string
	}{
		{"scan+filter", fmt.Sprintf("SELECT name FROM '%s' WHERE age > 30", csvPath)},
		{"scan+and", fmt.Sprintf("SELECT name, age FROM '%s' WHERE active = true AND age > 18", csvPath)},
		{"count-star", fmt.Sprintf("SELECT COUNT(*) FROM '%s'", csvPath)},
		{"limit", fmt.Sprintf("SELECT * FROM '%s' LIMIT 1000", csvPath)},
	}

	fmt.Println("--------------------------------------------------")
	for _, q := range queries {
		start := time.Now()
		res, diag, err := driver.Execute(q.sql, driver.Config{})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s FAILED: %v\n", q.name, err)
			continue
		}
		mbPerSec := float64(bytesWritten) / 1024 / 1024 / elapsed.Seconds()
		rowsPerSec := float64(rows) / elapsed.Seconds()
		fmt.Printf("%-14s rows_out=%-8d %8.2f MB/s %12.0f rows/s  %v  (scan=%v)\n",
			q.name, res.RowCount(), mbPerSec, rowsPerSec, elapsed, diag.ScanElapsed)
	}
	fmt.Println("--------------------------------------------------")
}

// generateCSV writes an id,name,age,active CSV until it reaches limit
// bytes, matching the schema the driver test fixtures use.
func generateCSV(path string, limit int64) (rows int, bytesWritten int64) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 64*1024)
	defer w.Flush()
	w.WriteString("id,name,age,active\n")

	names := []string{"Alice", "Bob", "Charlie", "Dana", "Eve", "Frank", "Grace", "Heidi"}
	rng := rand.New(rand.NewSource(123))
	buf := make([]byte, 0, 64)

	for bytesWritten < limit {
		rows++
		buf = buf[:0]
		buf = fmt.Appendf(buf, "%d,%s,%d,%t\n", rows, names[rng.Intn(len(names))], rng.Intn(80), rng.Intn(2) == 0)
		n, _ := w.Write(buf)
		bytesWritten += int64(n)
	}
	return rows, bytesWritten
}
