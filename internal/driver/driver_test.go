package driver

import (
	"os"
	"path/filepath"
	"testing"
)

const dataCSV = "id,name,age,active\n" +
	"1,Alice,30,true\n" +
	"2,Bob,20,false\n" +
	"3,Charlie,35,true\n"

func fixturePath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(dataCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func collectStrings(t *testing.T, res Result, col string) []string {
	t.Helper()
	idx := res.Schema.IndexOf(col)
	if idx == -1 {
		t.Fatalf("no column %q in result schema %v", col, res.Schema)
	}
	var out []string
	for _, b := range res.Batches {
		for i := 0; i < b.N(); i++ {
			out = append(out, b.Columns[idx].Strings[i])
		}
	}
	return out
}

func TestExecuteFilterAgeGreaterThan25(t *testing.T) {
	path := fixturePath(t)
	sql := "SELECT name, age FROM '" + path + "' WHERE age > 25"
	res, _, err := Execute(sql, Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	names := collectStrings(t, res, "name")
	want := map[string]bool{"Alice": true, "Charlie": true}
	if len(names) != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", len(names), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected name %q in result", n)
		}
	}
}

func TestExecuteActiveAndAgeOver30(t *testing.T) {
	path := fixturePath(t)
	sql := "SELECT name FROM '" + path + "' WHERE active = true AND age > 30"
	res, _, err := Execute(sql, Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	names := collectStrings(t, res, "name")
	if len(names) != 1 || names[0] != "Charlie" {
		t.Fatalf("expected [Charlie], got %v", names)
	}
}

func TestExecuteOrWithParens(t *testing.T) {
	path := fixturePath(t)
	sql := "SELECT name FROM '" + path + "' WHERE (age > 25 AND active = true) OR name = 'Bob'"
	res, _, err := Execute(sql, Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	names := collectStrings(t, res, "name")
	want := map[string]bool{"Alice": true, "Bob": true, "Charlie": true}
	if len(names) != 3 {
		t.Fatalf("expected 3 rows, got %d (%v)", len(names), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected name %q in result", n)
		}
	}
}

func TestExecuteCountStar(t *testing.T) {
	path := fixturePath(t)
	res, _, err := Execute("SELECT COUNT(*) FROM '"+path+"'", Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.RowCount() != 1 {
		t.Fatalf("expected 1 summary row, got %d", res.RowCount())
	}
	got := res.Batches[0].Columns[0].Int64s[0]
	if got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
}

func TestExecuteCountColumnWithWhere(t *testing.T) {
	path := fixturePath(t)
	res, _, err := Execute("SELECT COUNT(name) FROM '"+path+"' WHERE age < 25", Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := res.Batches[0].Columns[0].Int64s[0]
	if got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}
}

func TestExecuteStarLimitOffset(t *testing.T) {
	path := fixturePath(t)
	res, _, err := Execute("SELECT * FROM '"+path+"' LIMIT 2 OFFSET 1", Config{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.RowCount() != 2 {
		t.Fatalf("expected exactly 2 rows, got %d", res.RowCount())
	}
	names := collectStrings(t, res, "name")
	allowed := map[string]bool{"Alice": true, "Bob": true, "Charlie": true}
	for _, n := range names {
		if !allowed[n] {
			t.Fatalf("unexpected name %q in result", n)
		}
	}
}

func TestExecuteUnknownColumnIsPlanError(t *testing.T) {
	path := fixturePath(t)
	_, _, err := Execute("SELECT bogus FROM '"+path+"'", Config{})
	if err == nil {
		t.Fatal("expected a plan error for an unknown column")
	}
}

func TestExecuteParallelScanYieldsSameRowSet(t *testing.T) {
	path := fixturePath(t)
	for _, p := range []int{1, 2, 4} {
		res, _, err := Execute("SELECT name FROM '"+path+"' WHERE age > 25", Config{Parallelism: p})
		if err != nil {
			t.Fatalf("parallelism=%d: execute: %v", p, err)
		}
		names := collectStrings(t, res, "name")
		if len(names) != 2 {
			t.Fatalf("parallelism=%d: expected 2 rows, got %d (%v)", p, len(names), names)
		}
	}
}
