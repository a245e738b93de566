package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/celect/celect/internal/physical"
	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const fixture = "id,name,age,active\n" +
	"1,ada,36,true\n" +
	"2,bob,25,false\n" +
	"3,\"carl, jr\",41,true\n" +
	"4,dana,,false\n"

func TestTokenTypeRejectsNonGrammarNumerics(t *testing.T) {
	cases := map[string]value.Type{
		"5":        value.Int64,
		"-5":       value.Int64,
		"5.0":      value.Float64,
		"-5.25":    value.Float64,
		"+5":       value.Utf8, // leading '+' not in -?\d+
		"1e10":     value.Utf8, // scientific notation not in the grammar
		".5":       value.Utf8, // no leading digit
		"5.":       value.Utf8, // no trailing digit after the dot
		"NaN":      value.Utf8,
		"Inf":      value.Utf8,
		"Infinity": value.Utf8,
	}
	for tok, want := range cases {
		if got := tokenType([]byte(tok)); got != want {
			t.Fatalf("tokenType(%q) = %v, want %v", tok, got, want)
		}
	}
}

func TestInferSchemaWidensTypes(t *testing.T) {
	path := writeCSV(t, fixture)
	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	schema, dataStart, err := InferSchema(src.Data, 1024)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if dataStart <= 0 {
		t.Fatal("expected dataStart past the header line")
	}
	want := map[string]value.Type{"id": value.Int64, "name": value.Utf8, "age": value.Int64, "active": value.Bool}
	for _, f := range schema.Fields {
		if want[f.Name] != f.Type {
			t.Fatalf("column %s: expected %v, got %v", f.Name, want[f.Name], f.Type)
		}
	}
}

func TestRunProducesExpectedRowsAndHandlesQuotedCommas(t *testing.T) {
	path := writeCSV(t, fixture)
	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	schema, dataStart, err := InferSchema(src.Data, 1024)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}

	scanNode := &plan.Scan{Path: path, Schema: schema}
	pipeline := physical.Build(scanNode)
	diag := &Diagnostics{}
	cfg := Config{Parallelism: 2, BatchSize: 2, SampleRows: 1024}

	if err := Run(src, dataStart, schema, scanNode, cfg, pipeline, diag); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := pipeline.Entry.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if pipeline.Sink.RowCount() != 4 {
		t.Fatalf("expected 4 rows, got %d", pipeline.Sink.RowCount())
	}

	nameIdx := schema.IndexOf("name")
	found := false
	for _, b := range pipeline.Sink.Batches {
		for i := 0; i < b.N(); i++ {
			if b.Columns[nameIdx].Strings[i] == "carl, jr" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected the quoted comma-containing field to parse as one value")
	}
}

func TestRunMarksEmptyTokenAsNull(t *testing.T) {
	path := writeCSV(t, fixture)
	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	schema, dataStart, err := InferSchema(src.Data, 1024)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	scanNode := &plan.Scan{Path: path, Schema: schema}
	pipeline := physical.Build(scanNode)
	diag := &Diagnostics{}
	cfg := Config{Parallelism: 1, BatchSize: 8, SampleRows: 1024}

	if err := Run(src, dataStart, schema, scanNode, cfg, pipeline, diag); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := pipeline.Entry.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	ageIdx := schema.IndexOf("age")
	nullSeen := false
	for _, b := range pipeline.Sink.Batches {
		for i := 0; i < b.N(); i++ {
			if !b.Columns[ageIdx].Validity.Valid(i) {
				nullSeen = true
			}
		}
	}
	if !nullSeen {
		t.Fatal("expected dana's empty age token to be NULL")
	}
}
