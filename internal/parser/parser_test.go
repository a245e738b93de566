package parser

import (
	"testing"

	"github.com/celect/celect/internal/ast"
)

func TestParseBasicSelect(t *testing.T) {
	stmt, err := Parse("SELECT name, age FROM 'data.csv' WHERE age > 25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Items) != 2 || stmt.Items[0].ColumnRef != "name" || stmt.Items[1].ColumnRef != "age" {
		t.Fatalf("unexpected select items: %+v", stmt.Items)
	}
	if stmt.From != "data.csv" {
		t.Fatalf("unexpected from: %q", stmt.From)
	}
	cmp, ok := stmt.Where.(ast.Cmp)
	if !ok {
		t.Fatalf("expected Cmp, got %T", stmt.Where)
	}
	if cmp.Op != ast.Gt {
		t.Fatalf("expected >, got %v", cmp.Op)
	}
}

func TestParseStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Items) != 1 || !stmt.Items[0].Star {
		t.Fatalf("expected single star item, got %+v", stmt.Items)
	}
}

func TestParseAndOrNotPrecedence(t *testing.T) {
	stmt, err := Parse("SELECT name FROM 'data.csv' WHERE (age > 25 AND active = true) OR name = 'Bob'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, ok := stmt.Where.(ast.Or)
	if !ok {
		t.Fatalf("expected top-level Or, got %T", stmt.Where)
	}
	if _, ok := or.Lhs.(ast.And); !ok {
		t.Fatalf("expected And on lhs, got %T", or.Lhs)
	}
}

func TestParseCountStar(t *testing.T) {
	stmt, err := Parse("SELECT COUNT(*) FROM 'data.csv'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Items) != 1 || !stmt.Items[0].Count || stmt.Items[0].CountCol != "" {
		t.Fatalf("unexpected items: %+v", stmt.Items)
	}
}

func TestParseCountColumnWithWhere(t *testing.T) {
	stmt, err := Parse("SELECT COUNT(name) FROM 'data.csv' WHERE age < 25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.Items[0].CountCol != "name" {
		t.Fatalf("unexpected count column: %q", stmt.Items[0].CountCol)
	}
}

func TestParseLimitOffset(t *testing.T) {
	stmt, err := Parse("SELECT * FROM 'data.csv' LIMIT 2 OFFSET 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stmt.HasLim || stmt.Limit != 2 {
		t.Fatalf("unexpected limit: %+v", stmt)
	}
	if !stmt.HasOff || stmt.Offset != 1 {
		t.Fatalf("unexpected offset: %+v", stmt)
	}
}

func TestParseNeqVariants(t *testing.T) {
	for _, op := range []string{"!=", "<>"} {
		stmt, err := Parse("SELECT a FROM t WHERE a " + op + " 1")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", op, err)
		}
		cmp := stmt.Where.(ast.Cmp)
		if cmp.Op != ast.Neq {
			t.Fatalf("expected Neq for %q, got %v", op, cmp.Op)
		}
	}
}

func TestParseRejectsMixedCountAndColumn(t *testing.T) {
	_, err := Parse("SELECT COUNT(*), name FROM t")
	if err == nil {
		t.Fatal("expected error mixing COUNT with a plain column")
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	_, err := Parse("select * from t where a = 1 limit 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseMalformedInputIsParseError(t *testing.T) {
	_, err := Parse("SELECT FROM")
	if err == nil {
		t.Fatal("expected parse error")
	}
}
