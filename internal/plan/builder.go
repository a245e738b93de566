package plan

import (
	"fmt"
	"strconv"

	"github.com/celect/celect/internal/ast"
	"github.com/celect/celect/internal/celecterr"
	"github.com/celect/celect/internal/value"
)

// SchemaResolver returns the inferred schema for a CSV path, bound to
// the scanner's sampling pass, so the builder can resolve column
// references without re-reading the file itself.
type SchemaResolver func(path string) (value.Schema, error)

// Build transforms a parsed syntax tree into the canonical logical
// shape:
//
//	Offset( Limit( Project( Filter( Scan ) ) ) )
//
// or, for COUNT,
//
//	Count( Filter( Scan ) )
//
// Unused clauses are omitted. Column references are resolved against the
// scan's inferred schema; unknown names are a Plan error.
func Build(stmt *ast.SelectStmt, resolve SchemaResolver) (Node, error) {
	schema, err := resolve(stmt.From)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(); err != nil {
		return nil, celecterr.Wrap(celecterr.Plan, "invalid schema", err)
	}

	var node Node = &Scan{Path: stmt.From, Schema: schema}

	if stmt.Where != nil {
		pred, err := resolveExpr(stmt.Where, schema)
		if err != nil {
			return nil, err
		}
		node = &Filter{Input: node, Predicate: pred}
	}

	// A single COUNT(*) / COUNT(column) item builds Count(Filter(Scan))
	// and skips Project/Limit/Offset entirely — aggregates replace rows
	// with a single summary row. Mixing aggregate and non-aggregate items
	// is rejected by the parser before Build ever sees it.
	if len(stmt.Items) == 1 && stmt.Items[0].Count {
		item := stmt.Items[0]
		var col *int
		if item.CountCol != "" {
			idx := schema.IndexOf(item.CountCol)
			if idx == -1 {
				return nil, celecterr.New(celecterr.Plan, fmt.Sprintf("unknown column %q", item.CountCol))
			}
			col = &idx
		}
		return &Count{Input: node, Column: col}, nil
	}

	if !isStarOnly(stmt.Items) {
		cols, err := resolveSelectColumns(stmt.Items, schema)
		if err != nil {
			return nil, err
		}
		node = &Project{Input: node, Columns: cols}
	}
	// SELECT * produces an identity Project, elided here.

	if stmt.HasLim {
		node = &Limit{Input: node, N: stmt.Limit}
	}
	if stmt.HasOff {
		node = &Offset{Input: node, N: stmt.Offset}
	}

	return node, nil
}

func isStarOnly(items []ast.SelectItem) bool {
	return len(items) == 1 && items[0].Star
}

func resolveSelectColumns(items []ast.SelectItem, schema value.Schema) ([]int, error) {
	cols := make([]int, len(items))
	for i, it := range items {
		idx := schema.IndexOf(it.ColumnRef)
		if idx == -1 {
			return nil, celecterr.New(celecterr.Plan, fmt.Sprintf("unknown column %q", it.ColumnRef))
		}
		cols[i] = idx
	}
	return cols, nil
}

func resolveExpr(e ast.Expr, schema value.Schema) (Expr, error) {
	switch n := e.(type) {
	case ast.Column:
		idx := schema.IndexOf(n.Name)
		if idx == -1 {
			return nil, celecterr.New(celecterr.Plan, fmt.Sprintf("unknown column %q", n.Name))
		}
		return ColRef{Index: idx}, nil
	case ast.Lit:
		return resolveLit(n)
	case ast.Cmp:
		lhs, err := resolveExpr(n.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := resolveExpr(n.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return Cmp{Op: CmpOp(n.Op), Lhs: lhs, Rhs: rhs}, nil
	case ast.And:
		lhs, err := resolveExpr(n.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := resolveExpr(n.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return And{Lhs: lhs, Rhs: rhs}, nil
	case ast.Or:
		lhs, err := resolveExpr(n.Lhs, schema)
		if err != nil {
			return nil, err
		}
		rhs, err := resolveExpr(n.Rhs, schema)
		if err != nil {
			return nil, err
		}
		return Or{Lhs: lhs, Rhs: rhs}, nil
	case ast.Not:
		inner, err := resolveExpr(n.Inner, schema)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	default:
		return nil, celecterr.New(celecterr.Plan, fmt.Sprintf("unsupported expression %T", e))
	}
}

func resolveLit(n ast.Lit) (Expr, error) {
	switch n.Kind {
	case ast.LitNull:
		return Lit{Type: value.Null}, nil
	case ast.LitBool:
		return Lit{Type: value.Bool, B: n.Bool}, nil
	case ast.LitString:
		return Lit{Type: value.Utf8, S: n.Str}, nil
	case ast.LitNumber:
		if i, err := strconv.ParseInt(n.Num, 10, 64); err == nil {
			return Lit{Type: value.Int64, I64: i}, nil
		}
		f, err := strconv.ParseFloat(n.Num, 64)
		if err != nil {
			return nil, celecterr.Wrap(celecterr.Parse, fmt.Sprintf("invalid numeric literal %q", n.Num), err)
		}
		return Lit{Type: value.Float64, F64: f}, nil
	default:
		return nil, celecterr.New(celecterr.Plan, "unsupported literal kind")
	}
}
