package expr

import (
	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

// scalar is a per-row vector of evaluated values for one Expr subtree,
// used only as an intermediate for Cmp operands. It never copies column
// storage for ColRef: i64/f64/b/s alias the batch's own slices.
type scalar struct {
	typ   value.Type
	i64   []int64
	f64   []float64
	b     []bool
	s     []string
	valid []bool // len N; false means NULL at that row
}

func constValid(n int, ok bool) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = ok
	}
	return v
}

// evalScalar resolves a ColRef or Lit leaf to a scalar vector over the
// batch's full row range (0..N). It never recurses: any other operand
// (a parenthesized And/Or/Not/Cmp) yields an all-NULL scalar.
func evalScalar(e plan.Expr, batch *value.Batch) scalar {
	n := batch.N()
	switch node := e.(type) {
	case plan.ColRef:
		col := batch.Columns[node.Index]
		valid := make([]bool, n)
		for i := 0; i < n; i++ {
			valid[i] = col.Validity.Valid(i)
		}
		switch col.Type {
		case value.Int64:
			return scalar{typ: value.Int64, i64: col.Int64s, valid: valid}
		case value.Float64:
			return scalar{typ: value.Float64, f64: col.Float64s, valid: valid}
		case value.Bool:
			return scalar{typ: value.Bool, b: col.Bools, valid: valid}
		case value.Utf8:
			return scalar{typ: value.Utf8, s: col.Strings, valid: valid}
		default:
			return scalar{typ: value.Null, valid: constValid(n, false)}
		}
	case plan.Lit:
		switch node.Type {
		case value.Int64:
			v := make([]int64, n)
			for i := range v {
				v[i] = node.I64
			}
			return scalar{typ: value.Int64, i64: v, valid: constValid(n, true)}
		case value.Float64:
			v := make([]float64, n)
			for i := range v {
				v[i] = node.F64
			}
			return scalar{typ: value.Float64, f64: v, valid: constValid(n, true)}
		case value.Bool:
			v := make([]bool, n)
			for i := range v {
				v[i] = node.B
			}
			return scalar{typ: value.Bool, b: v, valid: constValid(n, true)}
		case value.Utf8:
			v := make([]string, n)
			for i := range v {
				v[i] = node.S
			}
			return scalar{typ: value.Utf8, s: v, valid: constValid(n, true)}
		default:
			return scalar{typ: value.Null, valid: constValid(n, false)}
		}
	default:
		return scalar{typ: value.Null, valid: constValid(n, false)}
	}
}

func isNumeric(t value.Type) bool { return t == value.Int64 || t == value.Float64 }

func (s scalar) asFloat64(i int) float64 {
	switch s.typ {
	case value.Int64:
		return float64(s.i64[i])
	case value.Float64:
		return s.f64[i]
	default:
		return 0
	}
}
