package expr

import (
	"strings"

	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

// EvalPredicate evaluates e over every live row of batch (honoring its
// selection vector) and returns the subset of rows where the predicate
// is exactly true. NULL and false rows are both dropped: a row survives
// a Filter only if its predicate value is exactly true.
func EvalPredicate(e plan.Expr, batch *value.Batch) []int {
	tri := evalTri(e, batch)
	rows := batch.RowIndices()
	out := rows[:0:0]
	for _, r := range rows {
		if tri[r] == TriTrue {
			out = append(out, r)
		}
	}
	return out
}

// FoldConstant evaluates a ColRef-free expression (plan.IsConstant(e) ==
// true) without any batch and returns its truth value, used by the
// optimizer's constant-folding pass.
func FoldConstant(e plan.Expr) Tri {
	empty := value.Schema{}
	b := value.NewBatch(empty, nil, 1)
	return evalTri(e, b)[0]
}

// evalTri computes the three-valued result of e at every row index in
// 0..batch.N(). Rows outside the batch's current selection are computed
// too (cheap, keeps the recursion simple) but callers only ever read
// rows returned by batch.RowIndices().
func evalTri(e plan.Expr, batch *value.Batch) []Tri {
	n := batch.N()
	out := make([]Tri, n)
	switch node := e.(type) {
	case plan.Cmp:
		lhs := evalScalar(node.Lhs, batch)
		rhs := evalScalar(node.Rhs, batch)
		for i := 0; i < n; i++ {
			out[i] = compareRow(node.Op, lhs, rhs, i)
		}
	case plan.And:
		l := evalTri(node.Lhs, batch)
		r := evalTri(node.Rhs, batch)
		for i := 0; i < n; i++ {
			out[i] = and(l[i], r[i])
		}
	case plan.Or:
		l := evalTri(node.Lhs, batch)
		r := evalTri(node.Rhs, batch)
		for i := 0; i < n; i++ {
			out[i] = or(l[i], r[i])
		}
	case plan.Not:
		inner := evalTri(node.Inner, batch)
		for i := 0; i < n; i++ {
			out[i] = not(inner[i])
		}
	case plan.Lit:
		// A bare boolean literal used directly as a predicate (e.g. a
		// folded constant), not wrapped in Cmp.
		if node.Type == value.Bool {
			v := boolToTri(node.B)
			for i := range out {
				out[i] = v
			}
			return out
		}
		for i := range out {
			out[i] = TriNull
		}
	default:
		for i := range out {
			out[i] = TriNull
		}
	}
	return out
}

// compareRow applies op's type-coercion rules: numeric operands widen
// to float64; Utf8 compares byte-wise; Bool treats false < true; any
// other pairing (including either side NULL) yields NULL.
func compareRow(op plan.CmpOp, lhs, rhs scalar, i int) Tri {
	if !lhs.valid[i] || !rhs.valid[i] {
		return TriNull
	}
	var cmp int
	switch {
	case isNumeric(lhs.typ) && isNumeric(rhs.typ):
		a, b := lhs.asFloat64(i), rhs.asFloat64(i)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		default:
			cmp = 0
		}
	case lhs.typ == value.Utf8 && rhs.typ == value.Utf8:
		cmp = strings.Compare(lhs.s[i], rhs.s[i])
	case lhs.typ == value.Bool && rhs.typ == value.Bool:
		cmp = boolCompare(lhs.b[i], rhs.b[i])
	default:
		return TriNull
	}
	return boolToTri(applyOp(op, cmp))
}

func boolCompare(a, b bool) int {
	ai, bi := 0, 0
	if a {
		ai = 1
	}
	if b {
		bi = 1
	}
	return ai - bi
}

func applyOp(op plan.CmpOp, cmp int) bool {
	switch op {
	case plan.Eq:
		return cmp == 0
	case plan.Neq:
		return cmp != 0
	case plan.Lt:
		return cmp < 0
	case plan.Lte:
		return cmp <= 0
	case plan.Gt:
		return cmp > 0
	case plan.Gte:
		return cmp >= 0
	default:
		return false
	}
}
