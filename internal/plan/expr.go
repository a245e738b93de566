package plan

import "github.com/celect/celect/internal/value"

// CmpOp mirrors ast.CmpOp at the resolved-plan level.
type CmpOp string

const (
	Eq  CmpOp = "="
	Neq CmpOp = "<>"
	Lt  CmpOp = "<"
	Lte CmpOp = "<="
	Gt  CmpOp = ">"
	Gte CmpOp = ">="
)

// Expr is the resolved expression tree: ColRef, Lit, Cmp, And, Or, Not.
// Unlike ast.Expr, ColRef here carries a zero-based column index into
// the operator's input schema, resolved once during building.
type Expr interface {
	exprNode()
	// Columns appends every column index this expression (transitively)
	// reads to dst, used by the optimizer's dead-column pass.
	Columns(dst []int) []int
}

type ColRef struct{ Index int }

type Lit struct {
	Type value.Type
	I64  int64
	F64  float64
	B    bool
	S    string
}

type Cmp struct {
	Op       CmpOp
	Lhs, Rhs Expr
}

type And struct{ Lhs, Rhs Expr }
type Or struct{ Lhs, Rhs Expr }
type Not struct{ Inner Expr }

func (ColRef) exprNode() {}
func (Lit) exprNode()    {}
func (Cmp) exprNode()    {}
func (And) exprNode()    {}
func (Or) exprNode()     {}
func (Not) exprNode()    {}

func (c ColRef) Columns(dst []int) []int { return append(dst, c.Index) }
func (Lit) Columns(dst []int) []int      { return dst }
func (c Cmp) Columns(dst []int) []int    { dst = c.Lhs.Columns(dst); return c.Rhs.Columns(dst) }
func (a And) Columns(dst []int) []int    { dst = a.Lhs.Columns(dst); return a.Rhs.Columns(dst) }
func (o Or) Columns(dst []int) []int     { dst = o.Lhs.Columns(dst); return o.Rhs.Columns(dst) }
func (n Not) Columns(dst []int) []int    { return n.Inner.Columns(dst) }

// IsConstant reports whether expr has no ColRef descendants, i.e. it can
// be folded to a single value before any batch is pulled.
func IsConstant(e Expr) bool {
	switch n := e.(type) {
	case ColRef:
		return false
	case Lit:
		return true
	case Cmp:
		return IsConstant(n.Lhs) && IsConstant(n.Rhs)
	case And:
		return IsConstant(n.Lhs) && IsConstant(n.Rhs)
	case Or:
		return IsConstant(n.Lhs) && IsConstant(n.Rhs)
	case Not:
		return IsConstant(n.Inner)
	default:
		return false
	}
}

// RemapColumns returns a copy of e with every ColRef index looked up in
// remap (old index -> new index), used when pushing a projection down
// into Scan rewrites Filter's column references.
func RemapColumns(e Expr, remap map[int]int) Expr {
	switch n := e.(type) {
	case ColRef:
		return ColRef{Index: remap[n.Index]}
	case Lit:
		return n
	case Cmp:
		return Cmp{Op: n.Op, Lhs: RemapColumns(n.Lhs, remap), Rhs: RemapColumns(n.Rhs, remap)}
	case And:
		return And{Lhs: RemapColumns(n.Lhs, remap), Rhs: RemapColumns(n.Rhs, remap)}
	case Or:
		return Or{Lhs: RemapColumns(n.Lhs, remap), Rhs: RemapColumns(n.Rhs, remap)}
	case Not:
		return Not{Inner: RemapColumns(n.Inner, remap)}
	default:
		return e
	}
}
