package optimize

import (
	"fmt"
	"strings"

	"github.com/celect/celect/internal/plan"
)

// describe renders a plan tree to a unique string, used only to detect
// when Optimize has reached a fixpoint (two structurally identical
// plans describe identically).
func describe(n plan.Node) string {
	switch node := n.(type) {
	case nil:
		return "nil"
	case *plan.Scan:
		return fmt.Sprintf("Scan(%s,proj=%v,lim=%d)", node.Path, node.Projection, node.PushedLimit)
	case *plan.Filter:
		return fmt.Sprintf("Filter(%s,%s)", describeExpr(node.Predicate), describe(node.Input))
	case *plan.Project:
		return fmt.Sprintf("Project(%v,%s)", node.Columns, describe(node.Input))
	case *plan.Limit:
		return fmt.Sprintf("Limit(%d,%s)", node.N, describe(node.Input))
	case *plan.Offset:
		return fmt.Sprintf("Offset(%d,%s)", node.N, describe(node.Input))
	case *plan.Count:
		col := "*"
		if node.Column != nil {
			col = fmt.Sprintf("%d", *node.Column)
		}
		return fmt.Sprintf("Count(%s,%s)", col, describe(node.Input))
	default:
		return fmt.Sprintf("%T", n)
	}
}

func describeExpr(e plan.Expr) string {
	switch node := e.(type) {
	case plan.ColRef:
		return fmt.Sprintf("col%d", node.Index)
	case plan.Lit:
		return fmt.Sprintf("lit(%v,%v,%v,%q,%v)", node.Type, node.I64, node.F64, node.S, node.B)
	case plan.Cmp:
		return fmt.Sprintf("(%s%s%s)", describeExpr(node.Lhs), node.Op, describeExpr(node.Rhs))
	case plan.And:
		return fmt.Sprintf("(%s AND %s)", describeExpr(node.Lhs), describeExpr(node.Rhs))
	case plan.Or:
		return fmt.Sprintf("(%s OR %s)", describeExpr(node.Lhs), describeExpr(node.Rhs))
	case plan.Not:
		return fmt.Sprintf("(NOT %s)", describeExpr(node.Inner))
	default:
		return strings.TrimSpace(fmt.Sprintf("%T", e))
	}
}
