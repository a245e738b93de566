// Package optimize rewrites a logical plan to an equivalent, cheaper
// one: constant folding, dead-column elimination via projection
// pushdown, limit pushdown into Scan, and dead-code elimination,
// applied to a fixpoint.
package optimize

import (
	"github.com/celect/celect/internal/expr"
	"github.com/celect/celect/internal/plan"
)

// Optimize applies every rewrite rule repeatedly until none of them
// changes the plan, then returns the result. Rewrites never change the
// set and order of rows or columns the plan would have produced
// un-optimized — rewrites must be semantically transparent.
func Optimize(n plan.Node) plan.Node {
	for {
		next := rewriteOnce(n)
		if samePlan(next, n) {
			return next
		}
		n = next
	}
}

func rewriteOnce(n plan.Node) plan.Node {
	n = foldConstants(n)
	n = eliminateDeadCode(n)
	n = pushDownProjection(n)
	n = pushDownLimit(n)
	return n
}

// foldConstants replaces any Filter whose predicate has no ColRef
// descendants with either its input unchanged (predicate folds to true)
// or a Limit of 0 rows over its input (predicate folds to false or NULL).
// Constant sub-expressions inside a non-constant predicate are left for
// the evaluator; only top-level folding is required here.
func foldConstants(n plan.Node) plan.Node {
	n = mapInputs(n, foldConstants)
	f, ok := n.(*plan.Filter)
	if !ok || !plan.IsConstant(f.Predicate) {
		return n
	}
	if expr.FoldConstant(f.Predicate) == expr.TriTrue {
		return f.Input
	}
	return &plan.Limit{Input: f.Input, N: 0}
}

// eliminateDeadCode drops no-op nodes: an Offset of 0 rows, a Limit that
// cannot be tighter than one already beneath it, and (structurally) any
// Project whose column list is the identity permutation of its input's
// schema — the builder already elides SELECT * this way, so this rule
// mainly cleans up plans rewriteOnce produces during earlier passes.
func eliminateDeadCode(n plan.Node) plan.Node {
	n = mapInputs(n, eliminateDeadCode)
	switch node := n.(type) {
	case *plan.Offset:
		if node.N == 0 {
			return node.Input
		}
	case *plan.Project:
		if isIdentityProjection(node.Columns, len(node.Input.OutputSchema().Fields)) {
			return node.Input
		}
	case *plan.Limit:
		if inner, ok := node.Input.(*plan.Limit); ok {
			n := node.N
			if inner.N < n {
				n = inner.N
			}
			return &plan.Limit{Input: inner.Input, N: n}
		}
	}
	return n
}

func isIdentityProjection(cols []int, width int) bool {
	if len(cols) != width {
		return false
	}
	for i, c := range cols {
		if c != i {
			return false
		}
	}
	return true
}

// pushDownProjection eliminates scanning and carrying columns the plan
// never reads past the Scan. It collects the column indices actually
// read by every Project/Filter/Count above a Scan, pushes that subset
// into Scan.Projection, and remaps every ColRef above the Scan to the
// new, narrower index space.
func pushDownProjection(n plan.Node) plan.Node {
	scan, ok := findScan(n)
	if !ok || scan.Projection != nil {
		return mapInputs(n, pushDownProjection)
	}
	width := len(scan.Schema.Fields)
	needed := collectNeededColumns(n, width)
	if len(needed) == width {
		return mapInputs(n, pushDownProjection)
	}
	remap := make(map[int]int, len(needed))
	for newIdx, oldIdx := range needed {
		remap[oldIdx] = newIdx
	}
	return remapPlan(n, scan, needed, remap)
}

// collectNeededColumns walks the plan above scan and returns the sorted,
// deduplicated set of schema-relative column indices that matter: every
// column any Filter predicate reads, plus whatever restricts the final
// output. Only a Project or Count node restricts output columns; absent
// either, the Scan's own schema IS the output, so every column is
// needed and nothing can be pruned.
func collectNeededColumns(n plan.Node, width int) []int {
	seen := make([]bool, width)
	restricted := false
	var walk func(plan.Node)
	walk = func(n plan.Node) {
		switch node := n.(type) {
		case *plan.Scan:
			return
		case *plan.Filter:
			for _, c := range node.Predicate.Columns(nil) {
				seen[c] = true
			}
			walk(node.Input)
		case *plan.Project:
			restricted = true
			for _, c := range node.Columns {
				seen[c] = true
			}
			walk(node.Input)
		case *plan.Count:
			restricted = true
			if node.Column != nil {
				seen[*node.Column] = true
			}
			walk(node.Input)
		case *plan.Limit:
			walk(node.Input)
		case *plan.Offset:
			walk(node.Input)
		}
	}
	walk(n)
	if !restricted {
		out := make([]int, width)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, width)
	for i, v := range seen {
		if v {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		// A bare COUNT(*) with no predicate reads nothing; keep at least
		// one column so the scanner still has a row count to report.
		out = append(out, 0)
	}
	return out
}

func remapPlan(n plan.Node, scan *plan.Scan, needed []int, remap map[int]int) plan.Node {
	var walk func(plan.Node) plan.Node
	walk = func(n plan.Node) plan.Node {
		switch node := n.(type) {
		case *plan.Scan:
			return &plan.Scan{Path: node.Path, Schema: node.Schema, Projection: needed, PushedLimit: node.PushedLimit}
		case *plan.Filter:
			return &plan.Filter{Input: walk(node.Input), Predicate: plan.RemapColumns(node.Predicate, remap)}
		case *plan.Project:
			cols := make([]int, len(node.Columns))
			for i, c := range node.Columns {
				cols[i] = remap[c]
			}
			return &plan.Project{Input: walk(node.Input), Columns: cols}
		case *plan.Count:
			var col *int
			if node.Column != nil {
				idx := remap[*node.Column]
				col = &idx
			}
			return &plan.Count{Input: walk(node.Input), Column: col}
		case *plan.Limit:
			return &plan.Limit{Input: walk(node.Input), N: node.N}
		case *plan.Offset:
			return &plan.Offset{Input: walk(node.Input), N: node.N}
		default:
			return n
		}
	}
	return walk(n)
}

// pushDownLimit sets Scan.PushedLimit when the plan is exactly
// Limit(Scan) or Limit(Project(Scan)) with no Filter in between — a
// Filter can discard rows, so a limit above one bounds output rows, not
// input rows, and must not be pushed. When an Offset sits directly
// above the Limit, the pushed bound is offset+limit: the scan still
// must not stop before the skipped rows have been produced.
func pushDownLimit(n plan.Node) plan.Node {
	if off, ok := n.(*plan.Offset); ok {
		if lim, ok := off.Input.(*plan.Limit); ok {
			// Rewrite below the Limit only: pushing lim.N on its own first
			// would leave a bound tighter than offset+limit in the Scan.
			inner := mapInputs(lim, pushDownLimit).(*plan.Limit)
			return &plan.Offset{Input: pushBoundIntoLimit(inner, off.N+lim.N), N: off.N}
		}
	}
	n = mapInputs(n, pushDownLimit)
	if _, ok := n.(*plan.Offset); ok {
		return n
	}
	lim, ok := n.(*plan.Limit)
	if !ok {
		return n
	}
	return pushBoundIntoLimit(lim, lim.N)
}

func pushBoundIntoLimit(lim *plan.Limit, bound int) *plan.Limit {
	switch inner := lim.Input.(type) {
	case *plan.Scan:
		return &plan.Limit{Input: &plan.Scan{Path: inner.Path, Schema: inner.Schema, Projection: inner.Projection, PushedLimit: minPushed(inner.PushedLimit, bound)}, N: lim.N}
	case *plan.Project:
		if scan, ok := inner.Input.(*plan.Scan); ok {
			newScan := &plan.Scan{Path: scan.Path, Schema: scan.Schema, Projection: scan.Projection, PushedLimit: minPushed(scan.PushedLimit, bound)}
			return &plan.Limit{Input: &plan.Project{Input: newScan, Columns: inner.Columns}, N: lim.N}
		}
	}
	return lim
}

func minPushed(existing, candidate int) int {
	if existing == 0 || candidate < existing {
		return candidate
	}
	return existing
}

func findScan(n plan.Node) (*plan.Scan, bool) {
	switch node := n.(type) {
	case *plan.Scan:
		return node, true
	case *plan.Filter:
		return findScan(node.Input)
	case *plan.Project:
		return findScan(node.Input)
	case *plan.Limit:
		return findScan(node.Input)
	case *plan.Offset:
		return findScan(node.Input)
	case *plan.Count:
		return findScan(node.Input)
	default:
		return nil, false
	}
}

// mapInputs rewrites n's direct child (if any) with f and returns a
// fresh node of the same kind, leaving Scan (which has no child)
// untouched.
func mapInputs(n plan.Node, f func(plan.Node) plan.Node) plan.Node {
	switch node := n.(type) {
	case *plan.Filter:
		return &plan.Filter{Input: f(node.Input), Predicate: node.Predicate}
	case *plan.Project:
		return &plan.Project{Input: f(node.Input), Columns: node.Columns}
	case *plan.Limit:
		return &plan.Limit{Input: f(node.Input), N: node.N}
	case *plan.Offset:
		return &plan.Offset{Input: f(node.Input), N: node.N}
	case *plan.Count:
		return &plan.Count{Input: f(node.Input), Column: node.Column}
	default:
		return n
	}
}

// samePlan is a structural equality check used to detect the rewrite
// fixpoint. Plans are small trees of value types, so comparing their
// OutputSchema and a shallow shape descriptor is sufficient in practice;
// we compare via a recursive description string for exactness.
func samePlan(a, b plan.Node) bool {
	return describe(a) == describe(b)
}
