package physical

import "github.com/celect/celect/internal/plan"

// Pipeline is a fully built physical operator chain for one optimized
// logical plan: Entry is where the scanner pushes each raw batch it
// produces; Scan names the leaf node (path, resolved schema,
// projection, pushed limit) the scanner reads from; Sink accumulates
// the final rows; Stop is raised once a Limit downstream has seen
// enough rows, so scan workers can abandon the rest of the file.
type Pipeline struct {
	Scan  *plan.Scan
	Entry Operator
	Sink  *CollectSink
	Stop  *StopFlag
}

// Build compiles an optimized logical plan into a Pipeline. The plan
// must follow the canonical shape — a chain of Offset/Limit/Project/
// Filter wrapping a single Scan, or Count wrapping an optional Filter
// over a Scan.
func Build(root plan.Node) *Pipeline {
	sink := &CollectSink{Schema: root.OutputSchema()}
	stop := &StopFlag{}
	var nextOp Operator = sink
	node := root

	for {
		switch n := node.(type) {
		case *plan.Offset:
			// The canonical shape nests Limit inside Offset, but rows must
			// be skipped before they are counted against the limit: LIMIT 2
			// OFFSET 1 over 3 rows yields 2, not 1.
			// Build the pair in skip-then-take order regardless of nesting.
			if lim, ok := n.Input.(*plan.Limit); ok {
				nextOp = &Limit{N: lim.N, Next: nextOp, Stop: stop}
				nextOp = &Offset{N: n.N, Next: nextOp}
				node = lim.Input
				continue
			}
			nextOp = &Offset{N: n.N, Next: nextOp}
			node = n.Input
		case *plan.Limit:
			nextOp = &Limit{N: n.N, Next: nextOp, Stop: stop}
			node = n.Input
		case *plan.Project:
			nextOp = &Project{Columns: n.Columns, Next: nextOp}
			node = n.Input
		case *plan.Filter:
			nextOp = &Filter{Predicate: n.Predicate, Next: nextOp}
			node = n.Input
		case *plan.Count:
			nextOp = &Count{Column: n.Column, Name: root.OutputSchema().Fields[0].Name, Next: nextOp}
			node = n.Input
		case *plan.Scan:
			return &Pipeline{Scan: n, Entry: nextOp, Sink: sink, Stop: stop}
		default:
			panic("physical: unsupported plan node in canonical shape")
		}
	}
}
