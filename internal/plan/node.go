// Package plan implements the logical plan tree and builder: a tagged
// variant of relational nodes built bottom-up from the parsed syntax
// tree, each exposing an output schema derived from its input.
package plan

import "github.com/celect/celect/internal/value"

// Node is a logical plan node: Scan, Filter, Project, Limit, Offset, or
// Count.
type Node interface {
	planNode()
	// OutputSchema returns this node's output schema, derived from its
	// input.
	OutputSchema() value.Schema
}

// Scan is the root of every plan: it reads rows from a CSV file. Schema
// is the full inferred schema; Projection (if non-nil) is the subset of
// column indices the optimizer has pushed down; PushedLimit (if > 0)
// bounds how many rows workers need to emit in total.
type Scan struct {
	Path        string
	Schema      value.Schema
	Projection  []int // nil means "all columns"
	PushedLimit int   // 0 means "no limit pushed"
}

// Filter keeps only rows where Predicate evaluates to exactly true;
// NULL is discarded, same as false.
type Filter struct {
	Input     Node
	Predicate Expr
}

// Project exposes only the named column indices of Input, in order.
type Project struct {
	Input   Node
	Columns []int
}

// Limit caps the number of rows emitted to N.
type Limit struct {
	Input Node
	N     int
}

// Offset skips the first N rows.
type Offset struct {
	Input Node
	N     int
}

// Count replaces its input's rows with a single Int64 count. Column, if
// set, names the column COUNT(column) should count non-NULL values of;
// nil means COUNT(*).
type Count struct {
	Input  Node
	Column *int
}

func (*Scan) planNode()    {}
func (*Filter) planNode()  {}
func (*Project) planNode() {}
func (*Limit) planNode()   {}
func (*Offset) planNode()  {}
func (*Count) planNode()   {}

func (s *Scan) OutputSchema() value.Schema {
	if s.Projection == nil {
		return s.Schema
	}
	return s.Schema.Project(s.Projection)
}

func (f *Filter) OutputSchema() value.Schema { return f.Input.OutputSchema() }

func (p *Project) OutputSchema() value.Schema {
	return p.Input.OutputSchema().Project(p.Columns)
}

func (l *Limit) OutputSchema() value.Schema  { return l.Input.OutputSchema() }
func (o *Offset) OutputSchema() value.Schema { return o.Input.OutputSchema() }

func (c *Count) OutputSchema() value.Schema {
	name := "COUNT(*)"
	if c.Column != nil {
		name = "COUNT(" + c.Input.OutputSchema().Fields[*c.Column].Name + ")"
	}
	return value.Schema{Fields: []value.Field{{Name: name, Type: value.Int64}}}
}
