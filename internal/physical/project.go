package physical

import "github.com/celect/celect/internal/value"

// Project exposes only the named column indices of each incoming batch,
// by reference, and forwards the selection vector unchanged.
type Project struct {
	Columns []int
	Next    Operator
}

func (p *Project) Push(batch *value.Batch) error {
	return p.Next.Push(batch.Project(p.Columns))
}

func (p *Project) Finish() error { return p.Next.Finish() }
