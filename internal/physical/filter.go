package physical

import (
	"github.com/celect/celect/internal/expr"
	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

// Filter narrows a batch's selection vector to the rows where Predicate
// is exactly true and pushes the view downstream.
// It never mutates the input batch in place — WithSelection returns a
// fresh wrapper sharing the same column storage.
type Filter struct {
	Predicate plan.Expr
	Next      Operator
}

func (f *Filter) Push(batch *value.Batch) error {
	rows := expr.EvalPredicate(f.Predicate, batch)
	if len(rows) == 0 {
		return nil
	}
	return f.Next.Push(value.WithSelection(batch, rows))
}

func (f *Filter) Finish() error { return f.Next.Finish() }
