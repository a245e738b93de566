package physical

import (
	"sync/atomic"

	"github.com/celect/celect/internal/value"
)

// Count accumulates a single Int64 total across every pushed batch and
// emits it as a one-row batch on Finish. Column, if
// set, restricts the count to rows where that column is non-NULL
// (COUNT(column) semantics); nil counts every live row (COUNT(*)).
type Count struct {
	Column *int
	Name   string // output column name, e.g. "COUNT(*)" or "COUNT(age)"
	Next   Operator

	total int64
}

func (c *Count) Push(batch *value.Batch) error {
	rows := batch.RowIndices()
	if c.Column == nil {
		atomic.AddInt64(&c.total, int64(len(rows)))
		return nil
	}
	col := batch.Columns[*c.Column]
	var n int64
	for _, r := range rows {
		if col.Validity.Valid(r) {
			n++
		}
	}
	atomic.AddInt64(&c.total, n)
	return nil
}

func (c *Count) Finish() error {
	total := atomic.LoadInt64(&c.total)
	result := value.NewColumn(value.Int64, 1)
	result.SetInt64(0, total)
	name := c.Name
	if name == "" {
		name = "COUNT(*)"
	}
	schema := value.Schema{Fields: []value.Field{{Name: name, Type: value.Int64}}}
	batch := value.NewBatch(schema, []*value.Column{result}, 1)
	if err := c.Next.Push(batch); err != nil {
		return err
	}
	return c.Next.Finish()
}
