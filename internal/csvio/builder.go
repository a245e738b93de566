package csvio

import (
	"strconv"
	"strings"

	"github.com/celect/celect/internal/value"
)

// batchBuilder accumulates parsed rows into typed column storage up to
// batchSize rows, then hands off an owned batch. One builder is used
// per chunk worker — never shared across goroutines.
type batchBuilder struct {
	schema     value.Schema // full scan schema, indexed by original column position
	colIndices []int        // which original columns to materialize, in output order
	outSchema  value.Schema
	batchSize  int

	cols  []*value.Column
	count int
}

func newBatchBuilder(schema value.Schema, colIndices []int, batchSize int) *batchBuilder {
	b := &batchBuilder{schema: schema, colIndices: colIndices, batchSize: batchSize}
	b.outSchema = schema.Project(colIndices)
	b.reset()
	return b
}

func (b *batchBuilder) reset() {
	b.cols = make([]*value.Column, len(b.colIndices))
	for i, idx := range b.colIndices {
		b.cols[i] = value.NewColumn(b.schema.Fields[idx].Type, b.batchSize)
	}
	b.count = 0
}

func (b *batchBuilder) full() bool { return b.count >= b.batchSize }

// appendRow parses fields (one per original schema column) into the row
// at b.count for every materialized column, then advances the row
// count. Parse failures (a token that doesn't fit the inferred type)
// leave that cell's validity bit clear rather than rejecting the row,
// since type inference is sampled and not a guarantee.
func (b *batchBuilder) appendRow(fields [][]byte) {
	row := b.count
	for i, idx := range b.colIndices {
		tok := fields[idx]
		col := b.cols[i]
		parseInto(col, row, tok)
	}
	b.count++
}

func parseInto(col *value.Column, row int, tok []byte) {
	if len(tok) == 0 {
		return // validity bit already clear (NewColumn starts all-invalid)
	}
	s := string(tok)
	switch col.Type {
	case value.Int64:
		if isInt64Token(s) {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil {
				col.SetInt64(row, v)
			}
		}
	case value.Float64:
		if isFloat64Token(s) {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				col.SetFloat64(row, v)
			}
		}
	case value.Bool:
		lower := strings.ToLower(s)
		switch lower {
		case "true":
			col.SetBool(row, true)
		case "false":
			col.SetBool(row, false)
		}
	case value.Utf8:
		col.SetString(row, s)
	}
}

// build returns an owned batch over exactly the rows accumulated so
// far (trimming any unused tail capacity) and resets the builder for
// the next batch. Returns nil if no rows are buffered.
func (b *batchBuilder) build() *value.Batch {
	if b.count == 0 {
		return nil
	}
	n := b.count
	cols := make([]*value.Column, len(b.cols))
	for i, c := range b.cols {
		if n == b.batchSize {
			cols[i] = c
			continue
		}
		cols[i] = c.Gather(indexRange(n))
	}
	batch := value.NewBatch(b.outSchema, cols, n)
	b.reset()
	return batch
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
