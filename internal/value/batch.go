package value

// Batch is an ordered tuple of column vectors of equal logical length N,
// plus an optional selection vector Sel: a sorted list of row indices in
// [0, N) identifying currently "live" rows. Absence of Sel (nil) means
// all N rows are live. Batch operations never physically compact; they
// either overwrite Sel or produce a new one.
//
// Batches carry no mutex: they are owned by exactly one worker
// goroutine for their entire lifetime between Scan and the sink.
type Batch struct {
	Schema  Schema
	Columns []*Column
	Sel     []int // nil means "all N rows live"
	n       int   // logical length N, shared by every column
}

// NewBatch wraps columns (all of length n) into a batch with no
// selection — every row live.
func NewBatch(schema Schema, columns []*Column, n int) *Batch {
	return &Batch{Schema: schema, Columns: columns, n: n}
}

// N returns the batch's logical length; every column shares N
// regardless of Sel.
func (b *Batch) N() int { return b.n }

// WithSelection returns a view of b with selection sel, without copying
// any column storage.
func WithSelection(b *Batch, sel []int) *Batch {
	return &Batch{Schema: b.Schema, Columns: b.Columns, Sel: sel, n: b.n}
}

// LiveLen returns |Sel| if a selection is present, else N.
func (b *Batch) LiveLen() int {
	if b.Sel != nil {
		return len(b.Sel)
	}
	return b.n
}

// RowIndices returns the live row indices for iteration: Sel itself if
// present, otherwise a [0,N) range. Callers must not mutate the result
// when Sel is non-nil (it is the batch's own selection vector).
func (b *Batch) RowIndices() []int {
	if b.Sel != nil {
		return b.Sel
	}
	idx := make([]int, b.n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// GatherToOwned materializes a compact batch containing only the live
// rows, in selection order. Only the terminal sink calls this — every
// operator in between works on views.
func (b *Batch) GatherToOwned() *Batch {
	indices := b.RowIndices()
	cols := make([]*Column, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = c.Gather(indices)
	}
	return NewBatch(b.Schema, cols, len(indices))
}

// Project returns a new batch exposing only the named column indices, by
// reference (no copy); the selection vector passes through unchanged.
func (b *Batch) Project(indices []int) *Batch {
	cols := make([]*Column, len(indices))
	for i, idx := range indices {
		cols[i] = b.Columns[idx]
	}
	return &Batch{Schema: b.Schema.Project(indices), Columns: cols, Sel: b.Sel, n: b.n}
}

// IntersectSelection returns the sorted intersection of the batch's
// current live rows with the given true-mask (a []bool of length N,
// true at rows that pass a predicate). The physical Filter does not call
// this: expr.EvalPredicate already restricts its result to the live rows.
func (b *Batch) IntersectSelection(mask []bool) []int {
	rows := b.RowIndices()
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if mask[r] {
			out = append(out, r)
		}
	}
	return out
}

// TrimSelectionFront drops the first n entries of the batch's live rows
// (used by Offset) and returns the resulting selection.
func (b *Batch) TrimSelectionFront(n int) []int {
	rows := b.RowIndices()
	if n >= len(rows) {
		return rows[:0]
	}
	out := make([]int, len(rows)-n)
	copy(out, rows[n:])
	return out
}

// TrimSelectionTo keeps only the first n entries of the batch's live
// rows (used by Limit).
func (b *Batch) TrimSelectionTo(n int) []int {
	rows := b.RowIndices()
	if n >= len(rows) {
		out := make([]int, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]int, n)
	copy(out, rows[:n])
	return out
}
