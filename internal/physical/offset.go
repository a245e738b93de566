package physical

import (
	"sync"

	"github.com/celect/celect/internal/value"
)

// Offset skips the first N rows of the stream.
// Correct skipping of "the first N" assumes batches are delivered to
// this operator in scan order; the driver feeds a single Scan's
// batches through one shared, mutex-guarded chain instance so workers
// racing on file order still serialize here.
type Offset struct {
	N    int
	Next Operator

	mu      sync.Mutex
	skipped int
}

func (o *Offset) Push(batch *value.Batch) error {
	o.mu.Lock()
	remaining := o.N - o.skipped
	if remaining <= 0 {
		o.mu.Unlock()
		return o.Next.Push(batch)
	}
	sel := batch.TrimSelectionFront(remaining)
	consumed := batch.LiveLen() - len(sel)
	o.skipped += consumed
	o.mu.Unlock()

	if len(sel) == 0 {
		return nil
	}
	return o.Next.Push(value.WithSelection(batch, sel))
}

func (o *Offset) Finish() error { return o.Next.Finish() }
