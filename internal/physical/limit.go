package physical

import (
	"sync"

	"github.com/celect/celect/internal/value"
)

// Limit caps total rows emitted to N across every scan worker feeding
// this pipeline via a shared stop flag so scan workers can cancel early.
// Once the cap is reached it raises Stop so workers still scanning can
// abandon the rest of the file.
type Limit struct {
	N    int
	Next Operator
	Stop *StopFlag

	mu      sync.Mutex
	emitted int
}

func (l *Limit) Push(batch *value.Batch) error {
	l.mu.Lock()
	remaining := l.N - l.emitted
	if remaining <= 0 {
		l.mu.Unlock()
		if l.Stop != nil {
			l.Stop.Stop()
		}
		return nil
	}
	sel := batch.TrimSelectionTo(remaining)
	l.emitted += len(sel)
	reached := l.emitted >= l.N
	l.mu.Unlock()

	if reached && l.Stop != nil {
		l.Stop.Stop()
	}
	if len(sel) == 0 {
		return nil
	}
	return l.Next.Push(value.WithSelection(batch, sel))
}

func (l *Limit) Finish() error { return l.Next.Finish() }
