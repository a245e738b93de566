package physical

import (
	"sync"

	"github.com/celect/celect/internal/value"
)

// CollectSink is the terminal operator of every pipeline: it
// materializes each incoming view into an owned batch (the only point
// in the pipeline that copies column storage) and appends it to
// Batches. Safe for concurrent Push calls from multiple scan workers.
type CollectSink struct {
	Schema value.Schema

	mu      sync.Mutex
	Batches []*value.Batch
}

func (s *CollectSink) Push(batch *value.Batch) error {
	if batch.LiveLen() == 0 {
		return nil
	}
	owned := batch.GatherToOwned()
	s.mu.Lock()
	s.Batches = append(s.Batches, owned)
	s.mu.Unlock()
	return nil
}

func (s *CollectSink) Finish() error { return nil }

// RowCount returns the total number of rows across every collected batch.
func (s *CollectSink) RowCount() int {
	n := 0
	for _, b := range s.Batches {
		n += b.N()
	}
	return n
}
