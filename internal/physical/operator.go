// Package physical implements the push-based physical operators: each
// operator receives batches from its input, mutates or replaces their
// selection vector, and pushes the result downstream. Operators never
// gather or copy column storage except at the terminal sink.
package physical

import "github.com/celect/celect/internal/value"

// Operator is one stage of the physical pipeline. Push delivers one
// batch; Finish is called exactly once, after every upstream worker has
// pushed its last batch, to let aggregating operators (Count) or
// terminal sinks emit their final result.
type Operator interface {
	Push(batch *value.Batch) error
	Finish() error
}
