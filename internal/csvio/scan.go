package csvio

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/celect/celect/internal/csvio/simd"
	"github.com/celect/celect/internal/physical"
	"github.com/celect/celect/internal/plan"
	"github.com/celect/celect/internal/value"
)

// Run partitions an already-opened Source's [dataStart, len(data)) into
// cfg.Parallelism contiguous chunks, adjusts each chunk to the next safe
// record boundary (a newline outside an even-quote run), and has one
// goroutine per chunk tokenize its range into fixed-size batches,
// pushing each into pipeline.Entry. Workers stop early once
// pipeline.Stop is raised by a downstream Limit.
func Run(src *Source, dataStart int, schema value.Schema, scanNode *plan.Scan, cfg Config, pipeline *physical.Pipeline, diag *Diagnostics) error {
	data := src.Data
	total := len(data)
	if dataStart >= total {
		return nil
	}

	colIndices := scanNode.Projection
	if colIndices == nil {
		colIndices = make([]int, len(schema.Fields))
		for i := range colIndices {
			colIndices[i] = i
		}
	}
	workers := cfg.Parallelism
	if workers < 1 {
		workers = 1
	}
	chunkSize := (total - dataStart) / workers
	if chunkSize < 1 {
		chunkSize = total - dataStart
	}

	boundaries := make([]int, workers+1)
	boundaries[0] = dataStart
	boundaries[workers] = total
	for i := 1; i < workers; i++ {
		hint := dataStart + i*chunkSize
		if hint < total {
			boundaries[i] = findSafeRecordBoundary(data, hint)
		} else {
			boundaries[i] = total
		}
	}

	var producedRows int64
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		start, end := boundaries[w], boundaries[w+1]
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			if err := scanChunk(data, start, end, schema, colIndices, scanNode.PushedLimit, cfg.BatchSize, pipeline, diag, &producedRows); err != nil {
				errs <- err
			}
		}(start, end)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	diag.addScanBytes(int64(total - dataStart))
	return nil
}

// findSafeRecordBoundary finds the next newline that is not inside a
// quoted field, starting at hint, using '"' as the CSV quote character —
// the SQL grammar's single-quote string literals are a separate,
// non-colliding grammar over the same bytes.
func findSafeRecordBoundary(data []byte, hint int) int {
	pos := hint
	if pos >= len(data) {
		return len(data)
	}
	nl := indexByte(data[pos:], '\n')
	if nl == -1 {
		return len(data)
	}
	currentNL := pos + nl

	for {
		if currentNL+1 >= len(data) {
			return len(data)
		}
		nextRel := indexByte(data[currentNL+1:], '\n')
		if nextRel == -1 {
			return currentNL + 1
		}
		nextPos := currentNL + 1 + nextRel

		quotes := 0
		for i := currentNL + 1; i < nextPos; i++ {
			if data[i] == '"' {
				quotes++
			}
		}
		if quotes%2 == 0 {
			return currentNL + 1
		}
		currentNL = nextPos
	}
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// scanChunk tokenizes [start,end) into fixed-size batches, building
// bitmaps over the whole chunk once (simd.Scan) and walking quote/
// newline bit positions to find line boundaries. Each discovered line
// is then split into fields and parsed according to the inferred
// schema; malformed lines (wrong field count) increment
// diag.MalformedRows and are dropped.
func scanChunk(data []byte, start, end int, schema value.Schema, colIndices []int, pushedLimit, batchSize int, pipeline *physical.Pipeline, diag *Diagnostics, producedRows *int64) error {
	chunk := data[start:end]
	n := len(chunk)
	if n == 0 {
		return nil
	}
	words := simd.BitmapWords(n)
	quotes := make([]uint64, words)
	seps := make([]uint64, words)
	newlines := make([]uint64, words)
	simd.Scan(chunk, ',', quotes, seps, newlines)

	b := newBatchBuilder(schema, colIndices, batchSize)
	inQuote := false
	lineStart := 0

	flushLine := func(lineEnd int) error {
		line := trimCR(chunk[lineStart:lineEnd])
		lineStart = lineEnd + 1
		if len(line) == 0 {
			return nil
		}
		if pipeline.Stop.Stopped() {
			return errStop
		}
		fields := splitFields(line, ',')
		if len(fields) != len(schema.Fields) {
			diag.addMalformed(1)
			return nil
		}
		b.appendRow(fields)
		if b.full() {
			if err := flush(b, pipeline); err != nil {
				return err
			}
		}
		if pushedLimit > 0 {
			total := atomic.AddInt64(producedRows, 1)
			if total >= int64(pushedLimit) {
				pipeline.Stop.Stop()
			}
		}
		return nil
	}

	for word := 0; word < words; word++ {
		qMask := quotes[word]
		nlMask := newlines[word]
		if qMask == 0 && nlMask == 0 && !inQuote {
			continue
		}
		combined := qMask | nlMask
		for combined != 0 {
			tz := bits.TrailingZeros64(combined)
			bit := uint64(1) << tz
			combined &^= bit
			bytePos := word*64 + tz
			if bytePos >= n {
				break
			}
			if qMask&bit != 0 {
				inQuote = !inQuote
				continue
			}
			if nlMask&bit != 0 && !inQuote {
				if err := flushLine(bytePos); err != nil {
					if err == errStop {
						return flush(b, pipeline)
					}
					return err
				}
			}
		}
	}
	if lineStart < n && !inQuote {
		if err := flushLine(n); err != nil && err != errStop {
			return err
		}
	}
	return flush(b, pipeline)
}

var errStop = stopSentinel{}

type stopSentinel struct{}

func (stopSentinel) Error() string { return "scan: stop flag raised" }

func flush(b *batchBuilder, pipeline *physical.Pipeline) error {
	batch := b.build()
	if batch == nil {
		return nil
	}
	return pipeline.Entry.Push(batch)
}
