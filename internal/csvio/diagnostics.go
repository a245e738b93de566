package csvio

import "sync/atomic"

// Diagnostics accumulates scan-time counters across every worker: one
// shared atomic counter per field.
type Diagnostics struct {
	MalformedRows int64
	ScanBytes     int64
}

func (d *Diagnostics) addMalformed(n int64) { atomic.AddInt64(&d.MalformedRows, n) }
func (d *Diagnostics) addScanBytes(n int64) { atomic.AddInt64(&d.ScanBytes, n) }
