package csvio

import (
	"os"
	"runtime"
	"strconv"
)

// Config holds the scanner's tunables: Parallelism is the number of
// chunk workers, BatchSize bounds rows per pushed batch, SampleRows
// bounds the type-inference sample taken from the data rows after the
// header. Defaults are overridable by CELECT_PARALLELISM /
// CELECT_BATCH_SIZE / CELECT_SAMPLE_ROWS, read by each DefaultConfig call
// with os.Getenv + strconv rather than through a config library.
type Config struct {
	Parallelism int
	BatchSize   int
	SampleRows  int
}

// DefaultConfig returns the built-in defaults, applying any environment
// overrides present.
func DefaultConfig() Config {
	c := Config{
		Parallelism: runtime.NumCPU(),
		BatchSize:   4096,
		SampleRows:  1024,
	}
	if v := envInt("CELECT_PARALLELISM"); v > 0 {
		c.Parallelism = v
	}
	if v := envInt("CELECT_BATCH_SIZE"); v > 0 {
		c.BatchSize = v
	}
	if v := envInt("CELECT_SAMPLE_ROWS"); v > 0 {
		c.SampleRows = v
	}
	return c
}

func envInt(name string) int {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
