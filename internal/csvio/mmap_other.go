//go:build !unix

package csvio

import (
	"io"
	"os"
)

// mmapFile falls back to reading the whole file on platforms without a
// unix-style mmap syscall (windows, plan9).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	return io.ReadAll(f)
}

// munmapFile is a no-op for the ReadAll fallback.
func munmapFile(data []byte) error {
	return nil
}
