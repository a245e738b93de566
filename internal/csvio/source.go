package csvio

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/celect/celect/internal/celecterr"
)

// Source is an opened CSV input: Data is the full byte range to scan
// (mmapped or decompressed into memory), and Close releases whatever
// backing resource Data came from.
type Source struct {
	Data  []byte
	Close func() error
}

// OpenSource opens path for scanning. ".lz4"-suffixed paths are
// transparently decompressed into an in-memory buffer, since the
// parallel byte-range split needs random access a streaming lz4 frame
// can't give; plain paths are memory-mapped.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, celecterr.Wrap(celecterr.Io, "open "+path, err)
	}

	if strings.HasSuffix(path, ".lz4") {
		defer f.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, lz4.NewReader(f)); err != nil {
			return nil, celecterr.Wrap(celecterr.Io, "decompress "+path, err)
		}
		data := buf.Bytes()
		return &Source{Data: data, Close: func() error { return nil }}, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, celecterr.Wrap(celecterr.Io, "stat "+path, err)
	}
	data, err := mmapFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, celecterr.Wrap(celecterr.Io, "mmap "+path, err)
	}
	return &Source{
		Data: data,
		Close: func() error {
			err := munmapFile(data)
			cerr := f.Close()
			if err != nil {
				return err
			}
			return cerr
		},
	}, nil
}
