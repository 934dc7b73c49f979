//go:build !linux

package session

import (
	"io"
	"os"
)

// newFileMapping substitutes a heap buffer for a real mapping on platforms
// without a cheap mmap, per the portability allowance in the design notes:
// the wire protocol is unaffected since the record layer only ever sees a
// byte slice either way. A writable mapping is flushed to f on Close.
func newFileMapping(f *os.File, size int64, writable bool) (*fileMapping, error) {
	data := make([]byte, size)

	if !writable {
		if _, err := io.ReadFull(f, data); err != nil {
			return nil, err
		}
		return &fileMapping{data: data}, nil
	}

	return &fileMapping{
		data:  data,
		close: func() error { _, err := f.WriteAt(data, 0); return err },
	}, nil
}
