package session

import "os"

// fileMapping is a byte-slice view over a file's contents, backed by a
// real memory mapping on platforms that support it cheaply and by a
// heap buffer elsewhere (see mapping_linux.go / mapping_portable.go).
// Writes to a writable mapping are flushed to disk by Close.
type fileMapping struct {
	data  []byte
	close func() error
}

// Bytes returns the mapped region. It is empty for a zero-length file.
func (m *fileMapping) Bytes() []byte {
	return m.data
}

func (m *fileMapping) Close() error {
	if m.close == nil {
		return nil
	}
	return m.close()
}

// mapFile maps size bytes of f. A zero-length file yields an empty mapping
// without touching the platform mapping syscall, since mapping zero bytes
// is either an error (Linux) or meaningless (portable).
func mapFile(f *os.File, size int64, writable bool) (*fileMapping, error) {
	if size == 0 {
		return &fileMapping{}, nil
	}
	return newFileMapping(f, size, writable)
}
