//go:build linux

package session

import (
	"os"

	"golang.org/x/sys/unix"
)

// newFileMapping maps a sender's file read-only and private (sendFile
// copies each chunk out before encrypting it, so the file on disk is never
// touched) or a receiver's destination file shared and writable.
func newFileMapping(f *os.File, size int64, writable bool) (*fileMapping, error) {
	prot := unix.PROT_READ
	flags := unix.MAP_PRIVATE
	if writable {
		prot |= unix.PROT_WRITE
		flags = unix.MAP_SHARED
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, flags)
	if err != nil {
		return nil, err
	}

	return &fileMapping{
		data:  data,
		close: func() error { return unix.Munmap(data) },
	}, nil
}
