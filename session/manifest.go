package session

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"portal/settings"
)

// ManifestEntry is one file in a transfer manifest: its size and leaf
// filename only. The manifest sent on the wire never contains directory
// components.
type ManifestEntry struct {
	Name string
	Size uint64
}

// manifestEntry pairs a wire ManifestEntry with the sender's local path,
// kept only on the sending side.
type manifestEntry struct {
	ManifestEntry
	localPath string
}

// BuildManifest expands a list of local paths into a sender manifest: a
// directory contributes its immediate regular-file children (depth one);
// a regular file contributes itself; anything else is an error. The final
// manifest must be non-empty.
func BuildManifest(paths []string) ([]manifestEntry, error) {
	var entries []manifestEntry

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadFileName, p, err)
		}

		switch {
		case info.Mode().IsDir():
			children, err := os.ReadDir(p)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrBadFileName, p, err)
			}
			for _, c := range children {
				childInfo, err := c.Info()
				if err != nil || !childInfo.Mode().IsRegular() {
					continue
				}
				entries = append(entries, manifestEntry{
					ManifestEntry: ManifestEntry{Name: childInfo.Name(), Size: uint64(childInfo.Size())},
					localPath:     filepath.Join(p, childInfo.Name()),
				})
			}
		case info.Mode().IsRegular():
			entries = append(entries, manifestEntry{
				ManifestEntry: ManifestEntry{Name: filepath.Base(p), Size: uint64(info.Size())},
				localPath:     p,
			})
		default:
			return nil, fmt.Errorf("%w: %s is neither a regular file nor a directory", ErrBadFileName, p)
		}
	}

	if len(entries) == 0 {
		return nil, ErrEmptyManifest
	}
	return entries, nil
}

// marshalManifest encodes a manifest as: uint32 entry count, then for each
// entry a uint16 name length, the name bytes, and a uint64 size.
func marshalManifest(entries []ManifestEntry) []byte {
	size := 4
	for _, e := range entries {
		size += 2 + len(e.Name) + 8
	}
	// Reserve AEAD overhead so the caller can seal in place.
	buf := make([]byte, size, size+settings.AEADOverhead)

	binary.LittleEndian.PutUint32(buf[:4], uint32(len(entries)))
	off := 4
	for _, e := range entries {
		binary.LittleEndian.PutUint16(buf[off:], uint16(len(e.Name)))
		off += 2
		off += copy(buf[off:], e.Name)
		binary.LittleEndian.PutUint64(buf[off:], e.Size)
		off += 8
	}
	return buf
}

func unmarshalManifest(data []byte) ([]ManifestEntry, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: manifest too short", ErrBadMsg)
	}
	count := binary.LittleEndian.Uint32(data[:4])
	off := 4

	entries := make([]ManifestEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated manifest", ErrBadMsg)
		}
		nameLen := int(binary.LittleEndian.Uint16(data[off:]))
		off += 2
		if off+nameLen+8 > len(data) {
			return nil, fmt.Errorf("%w: truncated manifest entry", ErrBadMsg)
		}
		name := string(data[off : off+nameLen])
		off += nameLen
		size := binary.LittleEndian.Uint64(data[off:])
		off += 8
		entries = append(entries, ManifestEntry{Name: filepath.Base(name), Size: size})
	}
	return entries, nil
}

// marshalFileInfo and unmarshalFileInfo encode the standalone per-file
// metadata message sent immediately before each file's ciphertext chunks.
func marshalFileInfo(e ManifestEntry) []byte {
	buf := make([]byte, 2+len(e.Name)+8, 2+len(e.Name)+8+settings.AEADOverhead)
	binary.LittleEndian.PutUint16(buf[:2], uint16(len(e.Name)))
	off := 2
	off += copy(buf[off:], e.Name)
	binary.LittleEndian.PutUint64(buf[off:], e.Size)
	return buf
}

func unmarshalFileInfo(data []byte) (ManifestEntry, error) {
	if len(data) < 2 {
		return ManifestEntry{}, fmt.Errorf("%w: file info too short", ErrBadMsg)
	}
	nameLen := int(binary.LittleEndian.Uint16(data[:2]))
	if len(data) < 2+nameLen+8 {
		return ManifestEntry{}, fmt.Errorf("%w: truncated file info", ErrBadMsg)
	}
	name := filepath.Base(string(data[2 : 2+nameLen]))
	size := binary.LittleEndian.Uint64(data[2+nameLen:])
	return ManifestEntry{Name: name, Size: size}, nil
}
