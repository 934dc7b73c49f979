package session

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"portal/application"
	"portal/settings"
)

// SendManifest builds a manifest from paths and sends it as a single
// encrypted whole object, then transfers each file in the order built.
func (s *Session) SendManifest(paths []string, progress application.ProgressFunc) error {
	if s.state != StateReady {
		return ErrBadState
	}

	entries, err := BuildManifest(paths)
	if err != nil {
		return err
	}

	wire := make([]ManifestEntry, len(entries))
	for i, e := range entries {
		wire[i] = e.ManifestEntry
	}
	if err := s.rconn.WriteObject(marshalManifest(wire)); err != nil {
		return fmt.Errorf("%w: send manifest: %v", ErrIO, err)
	}

	s.state = StateTransferring
	for _, e := range entries {
		if err := s.sendFile(e, progress); err != nil {
			s.fail()
			return err
		}
	}
	s.state = StateDone
	return nil
}

// RecvManifest reads the sender's manifest, invokes verify exactly once
// (if non-nil), and on acceptance receives every file into downloadDir.
func (s *Session) RecvManifest(downloadDir string, verify application.VerifyFunc, progress application.ProgressFunc) error {
	if s.state != StateReady {
		return ErrBadState
	}

	info, err := os.Stat(downloadDir)
	if err != nil || !info.IsDir() {
		return ErrBadDirectory
	}

	scratch := make([]byte, settings.ScratchBufferSize)
	plaintext, err := s.rconn.ReadObject(scratch)
	if err != nil {
		return fmt.Errorf("%w: recv manifest: %v", ErrIO, err)
	}
	entries, err := unmarshalManifest(plaintext)
	if err != nil {
		return err
	}

	if verify != nil {
		descriptors := make([]application.FileDescriptor, len(entries))
		for i, e := range entries {
			descriptors[i] = application.FileDescriptor{Name: e.Name, Size: e.Size}
		}
		if !verify(descriptors) {
			s.state = StateDone
			return ErrCancelled
		}
	}

	s.state = StateTransferring
	for range entries {
		if err := s.recvFile(downloadDir, progress); err != nil {
			s.fail()
			return err
		}
	}
	s.state = StateDone
	return nil
}

func (s *Session) sendFile(e manifestEntry, progress application.ProgressFunc) error {
	if err := s.rconn.WriteObject(marshalFileInfo(e.ManifestEntry)); err != nil {
		return fmt.Errorf("%w: send file info: %v", ErrIO, err)
	}

	f, err := os.Open(e.localPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrBadFileName, e.localPath, err)
	}
	defer f.Close()

	mapping, err := mapFile(f, int64(e.Size), false)
	if err != nil {
		return fmt.Errorf("%w: map %s: %v", ErrIO, e.localPath, err)
	}
	defer mapping.Close()

	data := mapping.Bytes()
	var sent uint64
	for offset := 0; offset < len(data); offset += settings.ChunkSize {
		end := offset + settings.ChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]

		buf := make([]byte, len(chunk), len(chunk)+chacha20poly1305.Overhead)
		copy(buf, chunk)

		sealed, err := s.rconn.WriteHeaderOnly(buf)
		if err != nil {
			return fmt.Errorf("%w: encrypt chunk of %s: %v", ErrEncrypt, e.Name, err)
		}
		if err := s.rconn.WriteCiphertext(sealed); err != nil {
			return fmt.Errorf("%w: write chunk of %s: %v", ErrIO, e.Name, err)
		}

		sent += uint64(len(chunk))
		if progress != nil {
			progress(e.Name, sent, e.Size)
		}
	}
	if len(data) == 0 && progress != nil {
		progress(e.Name, 0, e.Size)
	}
	return nil
}

func (s *Session) recvFile(downloadDir string, progress application.ProgressFunc) error {
	scratch := make([]byte, settings.ScratchBufferSize)
	plaintext, err := s.rconn.ReadObject(scratch)
	if err != nil {
		return fmt.Errorf("%w: recv file info: %v", ErrIO, err)
	}
	info, err := unmarshalFileInfo(plaintext)
	if err != nil {
		return err
	}

	destPath := filepath.Join(downloadDir, filepath.Base(info.Name))
	f, err := os.OpenFile(destPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrBadFileName, destPath, err)
	}
	defer f.Close()

	if info.Size > 0 {
		if err := f.Truncate(int64(info.Size)); err != nil {
			return fmt.Errorf("%w: truncate %s: %v", ErrIO, destPath, err)
		}
	}

	mapping, err := mapFile(f, int64(info.Size), true)
	if err != nil {
		return fmt.Errorf("%w: map %s: %v", ErrIO, destPath, err)
	}

	data := mapping.Bytes()
	var received uint64
	for received < info.Size {
		end := received + settings.ChunkSize
		if end > info.Size {
			end = info.Size
		}
		dst := data[received:end]

		n, err := s.rconn.ReadIntoBuffer(dst)
		if err != nil {
			_ = mapping.Close()
			return fmt.Errorf("%w: recv chunk of %s: %v", ErrDecrypt, info.Name, err)
		}
		received += uint64(n)
		if progress != nil {
			progress(info.Name, received, info.Size)
		}
	}

	if err := mapping.Close(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrIO, destPath, err)
	}

	if received != info.Size {
		return ErrIncomplete
	}
	return nil
}
