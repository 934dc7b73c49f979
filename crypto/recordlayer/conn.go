package recordlayer

import (
	"fmt"
	"net"

	"golang.org/x/crypto/chacha20poly1305"

	"portal/settings"
	"portal/wire"
)

// Conn wraps a net.Conn with an already-established session key, sealing
// and opening whole objects framed as wire.EncryptedDataHeader envelopes.
// It mirrors the teacher's TCP adapter shape (an object with Read/Write
// over an underlying connection) but operates on whole messages rather
// than a byte stream, since Portal's record layer never needs to
// reassemble partial frames across calls.
type Conn struct {
	conn net.Conn
	key  []byte
	seq  *NonceSequence
}

// NewConn wraps conn with key (32 bytes) and a fresh nonce sequence.
func NewConn(conn net.Conn, key []byte) (*Conn, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKeySize
	}
	return &Conn{conn: conn, key: key, seq: NewNonceSequence()}, nil
}

// WriteObject seals plaintext whole and writes its header followed by the
// ciphertext. plaintext's backing array is reused as scratch space and must
// have chacha20poly1305.Overhead bytes of spare capacity.
func (c *Conn) WriteObject(plaintext []byte) error {
	hdr, sealed, err := Encrypt(c.seq, c.key, plaintext)
	if err != nil {
		return fmt.Errorf("recordlayer: encrypt: %w", err)
	}
	if err := wire.WriteEncryptedDataHeader(c.conn, wire.EncryptedDataHeader{
		Nonce:  hdr.Nonce,
		Tag:    hdr.Tag,
		Length: hdr.Length,
	}); err != nil {
		return fmt.Errorf("recordlayer: write header: %w", err)
	}
	if _, err := c.conn.Write(sealed); err != nil {
		return fmt.Errorf("recordlayer: write ciphertext: %w", err)
	}
	return nil
}

// ReadObject reads a full envelope (discriminant byte included), requires
// it to be an EncryptedDataHeader, then reads and decrypts its ciphertext.
// scratch must be at least settings.ScratchBufferSize bytes; ReadObject
// grows a fresh buffer only if the frame exceeds it.
func (c *Conn) ReadObject(scratch []byte) ([]byte, error) {
	hdr, err := c.readHeader()
	if err != nil {
		return nil, err
	}

	buf := scratch
	if uint64(len(buf)) < hdr.Length {
		buf = make([]byte, hdr.Length)
	}
	buf = buf[:hdr.Length]

	if _, err := readFull(c.conn, buf); err != nil {
		return nil, fmt.Errorf("recordlayer: read ciphertext: %w", err)
	}

	plaintext, err := Decrypt(c.key, hdr, buf)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// WriteHeaderOnly seals data in place (the session passes a per-chunk copy
// of the mapped file) and writes only the header; the caller is responsible
// for writing the ciphertext bytes themselves immediately after, so header
// and ciphertext are never joined into one buffer.
func (c *Conn) WriteHeaderOnly(data []byte) (ciphertext []byte, err error) {
	hdr, sealed, err := Encrypt(c.seq, c.key, data)
	if err != nil {
		return nil, fmt.Errorf("recordlayer: encrypt: %w", err)
	}
	if err := wire.WriteEncryptedDataHeader(c.conn, wire.EncryptedDataHeader{
		Nonce:  hdr.Nonce,
		Tag:    hdr.Tag,
		Length: hdr.Length,
	}); err != nil {
		return nil, fmt.Errorf("recordlayer: write header: %w", err)
	}
	return sealed, nil
}

// WriteCiphertext writes ciphertext bytes previously produced by
// WriteHeaderOnly.
func (c *Conn) WriteCiphertext(ciphertext []byte) error {
	if _, err := c.conn.Write(ciphertext); err != nil {
		return fmt.Errorf("recordlayer: write ciphertext: %w", err)
	}
	return nil
}

// ReadIntoBuffer reads an EncryptedDataHeader envelope, reads its ciphertext
// into the first header.Length bytes of dst, and decrypts it back into
// that same region — so a memory-mapped destination chunk ends up holding
// the plaintext directly, with no buffer for the caller to manage. It
// returns ErrBufferTooSmall if the frame does not fit.
func (c *Conn) ReadIntoBuffer(dst []byte) (int, error) {
	hdr, err := c.readHeader()
	if err != nil {
		return 0, err
	}
	if hdr.Length > uint64(len(dst)) {
		return 0, ErrBufferTooSmall
	}

	buf := dst[:hdr.Length]
	if _, err := readFull(c.conn, buf); err != nil {
		return 0, fmt.Errorf("recordlayer: read ciphertext: %w", err)
	}

	plaintext, err := Decrypt(c.key, hdr, buf)
	if err != nil {
		return 0, err
	}
	return len(plaintext), nil
}

// readHeader reads the one-byte discriminant plus the fixed-size
// EncryptedDataHeader body, failing if the discriminant doesn't match.
func (c *Conn) readHeader() (Header, error) {
	kind, err := wire.ReadKind(c.conn)
	if err != nil {
		return Header{}, fmt.Errorf("recordlayer: read kind: %w", err)
	}
	if kind != wire.KindEncryptedDataHeader {
		return Header{}, fmt.Errorf("%w: expected encrypted data header, got kind %d", wire.ErrBadMsg, kind)
	}
	whdr, err := wire.ReadEncryptedDataHeader(c.conn)
	if err != nil {
		return Header{}, fmt.Errorf("recordlayer: read header: %w", err)
	}
	return Header{Nonce: whdr.Nonce, Tag: whdr.Tag, Length: whdr.Length}, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Underlying returns the wrapped net.Conn, for callers (the relay handoff,
// the session handshake) that need access before or after the record
// layer's lifetime.
func (c *Conn) Underlying() net.Conn {
	return c.conn
}

// MinScratchSize is the recommended scratch buffer size for ReadObject,
// matching settings.ScratchBufferSize.
const MinScratchSize = settings.ScratchBufferSize
