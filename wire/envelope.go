// Package wire implements the four plaintext/ciphertext-header envelopes
// that flow between a Portal peer and the relay: Connect, KeyExchange,
// Confirm, and EncryptedDataHeader. Each is preceded on the stream by a
// one-byte discriminant, hand-rolled MarshalBinary/UnmarshalBinary style,
// the same way the teacher codebase encodes its handshake hellos — no
// serialization library is pulled in because none of the hellos this is
// grounded on use one either.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"portal/settings"
)

// Kind is the one-byte discriminant identifying which envelope follows.
type Kind byte

const (
	KindConnect Kind = iota + 1
	KindKeyExchange
	KindConfirm
	KindEncryptedDataHeader
)

var ErrBadMsg = errors.New("wire: malformed or unexpected envelope")

// Connect is the first message either peer sends to the relay: its
// identifier and which role it plays.
type Connect struct {
	ID        string
	Direction Direction
}

// KeyExchange carries one side's 33-byte SPAKE2 element (32-byte
// compressed Edwards25519 point + 1-byte side tag).
type KeyExchange struct {
	Element [settings.KeyExchangePayloadSize]byte
}

// Confirm carries one side's 42-byte HKDF key-confirmation payload.
type Confirm struct {
	Payload [settings.ConfirmPayloadSize]byte
}

// EncryptedDataHeader precedes `Length` ciphertext bytes on the wire. Tag is
// the detached Poly1305 authenticator: it is not part of the `Length`
// bytes that follow, so Length equals the plaintext length exactly rather
// than double-counting the 16-byte tag.
type EncryptedDataHeader struct {
	Nonce  [12]byte
	Tag    [16]byte
	Length uint64
}

// WriteConnect writes a Connect envelope: discriminant, direction byte,
// 2-byte little-endian id length, id bytes.
func WriteConnect(w io.Writer, c Connect) error {
	if len(c.ID) > settings.MaxIdentifierLength {
		return fmt.Errorf("wire: identifier too long: %d bytes", len(c.ID))
	}
	buf := make([]byte, 0, 4+len(c.ID))
	buf = append(buf, byte(KindConnect), byte(c.Direction))
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(c.ID)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, c.ID...)
	_, err := w.Write(buf)
	return err
}

// ReadConnect reads a Connect envelope, having already consumed the
// discriminant byte via ReadKind.
func ReadConnect(r io.Reader) (Connect, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Connect{}, fmt.Errorf("wire: read connect header: %w", err)
	}
	direction := Direction(hdr[0])
	idLen := binary.LittleEndian.Uint16(hdr[1:3])
	if idLen > settings.MaxIdentifierLength {
		return Connect{}, fmt.Errorf("%w: identifier too long", ErrBadMsg)
	}
	idBytes := make([]byte, idLen)
	if _, err := io.ReadFull(r, idBytes); err != nil {
		return Connect{}, fmt.Errorf("wire: read connect id: %w", err)
	}
	return Connect{ID: string(idBytes), Direction: direction}, nil
}

// WriteKeyExchange writes a KeyExchange envelope.
func WriteKeyExchange(w io.Writer, k KeyExchange) error {
	buf := make([]byte, 1+len(k.Element))
	buf[0] = byte(KindKeyExchange)
	copy(buf[1:], k.Element[:])
	_, err := w.Write(buf)
	return err
}

// ReadKeyExchange reads a KeyExchange envelope body (discriminant already consumed).
func ReadKeyExchange(r io.Reader) (KeyExchange, error) {
	var k KeyExchange
	if _, err := io.ReadFull(r, k.Element[:]); err != nil {
		return KeyExchange{}, fmt.Errorf("wire: read key exchange: %w", err)
	}
	return k, nil
}

// WriteConfirm writes a Confirm envelope.
func WriteConfirm(w io.Writer, c Confirm) error {
	buf := make([]byte, 1+len(c.Payload))
	buf[0] = byte(KindConfirm)
	copy(buf[1:], c.Payload[:])
	_, err := w.Write(buf)
	return err
}

// ReadConfirm reads a Confirm envelope body (discriminant already consumed).
func ReadConfirm(r io.Reader) (Confirm, error) {
	var c Confirm
	if _, err := io.ReadFull(r, c.Payload[:]); err != nil {
		return Confirm{}, fmt.Errorf("wire: read confirm: %w", err)
	}
	return c, nil
}

// WriteEncryptedDataHeader writes the header only; the caller writes the
// `Length` ciphertext bytes itself immediately after (this is how the
// record layer avoids copying memory-mapped file chunks).
func WriteEncryptedDataHeader(w io.Writer, h EncryptedDataHeader) error {
	buf := make([]byte, 1+12+16+8)
	buf[0] = byte(KindEncryptedDataHeader)
	off := 1
	copy(buf[off:], h.Nonce[:])
	off += len(h.Nonce)
	copy(buf[off:], h.Tag[:])
	off += len(h.Tag)
	binary.LittleEndian.PutUint64(buf[off:], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadEncryptedDataHeader reads the fixed-size header body (discriminant already consumed).
func ReadEncryptedDataHeader(r io.Reader) (EncryptedDataHeader, error) {
	var buf [12 + 16 + 8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return EncryptedDataHeader{}, fmt.Errorf("wire: read encrypted data header: %w", err)
	}
	var h EncryptedDataHeader
	copy(h.Nonce[:], buf[:12])
	copy(h.Tag[:], buf[12:28])
	h.Length = binary.LittleEndian.Uint64(buf[28:36])
	return h, nil
}

// ReadKind reads the one-byte discriminant that precedes every envelope.
func ReadKind(r io.Reader) (Kind, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return Kind(b[0]), nil
}
