// Package recordlayer implements the ChaCha20-Poly1305 AEAD record layer
// that sits underneath every Portal session: fixed 96-bit nonces drawn from
// a monotonic per-session counter, no additional authenticated data, and a
// detached authentication tag so the ciphertext on the wire is exactly the
// plaintext length. Encrypt seals the caller's buffer in place with no
// extra allocation when it has room for the tag; Decrypt needs one small scratch buffer to reattach
// the tag before opening, then copies the plaintext back into the caller's
// destination.
package recordlayer

import (
	"golang.org/x/crypto/chacha20poly1305"
)

// Header is the wire-independent result of an Encrypt call: the nonce used,
// the detached Poly1305 tag, and the ciphertext length. Length equals the
// plaintext length exactly — the tag travels separately in Tag rather than
// appended to the ciphertext — so a receiver sizing a destination buffer
// from Length alone (a memory-mapped file chunk) always gets the right
// size. The caller is responsible for placing Nonce and Tag into a
// wire.EncryptedDataHeader.
type Header struct {
	Nonce [12]byte
	Tag   [16]byte
	// Length is the ciphertext length, equal to the plaintext length.
	Length uint64
}

// Encrypt seals data in place using the next nonce from seq. data must have
// chacha20poly1305.Overhead bytes of spare capacity past its length for the
// AEAD call's scratch use, but the returned ciphertext is exactly len(data)
// bytes: the trailing Poly1305 tag is split off into Header.Tag instead of
// staying attached, so the wire never carries 16 extra bytes per frame.
func Encrypt(seq *NonceSequence, key []byte, data []byte) (Header, []byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return Header{}, nil, ErrInvalidKeySize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return Header{}, nil, err
	}

	nonce, err := seq.Next()
	if err != nil {
		return Header{}, nil, err
	}

	sealed := aead.Seal(data[:0], nonce[:], data, nil)
	ciphertext := sealed[:len(sealed)-chacha20poly1305.Overhead]

	var hdr Header
	hdr.Nonce = nonce
	hdr.Length = uint64(len(ciphertext))
	copy(hdr.Tag[:], sealed[len(ciphertext):])
	return hdr, ciphertext, nil
}

// Decrypt opens ciphertext using hdr.Nonce and hdr.Tag, returning the
// plaintext slice (a subslice of ciphertext, reusing its backing array). It
// fails closed: any authentication failure returns ErrDecryptFailed without
// leaking which byte mismatched. Since the tag travels detached from the
// ciphertext, Decrypt reattaches it in a small scratch buffer before
// calling Open and copies the opened plaintext back into ciphertext.
func Decrypt(key []byte, hdr Header, ciphertext []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKeySize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, len(ciphertext)+chacha20poly1305.Overhead)
	n := copy(sealed, ciphertext)
	copy(sealed[n:], hdr.Tag[:])

	plaintext, err := aead.Open(sealed[:0], hdr.Nonce[:], sealed, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	copy(ciphertext, plaintext)
	return ciphertext[:len(plaintext)], nil
}
