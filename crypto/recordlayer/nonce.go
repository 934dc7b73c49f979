package recordlayer

import (
	"encoding/binary"
	"sync"
)

// NonceSequence is a monotonic 96-bit counter (64-bit low word, 32-bit high
// word, big-endian encoded) used to derive a fresh ChaCha20-Poly1305 nonce
// for every frame a session sends. It never repeats and never rewinds.
type NonceSequence struct {
	mu   sync.Mutex
	low  uint64
	high uint32
}

// NewNonceSequence returns a sequence starting at zero.
func NewNonceSequence() *NonceSequence {
	return &NonceSequence{}
}

// Next advances the counter and encodes it into a fresh 12-byte nonce.
func (n *NonceSequence) Next() ([12]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out [12]byte
	if n.high == ^uint32(0) && n.low == ^uint64(0) {
		return out, ErrNonceOverflow
	}

	if n.low == ^uint64(0) {
		n.high++
		n.low = 0
	} else {
		n.low++
	}

	binary.BigEndian.PutUint64(out[:8], n.low)
	binary.BigEndian.PutUint32(out[8:], n.high)
	return out, nil
}
