package settings

import "golang.org/x/crypto/chacha20poly1305"

const (
	// ChunkSize is the fixed size of a plaintext file slice encrypted into
	// a single frame. The last chunk of a file may be shorter.
	ChunkSize = 65536

	// AEADOverhead is the number of ciphertext bytes ChaCha20-Poly1305 adds
	// beyond the plaintext length (the Poly1305 tag).
	AEADOverhead = chacha20poly1305.Overhead

	// KeyExchangePayloadSize is the wire size of a SPAKE2 key-exchange
	// message: a 32-byte compressed Edwards25519 element plus a 1-byte
	// side tag.
	KeyExchangePayloadSize = 33

	// ConfirmPayloadSize is the wire size of a key-confirmation message,
	// the HKDF-SHA256 output used to prove both sides derived the same key.
	ConfirmPayloadSize = 42

	// ScratchBufferSize is the minimum size of the scratch buffer used to
	// read whole encrypted objects (manifests, per-file metadata).
	ScratchBufferSize = 2048

	// DefaultRelayPort is the compiled-in TCP port the relay listens on.
	DefaultRelayPort = 13265

	// MaxIdentifierLength bounds the plaintext identifier carried in a
	// Connect envelope.
	MaxIdentifierLength = 128
)
