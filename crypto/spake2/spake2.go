// Package spake2 implements the symmetric variant of SPAKE2 over the
// Edwards25519 group: a balanced password-authenticated key exchange in
// which both peers play an identical role, used by Portal to turn a
// shared, low-entropy pass-phrase into a 32-byte session key without ever
// putting the pass-phrase (or anything equivalent to it) on the wire.
//
// No example in the retrieved corpus implements a literal PAKE; this
// package generalizes the teacher's "derive a shared key by elliptic-curve
// Diffie-Hellman, then run it through a KDF" shape (see
// crypto/recordlayer and the surrounding session package) to a
// password-authenticated group element, using filippo.io/edwards25519 for
// the point arithmetic a symmetric Diffie-Hellman over X25519 cannot
// express.
package spake2

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"

	"filippo.io/edwards25519"

	"portal/settings"
)

// State is one side's in-progress SPAKE2 exchange. It is consumed exactly
// once by Finish; a second call returns ErrAlreadyConsumed.
type State struct {
	x          *edwards25519.Scalar
	w          *edwards25519.Scalar
	ownElement [settings.KeyExchangePayloadSize]byte
	identity   []byte
	consumed   bool
}

// New starts a symmetric SPAKE2 exchange for the given pass-phrase and
// identity (Portal uses the hex SHA-256 of the session identifier). It
// returns the state to keep and the 33-byte element to send to the peer.
func New(passphrase, identity []byte) (*State, [settings.KeyExchangePayloadSize]byte, error) {
	w := hashToScalar("portal spake2 password", passphrase, identity)

	x, err := randomScalar()
	if err != nil {
		return nil, [settings.KeyExchangePayloadSize]byte{}, err
	}

	var element edwards25519.Point
	var wS edwards25519.Point
	wS.ScalarMult(w, blindingPoint)
	element.ScalarBaseMult(x)
	element.Add(&element, &wS)

	var out [settings.KeyExchangePayloadSize]byte
	copy(out[:32], element.Bytes())
	// The trailing byte carries no cryptographic weight: it is always zero,
	// fills out the 33-byte payload the wire format reserves, and is left
	// out of the transcript hash (Finish uses only the first 32 bytes).
	out[32] = 0

	s := &State{
		x:          x,
		w:          w,
		ownElement: out,
		identity:   append([]byte(nil), identity...),
	}
	return s, out, nil
}

// Finish consumes the state and the peer's 33-byte element, returning the
// 32-byte session key both sides will have derived identically. It is the
// caller's responsibility (the session package) to run a key-confirmation
// round afterward; SPAKE2 itself cannot tell a wrong pass-phrase from a
// correct one.
func (s *State) Finish(peerElement [settings.KeyExchangePayloadSize]byte) ([]byte, error) {
	if s.consumed {
		return nil, ErrAlreadyConsumed
	}
	s.consumed = true

	if subtle.ConstantTimeCompare(peerElement[:32], s.ownElement[:32]) == 1 {
		return nil, ErrReflectedElement
	}

	peerPoint, err := new(edwards25519.Point).SetBytes(peerElement[:32])
	if err != nil {
		return nil, ErrInvalidElement
	}

	var wS edwards25519.Point
	wS.ScalarMult(s.w, blindingPoint)

	var unblinded edwards25519.Point
	unblinded.Subtract(peerPoint, &wS)

	var shared edwards25519.Point
	shared.ScalarMult(s.x, &unblinded)

	return deriveSessionKey(s.identity, s.ownElement[:32], peerElement[:32], shared.Bytes()), nil
}

// deriveSessionKey hashes the two elements in a canonical (sorted) order
// so both peers compute the same transcript regardless of which element
// arrived first, plus the shared DH point and the session identity.
func deriveSessionKey(identity, a, b, dh []byte) []byte {
	first, second := a, b
	if bytes.Compare(a, b) > 0 {
		first, second = b, a
	}

	h := sha256.New()
	h.Write(identity)
	h.Write(first)
	h.Write(second)
	h.Write(dh)
	return h.Sum(nil)
}

// hashToScalar reduces a password and identity into a group scalar via
// SHA-512, matching the wide-reduction SetUniformBytes expects.
func hashToScalar(label string, passphrase, identity []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write([]byte(label))
	h.Write(identity)
	h.Write(passphrase)
	digest := h.Sum(nil)

	scalar, err := edwards25519.NewScalar().SetUniformBytes(digest)
	if err != nil {
		// SetUniformBytes only fails if given other than 64 bytes, which
		// sha512.Sum never produces.
		panic("spake2: unreachable: " + err.Error())
	}
	return scalar
}

func randomScalar() (*edwards25519.Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(buf[:])
}
