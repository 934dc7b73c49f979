package spake2

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
)

// blindingPoint is the nothing-up-my-sleeve group element S used to mask
// both sides' ephemeral Diffie-Hellman contribution in the symmetric
// SPAKE2 variant (the same point plays the role RFC 9382 assigns
// separately to M and N, since a symmetric PAKE does not distinguish
// sides). It is derived once at package init by hashing a fixed label
// into curve points until one decodes, so nobody — including whoever
// wrote this package — can know its discrete log relative to the
// standard base point.
var blindingPoint = hashToPoint("portal spake2 symmetric blinding point")

// hashToPoint implements try-and-increment hashing into the Edwards25519
// group: hash the label with a counter suffix with SHA-512 until the
// first 32 bytes decode as a valid compressed point. Roughly half of all
// candidate strings succeed, so this terminates quickly in practice.
func hashToPoint(label string) *edwards25519.Point {
	for ctr := 0; ; ctr++ {
		digest := sha512.Sum512([]byte(fmt.Sprintf("%s#%d", label, ctr)))
		p, err := new(edwards25519.Point).SetBytes(digest[:32])
		if err == nil {
			return p
		}
	}
}
