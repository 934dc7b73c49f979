package relay

import (
	"bytes"
	"fmt"
	"net"

	"portal/wire"
)

// readConnect performs the bounded pre-pairing read every worker does on
// a freshly accepted socket: the discriminant byte plus the Connect body,
// and nothing past it. Anything else on the wire after this point is
// opaque to the relay.
//
// It also returns a fresh encoding of the envelope, so the caller can
// hand it to this connection's eventual peer: each side only ever sends
// its own Connect envelope to the relay, never to the peer directly, so
// the relay re-delivers it once pairing completes.
func readConnect(conn net.Conn) (wire.Connect, []byte, error) {
	kind, err := wire.ReadKind(conn)
	if err != nil {
		return wire.Connect{}, nil, fmt.Errorf("%w: read kind: %v", ErrBadMsg, err)
	}
	if kind != wire.KindConnect {
		return wire.Connect{}, nil, fmt.Errorf("%w: expected connect, got kind %d", ErrBadMsg, kind)
	}
	c, err := wire.ReadConnect(conn)
	if err != nil {
		return wire.Connect{}, nil, fmt.Errorf("%w: %v", ErrBadMsg, err)
	}

	var buf bytes.Buffer
	if err := wire.WriteConnect(&buf, c); err != nil {
		return wire.Connect{}, nil, fmt.Errorf("%w: re-encode connect: %v", ErrBadMsg, err)
	}
	return c, buf.Bytes(), nil
}
