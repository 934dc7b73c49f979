package relay

import "net"

// Pair is two connections matched on the same identifier, one sender and
// one receiver, ready for bidirectional forwarding. Once created, the
// pair owns both connections; nothing else holds a reference back into
// the pending map. SenderConnect and ReceiverConnect are each side's
// original Connect envelope, re-encoded for delivery to its peer: a peer
// never sends its Connect message to the other peer directly, only to
// the relay, so the relay hands it across once pairing completes.
type Pair struct {
	Sender          net.Conn
	Receiver        net.Conn
	SenderConnect   []byte
	ReceiverConnect []byte
}

// Close closes both sides. It is safe to call after either or both are
// already closed by a finished tunnel.
func (p *Pair) Close() {
	_ = p.Sender.Close()
	_ = p.Receiver.Close()
}
