package relay

import (
	"net"
	"sync"
	"time"

	"portal/wire"
)

// pendingTimeout is how long a sender waits for a matching receiver
// before the reaper evicts it.
const pendingTimeout = 15 * time.Minute

type pendingSender struct {
	conn    net.Conn
	connect []byte
	arrived time.Time
}

// pendingMap is the process-wide identifier -> pending-sender table.
// It is the single source of truth for pairing decisions; the reap loop
// and every worker share one instance and hold its mutex only for the
// short critical sections below.
type pendingMap struct {
	mu  sync.Mutex
	ids map[string]*pendingSender
}

func newPendingMap() *pendingMap {
	return &pendingMap{ids: make(map[string]*pendingSender)}
}

// connect applies one freshly-read Connect envelope to the table. connect
// is that envelope re-encoded, to be delivered to whichever peer this
// connection eventually pairs with. A sender with a free identifier is
// recorded as pending and a nil pair is returned (caller does nothing
// further). A sender whose identifier is already taken yields
// ErrDuplicateSender. A receiver whose identifier has a pending sender
// yields the matched *Pair, carrying both sides' Connect bytes for
// delivery. A receiver with no pending sender yields ErrNoPeer.
func (m *pendingMap) connect(id string, direction wire.Direction, conn net.Conn, connect []byte) (*Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch direction {
	case wire.Sender:
		if _, exists := m.ids[id]; exists {
			return nil, ErrDuplicateSender
		}
		m.ids[id] = &pendingSender{conn: conn, connect: connect, arrived: now()}
		return nil, nil

	case wire.Receiver:
		sender, ok := m.ids[id]
		if !ok {
			return nil, ErrNoPeer
		}
		delete(m.ids, id)
		return &Pair{
			Sender:          sender.conn,
			Receiver:        conn,
			SenderConnect:   sender.connect,
			ReceiverConnect: connect,
		}, nil

	default:
		return nil, ErrBadMsg
	}
}

// reap evicts and returns the connections of every pending sender older
// than pendingTimeout, so the caller can close them.
func (m *pendingMap) reap() []net.Conn {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now().Add(-pendingTimeout)
	var evicted []net.Conn
	for id, p := range m.ids {
		if p.arrived.Before(cutoff) {
			evicted = append(evicted, p.conn)
			delete(m.ids, id)
		}
	}
	return evicted
}

// now is a var so tests can simulate the passage of time without a real
// 15-minute sleep.
var now = time.Now
