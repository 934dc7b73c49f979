package relay

import (
	"errors"
	"net"
	"testing"
	"time"

	"portal/wire"
)

func TestPendingMapSenderThenReceiverPairs(t *testing.T) {
	m := newPendingMap()
	senderConn, _ := net.Pipe()
	defer senderConn.Close()

	pair, err := m.connect("abc", wire.Sender, senderConn, []byte("sender-connect"))
	if err != nil {
		t.Fatalf("register sender: %v", err)
	}
	if pair != nil {
		t.Fatalf("expected nil pair on sender registration, got %v", pair)
	}

	receiverConn, _ := net.Pipe()
	defer receiverConn.Close()

	pair, err = m.connect("abc", wire.Receiver, receiverConn, []byte("receiver-connect"))
	if err != nil {
		t.Fatalf("register receiver: %v", err)
	}
	if pair == nil {
		t.Fatal("expected a matched pair")
	}
	if pair.Sender != senderConn || pair.Receiver != receiverConn {
		t.Fatal("pair does not reference the expected connections")
	}
	if string(pair.SenderConnect) != "sender-connect" || string(pair.ReceiverConnect) != "receiver-connect" {
		t.Fatalf("pair did not carry each side's connect bytes: %+v", pair)
	}

	if _, exists := m.ids["abc"]; exists {
		t.Fatal("identifier should be removed from the table once paired")
	}
}

func TestPendingMapDuplicateSenderRejected(t *testing.T) {
	m := newPendingMap()
	first, _ := net.Pipe()
	defer first.Close()
	second, _ := net.Pipe()
	defer second.Close()

	if _, err := m.connect("dup", wire.Sender, first, []byte("first-connect")); err != nil {
		t.Fatalf("register first sender: %v", err)
	}
	_, err := m.connect("dup", wire.Sender, second, []byte("second-connect"))
	if !errors.Is(err, ErrDuplicateSender) {
		t.Fatalf("expected ErrDuplicateSender, got %v", err)
	}
}

func TestPendingMapReceiverWithNoSenderRejected(t *testing.T) {
	m := newPendingMap()
	conn, _ := net.Pipe()
	defer conn.Close()

	_, err := m.connect("nobody-waiting", wire.Receiver, conn, []byte("connect"))
	if !errors.Is(err, ErrNoPeer) {
		t.Fatalf("expected ErrNoPeer, got %v", err)
	}
}

func TestPendingMapReapEvictsStaleSenders(t *testing.T) {
	m := newPendingMap()
	conn, _ := net.Pipe()
	defer conn.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := now
	now = func() time.Time { return base }
	defer func() { now = old }()

	if _, err := m.connect("stale", wire.Sender, conn, []byte("connect")); err != nil {
		t.Fatalf("register sender: %v", err)
	}

	now = func() time.Time { return base.Add(pendingTimeout / 2) }
	if evicted := m.reap(); len(evicted) != 0 {
		t.Fatalf("expected no eviction before timeout, got %d", len(evicted))
	}

	now = func() time.Time { return base.Add(pendingTimeout + time.Second) }
	evicted := m.reap()
	if len(evicted) != 1 || evicted[0] != conn {
		t.Fatalf("expected the stale sender's connection evicted, got %v", evicted)
	}
	if _, exists := m.ids["stale"]; exists {
		t.Fatal("evicted identifier should be removed from the table")
	}
}

func TestPendingMapConnectRejectsUnknownDirection(t *testing.T) {
	m := newPendingMap()
	conn, _ := net.Pipe()
	defer conn.Close()

	_, err := m.connect("bogus", wire.Direction(99), conn, []byte("connect"))
	if !errors.Is(err, ErrBadMsg) {
		t.Fatalf("expected ErrBadMsg, got %v", err)
	}
}
