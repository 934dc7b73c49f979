// Package session drives one Portal connection from a freshly accepted
// TCP socket and a shared pass-phrase through to a completed file
// transfer: PAKE key agreement, key confirmation, manifest exchange, and
// chunked encrypted streaming, in that order, on a single blocking
// connection.
package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net"

	"golang.org/x/crypto/hkdf"

	"portal/application"
	"portal/crypto/mem"
	"portal/crypto/recordlayer"
	"portal/crypto/spake2"
	"portal/settings"
	"portal/wire"
)

// Session is per-connection mutable state owned by one peer.
type Session struct {
	conn      net.Conn
	direction wire.Direction
	idHex     string
	logger    application.Logger

	pake  *spake2.State
	own   [settings.KeyExchangePayloadSize]byte
	key   []byte
	rconn *recordlayer.Conn

	state State
}

// New starts a session. identifier is the short, human-chosen rendezvous
// string; passphrase is the shared secret used by SPAKE2.
func New(conn net.Conn, direction wire.Direction, identifier string, passphrase []byte, logger application.Logger) (*Session, error) {
	sum := sha256.Sum256([]byte(identifier))
	idHex := hex.EncodeToString(sum[:])

	pake, own, err := spake2.New(passphrase, []byte(idHex))
	if err != nil {
		return nil, fmt.Errorf("session: start spake2: %w", err)
	}

	return &Session{
		conn:      conn,
		direction: direction,
		idHex:     idHex,
		logger:    logger,
		pake:      pake,
		own:       own,
		state:     StateInitialized,
	}, nil
}

// State returns the session's current position in the state machine.
func (s *Session) State() State {
	return s.state
}

// Direction returns the role this side plays.
func (s *Session) Direction() wire.Direction {
	return s.direction
}

// Record returns the record-layer connection established by Handshake. It
// is nil before the session reaches StateReady.
func (s *Session) Record() *recordlayer.Conn {
	return s.rconn
}

// Close releases the underlying connection and scrubs the session key.
func (s *Session) Close() error {
	if s.key != nil {
		mem.ZeroBytes(s.key)
	}
	return s.conn.Close()
}

// Handshake drives Initialized -> Ready: Connect exchange, KeyExchange
// exchange, PAKE finish, and the key-confirmation round. Any failure
// leaves the session in StateFailed and is fatal — callers must not retry.
func (s *Session) Handshake() error {
	if s.state != StateInitialized {
		return ErrBadState
	}

	if err := wire.WriteConnect(s.conn, wire.Connect{ID: s.idHex, Direction: s.direction}); err != nil {
		s.fail()
		return fmt.Errorf("%w: send connect: %v", ErrIO, err)
	}
	if _, err := s.expect(wire.KindConnect); err != nil {
		return err
	}
	if _, err := wire.ReadConnect(s.conn); err != nil {
		s.fail()
		return fmt.Errorf("%w: recv connect: %v", ErrBadMsg, err)
	}

	if err := wire.WriteKeyExchange(s.conn, wire.KeyExchange{Element: s.own}); err != nil {
		s.fail()
		return fmt.Errorf("%w: send key exchange: %v", ErrIO, err)
	}
	if _, err := s.expect(wire.KindKeyExchange); err != nil {
		return err
	}
	peerExchange, err := wire.ReadKeyExchange(s.conn)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: recv key exchange: %v", ErrBadMsg, err)
	}

	key, err := s.pake.Finish(peerExchange.Element)
	if err != nil {
		s.fail()
		return fmt.Errorf("session: spake2 finish: %w", err)
	}
	s.key = key
	s.state = StateKeyExchanged

	ownConfirm, err := s.confirmPayload(s.direction)
	if err != nil {
		s.fail()
		return err
	}
	expectedPeerConfirm, err := s.confirmPayload(s.direction.Peer())
	if err != nil {
		s.fail()
		return err
	}

	if err := wire.WriteConfirm(s.conn, wire.Confirm{Payload: ownConfirm}); err != nil {
		s.fail()
		return fmt.Errorf("%w: send confirm: %v", ErrIO, err)
	}
	if _, err := s.expect(wire.KindConfirm); err != nil {
		return err
	}
	peerConfirm, err := wire.ReadConfirm(s.conn)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: recv confirm: %v", ErrBadMsg, err)
	}

	if subtle.ConstantTimeCompare(peerConfirm.Payload[:], expectedPeerConfirm[:]) != 1 {
		s.fail()
		return ErrPeerKeyMismatch
	}

	rconn, err := recordlayer.NewConn(s.conn, s.key)
	if err != nil {
		s.fail()
		return fmt.Errorf("session: wrap record layer: %w", err)
	}
	s.rconn = rconn
	s.state = StateReady
	s.logger.Printf("session %s: handshake complete as %s", s.idHex[:8], s.direction)
	return nil
}

// expect reads the next discriminant and fails the session if it doesn't
// match want.
func (s *Session) expect(want wire.Kind) (wire.Kind, error) {
	kind, err := wire.ReadKind(s.conn)
	if err != nil {
		s.fail()
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if kind != want {
		s.fail()
		return 0, fmt.Errorf("%w: expected kind %d, got %d", ErrBadMsg, want, kind)
	}
	return kind, nil
}

func (s *Session) fail() {
	s.state = StateFailed
}

// confirmPayload derives the 42-byte HKDF-SHA256 key-confirmation value
// for the given role's info string.
func (s *Session) confirmPayload(role wire.Direction) ([settings.ConfirmPayloadSize]byte, error) {
	var out [settings.ConfirmPayloadSize]byte
	info := role.InfoString(s.idHex)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.key, nil, []byte(info)), out[:]); err != nil {
		return out, fmt.Errorf("session: derive confirm payload: %w", err)
	}
	return out, nil
}
