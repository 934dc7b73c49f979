package relay

import "errors"

var (
	// ErrBadMsg is returned when the first bytes on a freshly accepted
	// connection are not a well-formed Connect envelope.
	ErrBadMsg = errors.New("relay: malformed connect envelope")

	// ErrDuplicateSender is returned when a second sender arrives for an
	// identifier that already has a pending sender.
	ErrDuplicateSender = errors.New("relay: duplicate sender for identifier")

	// ErrNoPeer is returned when a receiver arrives for an identifier with
	// no pending sender.
	ErrNoPeer = errors.New("relay: no pending sender for identifier")

	// ErrIO covers socket-level failures outside the pairing protocol
	// itself (failing to obtain a raw file descriptor, pipe creation,
	// epoll setup).
	ErrIO = errors.New("relay: i/o failure")
)
