// Package relay implements the untrusted rendezvous server: it accepts
// TCP connections, pairs two of them sharing an identifier, and forwards
// bytes between the paired sockets without ever parsing anything past the
// first message on each connection.
package relay

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"portal/application"
)

// defaultWorkerCount is the fixed size of the pre-pairing worker pool;
// the reactor loop itself never performs a blocking read.
const defaultWorkerCount = 4

const reapInterval = time.Minute

// Server runs the relay's accept/pair/forward pipeline over one listener.
type Server struct {
	listener net.Listener
	logger   application.Logger
	pending  *pendingMap
	jobs     chan net.Conn
	pairs    chan *Pair
	workers  int
}

// NewServer wraps listener with a fixed worker pool and in-memory pairing
// table. listener is owned by the Server from this call forward.
func NewServer(listener net.Listener, logger application.Logger) *Server {
	return &Server{
		listener: listener,
		logger:   logger,
		pending:  newPendingMap(),
		jobs:     make(chan net.Conn, defaultWorkerCount*4),
		pairs:    make(chan *Pair, defaultWorkerCount),
		workers:  defaultWorkerCount,
	}
}

// Run drives accept, worker, reaper, and forwarding loops until ctx is
// cancelled or the listener fails. It always returns a non-nil error;
// context.Canceled means a clean, caller-requested shutdown.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < s.workers; i++ {
		g.Go(func() error { return s.workerLoop(gctx) })
	}
	g.Go(func() error { return s.reactorLoop(gctx) })
	g.Go(func() error { return s.reapLoop(gctx) })
	g.Go(func() error { return s.acceptLoop(gctx) })

	return g.Wait()
}

// acceptLoop is the reactor's accept side: it never performs any read on
// an accepted socket itself, only hands it to the worker pool.
func (s *Server) acceptLoop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("relay: accept: %w", err)
		}
		select {
		case s.jobs <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return ctx.Err()
		}
	}
}

// workerLoop is one member of the fixed pre-pairing pool: it performs the
// bounded blocking read of the Connect envelope and the identifier-map
// update, then hands any completed pair to the reactor over s.pairs.
func (s *Server) workerLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case conn, ok := <-s.jobs:
			if !ok {
				return nil
			}
			s.handleConn(ctx, conn)
		}
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	c, raw, err := readConnect(conn)
	if err != nil {
		s.logger.Printf("relay: dropping connection: %v", err)
		_ = conn.Close()
		return
	}

	pair, err := s.pending.connect(c.ID, c.Direction, conn, raw)
	if err != nil {
		s.logger.Printf("relay: %s: %v", c.ID, err)
		_ = conn.Close()
		return
	}
	if pair == nil {
		// Registered as the pending sender; the eventual receiver (or
		// the reaper) decides this connection's fate.
		return
	}

	select {
	case s.pairs <- pair:
	case <-ctx.Done():
		pair.Close()
	}
}

// reactorLoop owns completed pairs: it launches their bidirectional
// forwarding and otherwise does no blocking I/O of its own.
func (s *Server) reactorLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pair, ok := <-s.pairs:
			if !ok {
				return nil
			}
			go forwardPair(pair, s.logger)
		}
	}
}

// reapLoop evicts pending senders that waited past pendingTimeout with no
// matching receiver.
func (s *Server) reapLoop(ctx context.Context) error {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, conn := range s.pending.reap() {
				s.logger.Printf("relay: reaping stale pending sender")
				_ = conn.Close()
			}
		}
	}
}
