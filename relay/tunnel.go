package relay

import (
	"fmt"

	"portal/application"
)

// forwardPair delivers each side's Connect envelope to its peer, then
// runs both directions concurrently until either one finishes (its
// source reached EOF and drained fully into its destination) or fails,
// then tears down both sockets so the other direction's blocked syscalls
// unwind too.
func forwardPair(p *Pair, logger application.Logger) {
	defer p.Close()

	if err := deliverConnect(p); err != nil {
		logger.Printf("relay: %v", err)
		return
	}

	done := make(chan error, 2)
	go func() { done <- runTunnel(p.Sender, p.Receiver) }()
	go func() { done <- runTunnel(p.Receiver, p.Sender) }()

	if err := <-done; err != nil {
		logger.Printf("relay: tunnel ended: %v", err)
	}
	p.Close()
	<-done
}

// deliverConnect writes each side's captured Connect envelope to its
// peer, mirroring the pre-written Connect bytes a real splice pipe would
// carry across before either tunnel direction starts draining.
func deliverConnect(p *Pair) error {
	if _, err := p.Receiver.Write(p.SenderConnect); err != nil {
		return fmt.Errorf("deliver sender connect to receiver: %w", err)
	}
	if _, err := p.Sender.Write(p.ReceiverConnect); err != nil {
		return fmt.Errorf("deliver receiver connect to sender: %w", err)
	}
	return nil
}
