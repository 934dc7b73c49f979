package presentation

import (
	"context"
	"fmt"
	"net"

	"portal/application"
	"portal/relay"
)

// StartRelay listens on listenAddr and runs the rendezvous relay until ctx
// is cancelled.
func StartRelay(ctx context.Context, listenAddr string, logger application.Logger) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}

	fmt.Printf("🌐 Relay listening on %s\n", listenAddr)
	err = relay.NewServer(listener, logger).Run(ctx)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
