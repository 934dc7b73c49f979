package presentation

import (
	"context"
	"fmt"
	"time"

	"portal/application"
	"portal/session"
	"portal/wire"
)

// StartSend dials relayAddr, mints a fresh rendezvous code, prints it for
// the user to share out of band, and drives one sender session through to
// completion. ctx cancellation closes the connection and unwinds any
// blocked read or write. dialTimeout bounds only the initial connect to the
// relay, not the handshake or transfer that follows.
func StartSend(ctx context.Context, relayAddr string, dialTimeout time.Duration, paths []string, logger application.Logger) error {
	identifier, passphrase, err := generateCode()
	if err != nil {
		return err
	}
	fmt.Printf("📦 Share this code with the receiver: %s\n", formatCode(identifier, passphrase))

	conn, err := dialRelay(ctx, relayAddr, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	stopWatch := watchCancellation(ctx, conn)
	defer stopWatch()

	sess, err := session.New(conn, wire.Sender, identifier, []byte(passphrase), logger)
	if err != nil {
		return err
	}

	fmt.Println("🔑 Waiting for receiver...")
	if err := sess.Handshake(); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	fmt.Println("🤝 Handshake complete, sending manifest...")

	progress := printProgress("📤")
	if err := sess.SendManifest(paths, progress); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	fmt.Println("\n✅ Transfer complete")
	return sess.Close()
}
