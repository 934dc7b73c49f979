package presentation

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"portal/application"
	"portal/session"
	"portal/wire"
)

// StartRecv dials relayAddr using a code the user obtained out of band from
// a sender, prompts for confirmation once the manifest arrives, and drives
// one receiver session through to completion. dialTimeout bounds only the
// initial connect to the relay, not the handshake or transfer that follows.
func StartRecv(ctx context.Context, relayAddr, code, downloadDir string, dialTimeout time.Duration, logger application.Logger) error {
	identifier, passphrase, err := parseCode(code)
	if err != nil {
		return err
	}

	conn, err := dialRelay(ctx, relayAddr, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	stopWatch := watchCancellation(ctx, conn)
	defer stopWatch()

	sess, err := session.New(conn, wire.Receiver, identifier, []byte(passphrase), logger)
	if err != nil {
		return err
	}

	fmt.Println("🔑 Waiting for sender...")
	if err := sess.Handshake(); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	fmt.Println("🤝 Handshake complete, waiting for manifest...")

	progress := printProgress("📥")
	if err := sess.RecvManifest(downloadDir, confirmManifest, progress); err != nil {
		return fmt.Errorf("recv: %w", err)
	}

	fmt.Println("\n✅ Transfer complete")
	return sess.Close()
}

// confirmManifest prints the incoming file list and asks the user to
// accept or reject it before any bytes are written to disk.
func confirmManifest(manifest []application.FileDescriptor) bool {
	fmt.Println("📋 Incoming files:")
	var total uint64
	for _, f := range manifest {
		fmt.Printf("\t%s (%d bytes)\n", f.Name, f.Size)
		total += f.Size
	}
	fmt.Printf("👉 Accept %d file(s), %d bytes total? [y/N]: ", len(manifest), total)

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
