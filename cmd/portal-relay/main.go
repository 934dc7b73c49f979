// Command portal-relay runs the untrusted rendezvous relay: it pairs two
// Portal peers by identifier and splices bytes between them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"portal/logging"
	"portal/presentation"
	"portal/settings"
)

// listenAddress returns the address to bind: the sole positional argument
// if one was given, otherwise the compiled-in default port on all
// interfaces.
func listenAddress() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return fmt.Sprintf(":%d", settings.DefaultRelayPort)
}

func main() {
	addr := listenAddress()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigCh
		fmt.Println("\n⏹️  Interrupt received. Shutting down...")
		cancel()
	}()

	logger := logging.NewLogLogger()
	if err := presentation.StartRelay(ctx, addr, logger); err != nil {
		fmt.Printf("❌ relay: %v\n", err)
		os.Exit(1)
	}
}
