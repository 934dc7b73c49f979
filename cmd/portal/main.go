// Command portal is the Portal CLI: send or receive a set of files through
// a rendezvous relay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"syscall"

	"portal/application"
	"portal/config"
	"portal/logging"
	"portal/presentation"
	"portal/settings"
)

const (
	PackageName = "portal"
	SendMode    = "send"
	RecvMode    = "recv"
	SendIcon    = "📤"
	RecvIcon    = "📥"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigCh
		fmt.Println("\n⏹️  Interrupt received. Shutting down...")
		appCtxCancel()
	}()

	logger := logging.NewLogLogger()

	cfg, err := loadConfig(config.NewManager())
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if cfg.Encryption != settings.ChaCha20Poly1305 {
		fmt.Printf("❌ unsupported encryption algorithm in configuration: %v\n", cfg.Encryption)
		os.Exit(1)
	}

	switch os.Args[1] {
	case SendMode:
		runSend(appCtx, cfg, logger)
	case RecvMode:
		runRecv(appCtx, cfg, logger)
	default:
		fmt.Printf("❌ Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig reads the persisted client configuration, bootstrapping and
// persisting a fresh default one on first run.
func loadConfig(manager config.ClientConfigurationManager) (*config.Configuration, error) {
	cfg, err := manager.Configuration()
	if err == nil {
		return cfg, nil
	}

	homeDir := defaultDownloadDir()
	fresh := config.Default(homeDir)
	if writeErr := manager.Write(&fresh); writeErr != nil {
		return nil, fmt.Errorf("create default configuration: %w", writeErr)
	}
	return &fresh, nil
}

func runSend(ctx context.Context, cfg *config.Configuration, logger application.Logger) {
	args, relayAddr := extractRelayFlag(os.Args[2:], cfg)
	if len(args) == 0 {
		fmt.Println("❌ send requires at least one file or directory path")
		printUsage()
		os.Exit(1)
	}

	fmt.Printf("%s Starting send...\n", SendIcon)
	if err := presentation.StartSend(ctx, relayAddr, cfg.DialTimeoutMs.Duration(), args, logger); err != nil {
		fmt.Printf("❌ send failed: %v\n", err)
		os.Exit(1)
	}
}

func runRecv(ctx context.Context, cfg *config.Configuration, logger application.Logger) {
	args, relayAddr := extractRelayFlag(os.Args[2:], cfg)
	args, downloadDir := extractDownloadDirFlag(args)
	if downloadDir == "" {
		downloadDir = cfg.DownloadDir
	}
	if len(args) != 1 {
		fmt.Println("❌ recv requires exactly one code argument")
		printUsage()
		os.Exit(1)
	}

	fmt.Printf("%s Starting recv...\n", RecvIcon)
	if err := presentation.StartRecv(ctx, relayAddr, args[0], downloadDir, cfg.DialTimeoutMs.Duration(), logger); err != nil {
		fmt.Printf("❌ recv failed: %v\n", err)
		os.Exit(1)
	}
}

// extractRelayFlag pulls a "--relay host:port" pair out of args, returning
// the remaining positional arguments and the relay address to use (the
// configured host:port if the flag was absent).
func extractRelayFlag(args []string, cfg *config.Configuration) (rest []string, relayAddr string) {
	rest, value := extractFlagValue(args, "--relay")
	if value != "" {
		return rest, value
	}
	return rest, cfg.RelayHost + ":" + strconv.Itoa(cfg.RelayPort)
}

// extractDownloadDirFlag pulls a "--download-dir DIR" pair out of args.
func extractDownloadDirFlag(args []string) (rest []string, dir string) {
	return extractFlagValue(args, "--download-dir")
}

// extractFlagValue removes every "name value" pair from args and returns
// the remaining arguments alongside the last value found, if any.
func extractFlagValue(args []string, name string) (rest []string, value string) {
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return rest, value
}

func defaultDownloadDir() string {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	return "."
}

func printUsage() {
	fmt.Printf(`Usage: %s <command> [arguments]
Commands:
  %s <paths...> [--relay host:port]                  %s
  %s <code> [--download-dir DIR] [--relay host:port]  %s
`, PackageName, SendMode, SendIcon, RecvMode, RecvIcon)
}
