package presentation

import (
	"context"
	"fmt"
	"net"
	"time"

	"portal/application"
)

// dialRelay connects to addr, bounding only the connect itself by timeout;
// cancelling ctx also aborts an in-flight dial.
func dialRelay(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to relay %s: %w", addr, err)
	}
	return conn, nil
}

// watchCancellation closes conn as soon as ctx is done, unblocking
// whatever session call is currently parked in a read or write. The
// returned stop func releases the watcher goroutine when the caller
// finishes normally.
func watchCancellation(ctx context.Context, conn net.Conn) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// printProgress renders a single overwritten status line per call, the
// way the teacher's CLI reports activity without pulling in a TUI library.
func printProgress(icon string) application.ProgressFunc {
	return func(fileName string, bytesDone, fileSize uint64) {
		fmt.Printf("\r%s %s: %d/%d bytes", icon, fileName, bytesDone, fileSize)
	}
}
