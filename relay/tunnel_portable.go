//go:build !linux

package relay

import (
	"io"
	"net"
)

// copyBufferSize matches spliceChunk on the Linux path so the backpressure
// contract (bounded per-direction buffer size) is the same in spirit,
// even without a kernel pipe backing it.
const copyBufferSize = 512 * 1024

// runTunnel moves bytes from src to dst with a buffered copy loop. dst's
// blocking Write naturally provides the backpressure splice(2) gives for
// free on Linux: a slow destination stalls this goroutine's Read from
// src, which is exactly the "propagate block to source" contract.
func runTunnel(src, dst net.Conn) error {
	buf := make([]byte, copyBufferSize)
	_, err := io.CopyBuffer(dst, src, buf)
	return err
}
