//go:build linux

package relay

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// spliceChunk is the maximum number of bytes moved by one splice(2) call,
// and the size requested for the intermediate pipe's kernel buffer.
const spliceChunk = 512 * 1024

// runTunnel moves bytes from src to dst via splice(2) through an
// intermediate, non-blocking pipe, parking this goroutine in epoll_wait
// whenever neither direction can make progress. It returns nil once src
// has reached EOF and every buffered byte has drained into dst.
func runTunnel(src, dst net.Conn) error {
	srcFile, err := connFile(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	dstFile, err := connFile(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	srcFd, dstFd := int(srcFile.Fd()), int(dstFile.Fd())
	if err := unix.SetNonblock(srcFd, true); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := unix.SetNonblock(dstFd, true); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fmt.Errorf("%w: pipe2: %v", ErrIO, err)
	}
	pr, pw := fds[0], fds[1]
	defer unix.Close(pr)
	_, _ = unix.FcntlInt(uintptr(pw), unix.F_SETPIPE_SZ, spliceChunk)

	ep, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		unix.Close(pw)
		return fmt.Errorf("%w: epoll_create1: %v", ErrIO, err)
	}
	defer unix.Close(ep)

	if err := unix.EpollCtl(ep, unix.EPOLL_CTL_ADD, srcFd, &unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLERR | unix.EPOLLHUP, Fd: int32(srcFd),
	}); err != nil {
		unix.Close(pw)
		return fmt.Errorf("%w: epoll_ctl src: %v", ErrIO, err)
	}
	if err := unix.EpollCtl(ep, unix.EPOLL_CTL_ADD, dstFd, &unix.EpollEvent{
		Events: unix.EPOLLOUT | unix.EPOLLERR | unix.EPOLLHUP, Fd: int32(dstFd),
	}); err != nil {
		unix.Close(pw)
		return fmt.Errorf("%w: epoll_ctl dst: %v", ErrIO, err)
	}

	sourceFinished := false
	pipeWriterOpen := true
	defer func() {
		if pipeWriterOpen {
			unix.Close(pw)
		}
	}()

	for {
		progressed := false

		if !sourceFinished {
			n, serr := unix.Splice(srcFd, nil, pw, nil, spliceChunk, unix.SPLICE_F_MOVE|unix.SPLICE_F_NONBLOCK)
			switch {
			case serr == nil && n == 0:
				sourceFinished = true
				unix.Close(pw)
				pipeWriterOpen = false
			case serr == nil:
				progressed = true
			case errors.Is(serr, unix.EAGAIN) || errors.Is(serr, unix.EWOULDBLOCK):
				// no bytes buffered this pass
			case errors.Is(serr, unix.EBADF), errors.Is(serr, unix.ECONNRESET):
				return nil
			default:
				return fmt.Errorf("%w: splice src->pipe: %v", ErrIO, serr)
			}
		}

		n, derr := unix.Splice(pr, nil, dstFd, nil, spliceChunk, unix.SPLICE_F_MOVE|unix.SPLICE_F_NONBLOCK)
		switch {
		case derr == nil && n == 0:
			return nil
		case derr == nil:
			continue
		case errors.Is(derr, unix.EAGAIN) || errors.Is(derr, unix.EWOULDBLOCK):
			// destination not ready
		case errors.Is(derr, unix.EBADF), errors.Is(derr, unix.EPIPE), errors.Is(derr, unix.ECONNRESET):
			return nil
		default:
			return fmt.Errorf("%w: splice pipe->dst: %v", ErrIO, derr)
		}

		if progressed {
			continue
		}

		var evs [2]unix.EpollEvent
		if _, err := unix.EpollWait(ep, evs[:], -1); err != nil && !errors.Is(err, unix.EINTR) {
			if errors.Is(err, unix.EBADF) {
				return nil
			}
			return fmt.Errorf("%w: epoll_wait: %v", ErrIO, err)
		}
	}
}

// connFile obtains the underlying file descriptor of a TCP connection for
// raw syscall use. The returned *os.File is a dup; its Fd is used, then
// it is closed by the caller once the tunnel no longer needs it.
func connFile(conn net.Conn) (*os.File, error) {
	type fileConn interface {
		File() (*os.File, error)
	}
	fc, ok := conn.(fileConn)
	if !ok {
		return nil, fmt.Errorf("%w: connection type %T has no raw fd", ErrIO, conn)
	}
	f, err := fc.File()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return f, nil
}
