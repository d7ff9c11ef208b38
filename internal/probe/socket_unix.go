//go:build linux || darwin || freebsd || netbsd || openbsd

package probe

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"golang.org/x/sys/unix"
)

// rawConn is a Conn over an AF_INET/SOCK_RAW/IPPROTO_ICMP socket.
type rawConn struct {
	fd int
}

// OpenRawConn opens a raw ICMP socket with SO_RCVTIMEO set to ReplyTimeout.
func OpenRawConn() (Conn, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_ICMP)
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, fmt.Errorf("%w (%v)", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("open raw socket: %w", err)
	}
	unix.CloseOnExec(fd)

	tv := unix.NsecToTimeval(ReplyTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set receive timeout: %w", err)
	}

	if err := setICMPFilter(fd); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set icmp filter: %w", err)
	}

	return &rawConn{fd: fd}, nil
}

// WriteTo sends b to dst.
func (c *rawConn) WriteTo(b []byte, dst netip.Addr) (int, error) {
	if c.fd < 0 {
		return 0, ErrSocketClosed
	}
	dst = dst.Unmap()
	if !dst.Is4() {
		return 0, ErrNotIPv4
	}

	for {
		n, err := unix.SendmsgN(c.fd, b, nil, &unix.SockaddrInet4{Addr: dst.As4()}, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

// WaitReadable polls the socket for POLLIN.
func (c *rawConn) WaitReadable(timeout time.Duration) (bool, error) {
	if c.fd < 0 {
		return false, ErrSocketClosed
	}

	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLIN}}

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}

		ms := int((remaining + time.Millisecond - 1) / time.Millisecond)
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return false, ErrSocketClosed
		}
		return true, nil
	}
}

// Read performs one recvfrom. EAGAIN from SO_RCVTIMEO is reported as ErrTimeout.
func (c *rawConn) Read(b []byte) (int, error) {
	if c.fd < 0 {
		return 0, ErrSocketClosed
	}

	for {
		n, _, err := unix.Recvfrom(c.fd, b, 0)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
			return 0, ErrTimeout
		case err != nil:
			return 0, err
		}
		return n, nil
	}
}

// Close closes the socket. Closing twice returns ErrSocketClosed.
func (c *rawConn) Close() error {
	if c.fd < 0 {
		return ErrSocketClosed
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}
