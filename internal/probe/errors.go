package probe

import (
	"errors"
	"fmt"
)

// Probe-related errors.
var (
	// ErrTimeout indicates no reply arrived within the reply timeout
	ErrTimeout = errors.New("probe timeout")

	// ErrPermissionDenied indicates insufficient privileges for raw sockets
	ErrPermissionDenied = errors.New("permission denied: raw socket requires elevated privileges")

	// ErrHostUnreachable indicates an ICMP Destination Unreachable quoted our request
	ErrHostUnreachable = errors.New("destination host unreachable")

	// ErrInvalidPacket indicates a datagram too short or malformed to parse
	ErrInvalidPacket = errors.New("invalid packet received")

	// ErrReplyMismatch indicates a well-formed datagram that is not the reply to our request
	ErrReplyMismatch = errors.New("reply does not match request")

	// ErrShortWrite indicates the kernel accepted fewer bytes than the request size
	ErrShortWrite = errors.New("short write")

	// ErrSocketClosed indicates the socket has been closed
	ErrSocketClosed = errors.New("socket closed")

	// ErrNotIPv4 indicates the target is not an IPv4 address
	ErrNotIPv4 = errors.New("target is not an IPv4 address")

	// ErrUnsupported indicates raw ICMP sockets are not available on this platform
	ErrUnsupported = errors.New("raw ICMP sockets are not supported on this platform")
)

// ParseError describes a datagram that could not be decoded.
type ParseError struct {
	// Layer is the header being decoded ("ipv4" or "icmp")
	Layer string
	// Need is the minimum number of bytes required
	Need int
	// Got is the number of bytes available
	Got int
	// Reason is set for failures other than truncation
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Layer, e.Reason)
	}
	return fmt.Sprintf("%s: truncated header: need %d bytes, got %d", e.Layer, e.Need, e.Got)
}

// Unwrap allows errors.Is(err, ErrInvalidPacket).
func (e *ParseError) Unwrap() error {
	return ErrInvalidPacket
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsPermissionError returns true if the error is a permission error.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
