// Package probe implements the ICMP echo engine: the echo packet codec,
// the raw socket transport and the single-probe transceiver.
package probe

import (
	"net/netip"
	"time"
)

// ReplyTimeout bounds the wait for each reply. It is also installed as the
// socket receive timeout.
const ReplyTimeout = time.Second

// Conn is a raw ICMPv4 endpoint. A Conn is owned by exactly one Session and
// is never shared between goroutines.
type Conn interface {
	// WriteTo sends one ICMP message to dst and returns the number of bytes
	// the kernel accepted.
	WriteTo(b []byte, dst netip.Addr) (int, error)

	// WaitReadable blocks until a datagram is queued or timeout elapses.
	// It reports false on timeout without consuming anything.
	WaitReadable(timeout time.Duration) (bool, error)

	// Read receives one IPv4 datagram, IP header included.
	Read(b []byte) (int, error)

	// Close releases the socket.
	Close() error
}

// Opener creates a Conn.
type Opener func() (Conn, error)

// Outcome classifies the result of a probe or of a whole check.
type Outcome int

const (
	// OutcomeNone means no probe has finished yet
	OutcomeNone Outcome = iota
	// OutcomeOK means a matching Echo Reply was received
	OutcomeOK
	// OutcomeTimeout means nothing arrived within ReplyTimeout
	OutcomeTimeout
	// OutcomeUnreachable means a Destination Unreachable quoted our request
	OutcomeUnreachable
	// OutcomeMismatch means a datagram arrived but did not answer our request
	OutcomeMismatch
	// OutcomeMalformed means a datagram arrived that could not be parsed
	OutcomeMalformed
	// OutcomeSendFailed means the request could not be transmitted in full
	OutcomeSendFailed
	// OutcomeRecvFailed means the socket reported an error while receiving
	OutcomeRecvFailed
	// OutcomeSocketFailed means the raw socket could not be opened or configured
	OutcomeSocketFailed
	// OutcomePermissionDenied means raw sockets need more privileges
	OutcomePermissionDenied
	// OutcomeResolveFailed means the target had no IPv4 address
	OutcomeResolveFailed
	// OutcomeInvalidCount means the probe count was outside [1,255]
	OutcomeInvalidCount
	// OutcomeCancelled means the context ended before all probes ran
	OutcomeCancelled
)

var outcomeNames = [...]string{
	OutcomeNone:             "none",
	OutcomeOK:               "ok",
	OutcomeTimeout:          "timeout",
	OutcomeUnreachable:      "unreachable",
	OutcomeMismatch:         "mismatch",
	OutcomeMalformed:        "malformed",
	OutcomeSendFailed:       "send-failed",
	OutcomeRecvFailed:       "recv-failed",
	OutcomeSocketFailed:     "socket-failed",
	OutcomePermissionDenied: "permission-denied",
	OutcomeResolveFailed:    "resolve-failed",
	OutcomeInvalidCount:     "invalid-count",
	OutcomeCancelled:        "cancelled",
}

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o == OutcomeOK
}
