//go:build linux || darwin || freebsd || netbsd || openbsd

package probe

import (
	"errors"
	"net/netip"
	"os"
	"testing"
	"time"
)

// canCreateRawSocket checks if we can create raw ICMP sockets.
func canCreateRawSocket() bool {
	return os.Getuid() == 0
}

func openTestSession(t *testing.T, target string) *Session {
	t.Helper()

	if !canCreateRawSocket() {
		t.Skip("Skipping: requires elevated privileges")
	}

	s, err := OpenSession(SessionConfig{Target: netip.MustParseAddr(target)})
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRawConn_Loopback(t *testing.T) {
	s := openTestSession(t, "127.0.0.1")

	for seq := uint16(1); seq <= 3; seq++ {
		outcome, err := s.Probe(seq)
		if outcome != OutcomeOK {
			t.Fatalf("Probe(%d) = %v, %v; want ok", seq, outcome, err)
		}
	}
}

func TestRawConn_NoReply(t *testing.T) {
	s := openTestSession(t, "192.0.2.1") // TEST-NET-1, should not respond

	start := time.Now()
	outcome, err := s.Probe(1)
	elapsed := time.Since(start)

	if outcome == OutcomeOK {
		t.Skip("Skipping: 192.0.2.1 answers echo requests on this network")
	}

	switch outcome {
	case OutcomeTimeout, OutcomeSendFailed, OutcomeUnreachable:
	default:
		t.Errorf("Probe() = %v, %v; want a failure", outcome, err)
	}
	if elapsed > ReplyTimeout+500*time.Millisecond {
		t.Errorf("Probe() took %v, want at most about %v", elapsed, ReplyTimeout)
	}
}

func TestRawConn_CloseTwice(t *testing.T) {
	if !canCreateRawSocket() {
		t.Skip("Skipping: requires elevated privileges")
	}

	conn, err := OpenRawConn()
	if err != nil {
		t.Fatalf("OpenRawConn() error = %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := conn.Close(); !errors.Is(err, ErrSocketClosed) {
		t.Errorf("second Close() error = %v, want %v", err, ErrSocketClosed)
	}
	if _, err := conn.WriteTo(make([]byte, EchoRequestLen), netip.MustParseAddr("127.0.0.1")); !errors.Is(err, ErrSocketClosed) {
		t.Errorf("WriteTo() after Close error = %v, want %v", err, ErrSocketClosed)
	}
}

func TestOpenRawConn_Unprivileged(t *testing.T) {
	if canCreateRawSocket() {
		t.Skip("Skipping: running with elevated privileges")
	}

	conn, err := OpenRawConn()
	if err == nil {
		// Some systems grant CAP_NET_RAW to unprivileged users.
		conn.Close()
		t.Skip("Skipping: raw sockets are available without root")
	}
	if !IsPermissionError(err) {
		t.Errorf("OpenRawConn() error = %v, want %v", err, ErrPermissionDenied)
	}
}
