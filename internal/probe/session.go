package probe

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/netip"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/KilimcininKorOglu/echocheck/internal/logger"
)

// protocolICMP is the IANA protocol number for ICMPv4.
const protocolICMP = 1

// recvBufferSize holds any datagram on a standard Ethernet MTU.
const recvBufferSize = 1500

// Session owns one raw socket and probes one IPv4 target with a fixed
// identifier. It is not safe for concurrent use.
type Session struct {
	conn       Conn
	target     netip.Addr
	identifier uint16
	logger     *slog.Logger
	buf        []byte
}

// SessionConfig holds configuration for a Session.
type SessionConfig struct {
	// Target is the IPv4 address to probe
	Target netip.Addr

	// Identifier is the ICMP identifier; if 0 a random one is chosen
	Identifier uint16

	// Open creates the socket; if nil OpenRawConn is used
	Open Opener

	// Logger receives per-probe debug records; if nil nothing is logged
	Logger *slog.Logger
}

// OpenSession validates the target and opens the socket. On error no socket
// remains open.
func OpenSession(config SessionConfig) (*Session, error) {
	target := config.Target.Unmap()
	if !target.Is4() {
		return nil, fmt.Errorf("%w: %s", ErrNotIPv4, config.Target)
	}

	open := config.Open
	if open == nil {
		open = OpenRawConn
	}

	conn, err := open()
	if err != nil {
		return nil, err
	}

	return NewSession(conn, target, config.Identifier, config.Logger), nil
}

// NewSession wraps an already open Conn. The Session takes ownership of conn.
func NewSession(conn Conn, target netip.Addr, identifier uint16, log *slog.Logger) *Session {
	target = target.Unmap()
	for identifier == 0 {
		identifier = uint16(rand.Uint32())
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Session{
		conn:       conn,
		target:     target,
		identifier: identifier,
		logger:     log.With(slog.String("target", target.String()), slog.Int("id", int(identifier))),
		buf:        make([]byte, recvBufferSize),
	}
}

// Identifier returns the ICMP identifier used by every request of the session.
func (s *Session) Identifier() uint16 {
	return s.identifier
}

// Target returns the probed address.
func (s *Session) Target() netip.Addr {
	return s.target
}

// SendAndAwaitReply sends one Echo Request with sequence seq and reports
// whether a matching reply arrived within ReplyTimeout.
func (s *Session) SendAndAwaitReply(seq uint16) bool {
	outcome, _ := s.Probe(seq)
	return outcome.OK()
}

// Probe sends one Echo Request and performs exactly one receive. The error
// is nil only for OutcomeOK.
func (s *Session) Probe(seq uint16) (Outcome, error) {
	outcome, err := s.probe(seq)
	if err != nil {
		s.logger.Debug("probe failed", "seq", seq, "outcome", outcome, "error", err)
	} else {
		s.logger.Debug("probe ok", "seq", seq)
	}
	return outcome, err
}

func (s *Session) probe(seq uint16) (Outcome, error) {
	req := NewEchoRequest(s.identifier, seq)
	pkt, err := req.Marshal()
	if err != nil {
		return OutcomeSendFailed, err
	}

	n, err := s.conn.WriteTo(pkt, s.target)
	if err != nil {
		return OutcomeSendFailed, fmt.Errorf("send seq %d: %w", seq, err)
	}
	if n != len(pkt) {
		return OutcomeSendFailed, fmt.Errorf("send seq %d: %w: %d of %d bytes", seq, ErrShortWrite, n, len(pkt))
	}

	ready, err := s.conn.WaitReadable(ReplyTimeout)
	if err != nil {
		return OutcomeRecvFailed, fmt.Errorf("wait seq %d: %w", seq, err)
	}
	if !ready {
		return OutcomeTimeout, fmt.Errorf("seq %d: %w", seq, ErrTimeout)
	}

	n, err = s.conn.Read(s.buf)
	if err != nil {
		if IsTimeout(err) {
			return OutcomeTimeout, fmt.Errorf("seq %d: %w", seq, err)
		}
		return OutcomeRecvFailed, fmt.Errorf("receive seq %d: %w", seq, err)
	}

	return s.validate(req, s.buf[:n])
}

// validate checks one received datagram against the request.
func (s *Session) validate(req *EchoMessage, datagram []byte) (Outcome, error) {
	reply, err := ParseEchoReply(datagram)
	if err != nil {
		return OutcomeMalformed, err
	}

	err = reply.Match(req)
	switch {
	case err == nil:
		return OutcomeOK, nil
	case errors.Is(err, ErrInvalidPacket):
		return OutcomeMalformed, err
	case quotesRequest(reply.ICMP, req):
		return OutcomeUnreachable, fmt.Errorf("%w: reported by %s", ErrHostUnreachable, reply.Source)
	}

	return OutcomeMismatch, err
}

// quotesRequest reports whether b is a Destination Unreachable message whose
// quoted datagram is req.
func quotesRequest(b []byte, req *EchoMessage) bool {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil || msg.Type != ipv4.ICMPTypeDestinationUnreachable {
		return false
	}

	body, ok := msg.Body.(*icmp.DstUnreach)
	if !ok {
		return false
	}

	hdrLen, _, err := ParseIPv4Header(body.Data)
	if err != nil {
		return false
	}

	orig, err := ParseEchoHeader(body.Data[hdrLen:])
	if err != nil {
		return false
	}

	return orig.Type == ICMPv4EchoRequest &&
		orig.Identifier == req.Identifier &&
		orig.Sequence == req.Sequence
}

// Close closes the socket.
func (s *Session) Close() error {
	return s.conn.Close()
}
