package probe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"

	"golang.org/x/net/ipv4"
)

// Echo message layout.
const (
	// EchoHeaderLen is the ICMP echo header size: type, code, checksum, id, seq
	EchoHeaderLen = 8

	// MarkerLen is the size of the fixed marker at the start of the payload
	MarkerLen = 8

	// FillerLen is the size of the filler that follows the marker
	FillerLen = 56

	// PayloadLen is the full echo payload size
	PayloadLen = MarkerLen + FillerLen

	// EchoRequestLen is the size of every request sent, and of every reply accepted
	EchoRequestLen = EchoHeaderLen + PayloadLen
)

// ICMP message types for IPv4
const (
	ICMPv4EchoReply   = uint8(ipv4.ICMPTypeEchoReply)
	ICMPv4Unreachable = uint8(ipv4.ICMPTypeDestinationUnreachable)
	ICMPv4EchoRequest = uint8(ipv4.ICMPTypeEcho)
)

// Marker opens the payload of every request. A reply must echo it byte for byte.
var Marker = [MarkerLen]byte{'e', 'c', 'h', 'o', 'c', 'h', 'k', 0x00}

// EchoHeader is the fixed 8-byte ICMP echo header.
type EchoHeader struct {
	Type       uint8
	Code       uint8
	Checksum   uint16
	Identifier uint16
	Sequence   uint16
}

// MarshalTo writes the header into b, which must hold EchoHeaderLen bytes.
func (h *EchoHeader) MarshalTo(b []byte) {
	_ = b[EchoHeaderLen-1]
	b[0] = h.Type
	b[1] = h.Code
	binary.BigEndian.PutUint16(b[2:4], h.Checksum)
	binary.BigEndian.PutUint16(b[4:6], h.Identifier)
	binary.BigEndian.PutUint16(b[6:8], h.Sequence)
}

// ParseEchoHeader decodes an echo header from the start of b.
func ParseEchoHeader(b []byte) (EchoHeader, error) {
	if len(b) < EchoHeaderLen {
		return EchoHeader{}, &ParseError{Layer: "icmp", Need: EchoHeaderLen, Got: len(b)}
	}

	return EchoHeader{
		Type:       b[0],
		Code:       b[1],
		Checksum:   binary.BigEndian.Uint16(b[2:4]),
		Identifier: binary.BigEndian.Uint16(b[4:6]),
		Sequence:   binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// EchoMessage is an ICMP Echo Request or Reply with its payload.
type EchoMessage struct {
	EchoHeader
	Payload []byte
}

// NewEchoRequest creates an Echo Request carrying the standard payload.
func NewEchoRequest(id, seq uint16) *EchoMessage {
	return &EchoMessage{
		EchoHeader: EchoHeader{
			Type:       ICMPv4EchoRequest,
			Code:       0,
			Identifier: id,
			Sequence:   seq,
		},
		Payload: EchoPayload(),
	}
}

// EchoPayload returns the marker followed by the filler.
func EchoPayload() []byte {
	payload := make([]byte, PayloadLen)
	copy(payload, Marker[:])
	for i := MarkerLen; i < PayloadLen; i++ {
		payload[i] = byte(i)
	}
	return payload
}

// Marshal serializes the message, computing the checksum with the field zeroed.
func (m *EchoMessage) Marshal() ([]byte, error) {
	buf := make([]byte, EchoHeaderLen+len(m.Payload))

	m.Checksum = 0
	m.MarshalTo(buf)
	copy(buf[EchoHeaderLen:], m.Payload)

	m.Checksum = Checksum(buf)
	binary.BigEndian.PutUint16(buf[2:4], m.Checksum)

	return buf, nil
}

// ParseEchoMessage decodes an ICMP echo message. The payload is copied.
func ParseEchoMessage(b []byte) (*EchoMessage, error) {
	h, err := ParseEchoHeader(b)
	if err != nil {
		return nil, err
	}

	m := &EchoMessage{EchoHeader: h}
	if len(b) > EchoHeaderLen {
		m.Payload = make([]byte, len(b)-EchoHeaderLen)
		copy(m.Payload, b[EchoHeaderLen:])
	}

	return m, nil
}

// IsEchoReply checks if this is an ICMP Echo Reply.
func (m *EchoMessage) IsEchoReply() bool {
	return m.Type == ICMPv4EchoReply
}

// Marker returns the leading MarkerLen bytes of the payload, or nil if shorter.
func (m *EchoMessage) Marker() []byte {
	if len(m.Payload) < MarkerLen {
		return nil
	}
	return m.Payload[:MarkerLen]
}

// ParseIPv4Header returns the header length and source address of the IPv4
// datagram in b. The header length is the low nibble of the first byte times four.
func ParseIPv4Header(b []byte) (int, netip.Addr, error) {
	if len(b) < ipv4.HeaderLen {
		return 0, netip.Addr{}, &ParseError{Layer: "ipv4", Need: ipv4.HeaderLen, Got: len(b)}
	}
	if v := b[0] >> 4; v != ipv4.Version {
		return 0, netip.Addr{}, &ParseError{Layer: "ipv4", Reason: fmt.Sprintf("version %d", v)}
	}

	hdrLen := int(b[0]&0x0f) * 4
	if hdrLen < ipv4.HeaderLen {
		return 0, netip.Addr{}, &ParseError{Layer: "ipv4", Reason: fmt.Sprintf("header length %d", hdrLen)}
	}
	if len(b) < hdrLen {
		return 0, netip.Addr{}, &ParseError{Layer: "ipv4", Need: hdrLen, Got: len(b)}
	}

	return hdrLen, netip.AddrFrom4([4]byte(b[12:16])), nil
}

// EchoReply is a view over one received datagram. It aliases the receive
// buffer and must not be kept past the receive call.
type EchoReply struct {
	// Source is the sender address from the IPv4 header
	Source netip.Addr

	// ICMP is the ICMP header and payload, without the IPv4 header
	ICMP []byte
}

// ParseEchoReply locates the ICMP part of a raw IPv4 datagram.
func ParseEchoReply(datagram []byte) (*EchoReply, error) {
	hdrLen, src, err := ParseIPv4Header(datagram)
	if err != nil {
		return nil, err
	}

	return &EchoReply{
		Source: src,
		ICMP:   datagram[hdrLen:],
	}, nil
}

// Match reports whether the reply answers req. It returns nil on a match, a
// *ParseError if the ICMP header is truncated, and an error wrapping
// ErrReplyMismatch otherwise.
func (r *EchoReply) Match(req *EchoMessage) error {
	h, err := ParseEchoHeader(r.ICMP)
	if err != nil {
		return err
	}

	want := EchoHeaderLen + len(req.Payload)

	var marker []byte
	if len(r.ICMP) >= EchoHeaderLen+MarkerLen {
		marker = r.ICMP[EchoHeaderLen : EchoHeaderLen+MarkerLen]
	}

	switch {
	case len(r.ICMP) != want:
		return fmt.Errorf("%w: length %d, want %d", ErrReplyMismatch, len(r.ICMP), want)
	case h.Type != ICMPv4EchoReply:
		return fmt.Errorf("%w: type %d", ErrReplyMismatch, h.Type)
	case h.Identifier != req.Identifier:
		return fmt.Errorf("%w: identifier %d, want %d", ErrReplyMismatch, h.Identifier, req.Identifier)
	case h.Sequence != req.Sequence:
		return fmt.Errorf("%w: sequence %d, want %d", ErrReplyMismatch, h.Sequence, req.Sequence)
	case !bytes.Equal(marker, req.Marker()):
		return fmt.Errorf("%w: marker differs", ErrReplyMismatch)
	case !ValidateChecksum(r.ICMP):
		return fmt.Errorf("%w: bad checksum 0x%04x", ErrReplyMismatch, h.Checksum)
	}

	return nil
}
