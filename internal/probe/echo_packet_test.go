package probe

import (
	"bytes"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// buildDatagram serializes an IPv4 datagram carrying one ICMPv4 message.
func buildDatagram(t testing.TB, typ uint8, id, seq uint16, payload []byte) []byte {
	t.Helper()

	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolICMPv4,
		SrcIP:    net.IP{192, 0, 2, 10},
		DstIP:    net.IP{192, 0, 2, 20},
	}
	msg := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(typ, 0),
		Id:       id,
		Seq:      seq,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, msg, gopacket.Payload(payload)); err != nil {
		t.Fatalf("SerializeLayers() error = %v", err)
	}
	return buf.Bytes()
}

// buildReply builds the datagram a well-behaved host sends back for req.
func buildReply(t testing.TB, req *EchoMessage) []byte {
	return buildDatagram(t, ICMPv4EchoReply, req.Identifier, req.Sequence, req.Payload)
}

func TestNewEchoRequest(t *testing.T) {
	req := NewEchoRequest(1234, 5678)

	if req.Type != ICMPv4EchoRequest {
		t.Errorf("Type = %d, want %d", req.Type, ICMPv4EchoRequest)
	}
	if req.Code != 0 {
		t.Errorf("Code = %d, want 0", req.Code)
	}
	if req.Identifier != 1234 {
		t.Errorf("Identifier = %d, want 1234", req.Identifier)
	}
	if req.Sequence != 5678 {
		t.Errorf("Sequence = %d, want 5678", req.Sequence)
	}
	if len(req.Payload) != PayloadLen {
		t.Errorf("len(Payload) = %d, want %d", len(req.Payload), PayloadLen)
	}
	if !bytes.Equal(req.Marker(), Marker[:]) {
		t.Errorf("Marker() = %v, want %v", req.Marker(), Marker)
	}
}

func TestEchoMessage_Marshal(t *testing.T) {
	req := NewEchoRequest(0x0102, 0x0304)

	data, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if len(data) != EchoRequestLen {
		t.Fatalf("len(data) = %d, want %d", len(data), EchoRequestLen)
	}

	wantHeader := []byte{0x08, 0x00, byte(req.Checksum >> 8), byte(req.Checksum), 0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(data[:EchoHeaderLen], wantHeader) {
		t.Errorf("header = % x, want % x", data[:EchoHeaderLen], wantHeader)
	}
	if !bytes.Equal(data[EchoHeaderLen:EchoHeaderLen+MarkerLen], Marker[:]) {
		t.Errorf("marker = % x, want % x", data[8:16], Marker)
	}
	if !ValidateChecksum(data) {
		t.Error("Checksum validation failed")
	}

	// Marshal is repeatable: a stale checksum must not leak into the sum.
	again, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("second Marshal() produced different bytes")
	}
}

func TestEchoMessage_MarshalMatchesGopacket(t *testing.T) {
	req := NewEchoRequest(777, 9)
	data, err := req.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	datagram := buildDatagram(t, ICMPv4EchoRequest, 777, 9, req.Payload)
	if !bytes.Equal(data, datagram[20:]) {
		t.Errorf("Marshal() = % x\nwant      % x", data, datagram[20:])
	}
}

func TestParseEchoMessage(t *testing.T) {
	original := NewEchoRequest(1000, 2000)
	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	parsed, err := ParseEchoMessage(data)
	if err != nil {
		t.Fatalf("ParseEchoMessage() error = %v", err)
	}

	if parsed.EchoHeader != original.EchoHeader {
		t.Errorf("header = %+v, want %+v", parsed.EchoHeader, original.EchoHeader)
	}
	if !bytes.Equal(parsed.Payload, original.Payload) {
		t.Errorf("Payload = %v, want %v", parsed.Payload, original.Payload)
	}

	data[EchoHeaderLen] ^= 0xff
	if parsed.Payload[0] == data[EchoHeaderLen] {
		t.Error("ParseEchoMessage() payload aliases the input buffer")
	}
}

func TestParseEchoHeader_TooShort(t *testing.T) {
	_, err := ParseEchoHeader([]byte{1, 2, 3})
	if !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("ParseEchoHeader() error = %v, want %v", err, ErrInvalidPacket)
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseEchoHeader() error type = %T, want *ParseError", err)
	}
	if perr.Need != EchoHeaderLen || perr.Got != 3 {
		t.Errorf("ParseError = %+v, want Need=%d Got=3", perr, EchoHeaderLen)
	}
}

func TestParseIPv4Header(t *testing.T) {
	datagram := buildDatagram(t, ICMPv4EchoReply, 1, 1, nil)

	withOptions := make([]byte, 0, len(datagram)+4)
	withOptions = append(withOptions, datagram[:20]...)
	withOptions = append(withOptions, 0x01, 0x01, 0x01, 0x00) // NOP NOP NOP EOL
	withOptions = append(withOptions, datagram[20:]...)
	withOptions[0] = 0x46

	tests := []struct {
		name    string
		data    []byte
		wantLen int
		wantErr bool
	}{
		{name: "plain header", data: datagram, wantLen: 20},
		{name: "header with options", data: withOptions, wantLen: 24},
		{name: "empty", data: nil, wantErr: true},
		{name: "shorter than minimum", data: datagram[:19], wantErr: true},
		{name: "IHL past end", data: withOptions[:22], wantErr: true},
		{name: "IHL below minimum", data: append([]byte{0x44}, datagram[1:]...), wantErr: true},
		{name: "IPv6 version nibble", data: append([]byte{0x65}, datagram[1:]...), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdrLen, src, err := ParseIPv4Header(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPacket) {
					t.Errorf("ParseIPv4Header() error = %v, want %v", err, ErrInvalidPacket)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIPv4Header() error = %v", err)
			}
			if hdrLen != tt.wantLen {
				t.Errorf("header length = %d, want %d", hdrLen, tt.wantLen)
			}
			if want := netip.MustParseAddr("192.0.2.10"); src != want {
				t.Errorf("source = %s, want %s", src, want)
			}
		})
	}
}

func TestEchoReply_Match(t *testing.T) {
	req := NewEchoRequest(0x4242, 3)
	if _, err := req.Marshal(); err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	flipMarker := append([]byte(nil), req.Payload...)
	flipMarker[MarkerLen-1] ^= 0x01

	flipFiller := append([]byte(nil), req.Payload...)
	flipFiller[PayloadLen-1] ^= 0x01

	corrupt := buildReply(t, req)
	corrupt[len(corrupt)-1] ^= 0x80

	tests := []struct {
		name      string
		datagram  []byte
		wantErr   error
		wantMatch bool
	}{
		{
			name:      "matching reply",
			datagram:  buildReply(t, req),
			wantMatch: true,
		},
		{
			name:      "filler is not compared",
			datagram:  buildDatagram(t, ICMPv4EchoReply, 0x4242, 3, flipFiller),
			wantMatch: true,
		},
		{
			name:     "sequence differs",
			datagram: buildDatagram(t, ICMPv4EchoReply, 0x4242, 4, req.Payload),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "identifier differs",
			datagram: buildDatagram(t, ICMPv4EchoReply, 0x4243, 3, req.Payload),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "own request looped back",
			datagram: buildDatagram(t, ICMPv4EchoRequest, 0x4242, 3, req.Payload),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "marker differs by one byte",
			datagram: buildDatagram(t, ICMPv4EchoReply, 0x4242, 3, flipMarker),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "payload one byte short",
			datagram: buildDatagram(t, ICMPv4EchoReply, 0x4242, 3, req.Payload[:PayloadLen-1]),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "payload one byte long",
			datagram: buildDatagram(t, ICMPv4EchoReply, 0x4242, 3, append(append([]byte(nil), req.Payload...), 0)),
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "bad checksum",
			datagram: corrupt,
			wantErr:  ErrReplyMismatch,
		},
		{
			name:     "truncated ICMP header",
			datagram: buildReply(t, req)[:24],
			wantErr:  ErrInvalidPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseEchoReply(tt.datagram)
			if err != nil {
				t.Fatalf("ParseEchoReply() error = %v", err)
			}

			err = reply.Match(req)
			if tt.wantMatch {
				if err != nil {
					t.Errorf("Match() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Match() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkEchoMessage_Marshal(b *testing.B) {
	req := NewEchoRequest(1, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = req.Marshal()
	}
}

func BenchmarkEchoReply_Match(b *testing.B) {
	req := NewEchoRequest(1, 1)
	datagram := buildReply(b, req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reply, _ := ParseEchoReply(datagram)
		_ = reply.Match(req)
	}
}
