package probe

// Checksum calculates the Internet Checksum (RFC 1071) of data.
// An odd trailing byte is treated as the high byte of a zero-padded word,
// so an empty buffer yields 0xFFFF.
func Checksum(data []byte) uint16 {
	return ^fold(sum(data))
}

// ValidateChecksum verifies a buffer that already carries its checksum.
// The folded sum of a correctly checksummed buffer is 0xFFFF.
func ValidateChecksum(data []byte) bool {
	return fold(sum(data)) == 0xffff
}

// sum adds data as big-endian 16-bit words.
func sum(data []byte) uint32 {
	var s uint32

	for i := 0; i < len(data)-1; i += 2 {
		s += uint32(data[i])<<8 | uint32(data[i+1])
	}

	// Add left-over byte, if any (pad with zero)
	if len(data)%2 == 1 {
		s += uint32(data[len(data)-1]) << 8
	}

	return s
}

// fold folds carries out of the 32-bit accumulator until none remain.
func fold(s uint32) uint16 {
	for s > 0xffff {
		s = (s >> 16) + (s & 0xffff)
	}
	return uint16(s)
}
