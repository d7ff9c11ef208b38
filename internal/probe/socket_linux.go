//go:build linux

package probe

import "golang.org/x/sys/unix"

// icmpFilter is ICMP_FILTER from linux/icmp.h.
const icmpFilter = 1

// setICMPFilter blocks every ICMP type except Echo Reply and Destination
// Unreachable. Without it the kernel's copy of our own Echo Request to a local
// address would be the first datagram queued on the socket.
func setICMPFilter(fd int) error {
	var pass uint32 = 1<<ICMPv4EchoReply | 1<<ICMPv4Unreachable
	return unix.SetsockoptInt(fd, unix.SOL_RAW, icmpFilter, int(int32(^pass)))
}
