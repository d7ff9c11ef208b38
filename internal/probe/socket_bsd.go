//go:build darwin || freebsd || netbsd || openbsd

package probe

// setICMPFilter is a no-op: BSD raw sockets have no ICMP_FILTER.
func setICMPFilter(fd int) error {
	return nil
}
