//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package probe

// OpenRawConn is not available on this platform.
func OpenRawConn() (Conn, error) {
	return nil, ErrUnsupported
}
