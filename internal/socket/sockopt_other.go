//go:build !unix

package socket

import (
	"net"
	"syscall"
)

// setReuseAddr is a no-op on platforms without SO_REUSEADDR semantics
// matching unix's; Windows permits rebinding a UDP port by default.
func setReuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}

// enableBroadcast is a no-op outside unix; Windows does not gate broadcast
// sends behind a socket option the way BSD sockets do.
func enableBroadcast(_ *net.UDPConn) error {
	return nil
}
