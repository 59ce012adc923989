package types

import (
	"fmt"
	"net"
)

// ============================================================================
//                              UDPAddress
// ============================================================================

// UDPAddress is an (IP, port) tuple. It is a plain value type so it can be
// used as a map key directly in the address map, unlike *net.UDPAddr.
type UDPAddress struct {
	IP   [4]byte // IPv4 only — the cluster transport's broadcast model does not extend across IP families
	Port uint16
}

// NewUDPAddress builds a UDPAddress from a net.IP and a port. The IP must
// have a 4-byte (or 4-in-16) representation; ok is false otherwise.
func NewUDPAddress(ip net.IP, port uint16) (addr UDPAddress, ok bool) {
	v4 := ip.To4()
	if v4 == nil {
		return UDPAddress{}, false
	}
	copy(addr.IP[:], v4)
	addr.Port = port
	return addr, true
}

// UDPAddr converts addr to the standard library representation for use with
// net.UDPConn.
func (a UDPAddress) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.IP(append([]byte{}, a.IP[:]...)), Port: int(a.Port)}
}

// String renders addr as "ip:port".
func (a UDPAddress) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", a.IP[0], a.IP[1], a.IP[2], a.IP[3], a.Port)
}
