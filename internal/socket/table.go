package socket

import (
	"errors"
	"net"
	"sync"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Binding is everything discovery produced for one local interface: the
// unicast socket bound to a dynamic port, the broadcast-receive socket
// bound to the well-known broadcast port, and the interface's own address
// and mask so route selection can tell whether a target is local to it.
type Binding struct {
	InterfaceIP   net.IP
	InterfaceMask net.IPMask

	UnicastAddr types.UDPAddress
	Unicast     *net.UDPConn

	BroadcastAddr types.UDPAddress
	Broadcast     *net.UDPConn
}

// sameSubnet reports whether ip shares b's network prefix, masked by b's
// own interface mask. This masks both addresses through net.IP.Mask before
// comparing, which handles a prefix ending mid-byte correctly — the naive
// version of this check (comparing a truncated byte slice with ==) silently
// ignores the unmasked low bits of the final byte, letting route selection
// misfire on any subnet whose mask isn't byte-aligned (SPEC_FULL.md §9).
func (b Binding) sameSubnet(ip net.IP) bool {
	v4 := ip.To4()
	ifaceV4 := b.InterfaceIP.To4()
	if v4 == nil || ifaceV4 == nil || len(b.InterfaceMask) == 0 {
		return false
	}
	return v4.Mask(b.InterfaceMask).Equal(ifaceV4.Mask(b.InterfaceMask))
}

// Table is the set of per-interface bindings produced by Discover. It is
// safe for concurrent use; Close tears every binding down exactly once.
type Table struct {
	mu       sync.RWMutex
	bindings []Binding
	closed   bool
}

// Bindings returns a snapshot of the table's current bindings.
func (t *Table) Bindings() []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// SocketForTarget iterates the socket table and returns the unicast socket
// of the first interface whose network-prefix-masked address equals
// target's masked address (SPEC_FULL.md §4.1). If none matches, it returns
// ErrNoRoute and a nil socket — the caller has no interface that can reach
// target and must not guess one.
func (t *Table) SocketForTarget(target types.UDPAddress) (*net.UDPConn, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return nil, ErrClosed
	}
	ip := net.IP(append([]byte{}, target.IP[:]...))
	for _, b := range t.bindings {
		if b.sameSubnet(ip) {
			return b.Unicast, nil
		}
	}
	return nil, ErrNoRoute
}

// BroadcastAddresses returns every binding's broadcast address, used to
// fan a broadcast send out across every bound interface.
func (t *Table) BroadcastAddresses() []types.UDPAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.UDPAddress, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = b.BroadcastAddr
	}
	return out
}

// Close closes every socket in the table and returns every close error,
// joined. It is idempotent.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	var errs []error
	for _, b := range t.bindings {
		if err := b.Unicast.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := b.Broadcast.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
