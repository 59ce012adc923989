package routing

import (
	"errors"

	"github.com/udpcluster/udpcluster/internal/addrmap"
	"github.com/udpcluster/udpcluster/internal/socket"
	"github.com/udpcluster/udpcluster/pkg/types"
)

// ErrNoKnownAddress means the address map has no recorded address for a
// ClusterIdentity — destinationFor in SPEC_FULL.md §4.1 returns nothing in
// this case, and callers fall back to broadcasting.
var ErrNoKnownAddress = errors.New("routing: no known address for cluster identity")

// Router resolves outbound routes and performs the actual socket writes
// for the send/receive state machines.
type Router struct {
	table *socket.Table
	addrs *addrmap.Map
}

// New builds a Router over table and addrs. Neither is copied; the Router
// observes their live state.
func New(table *socket.Table, addrs *addrmap.Map) *Router {
	return &Router{table: table, addrs: addrs}
}

// UnicastTo resolves destinationFor(id) — the preferred known address for
// id, routed through the socket table — and writes frame to it. Returns
// ErrNoKnownAddress if the address map has nothing for id yet.
func (r *Router) UnicastTo(id types.ClusterIdentity, frame []byte) error {
	addr, ok := r.addrs.Preferred(id)
	if !ok {
		return ErrNoKnownAddress
	}
	return r.SendTo(addr, frame)
}

// SendTo writes frame directly to addr, using whichever bound interface's
// socket shares addr's subnet.
func (r *Router) SendTo(addr types.UDPAddress, frame []byte) error {
	conn, err := r.table.SocketForTarget(addr)
	if err != nil {
		return err
	}
	_, err = conn.WriteToUDP(frame, addr.UDPAddr())
	return err
}

// Broadcast writes frame out every bound interface's unicast socket to
// that interface's own broadcast address (the unicast socket has
// SO_BROADCAST enabled at bind time, see internal/socket).
func (r *Router) Broadcast(frame []byte) error {
	bindings := r.table.Bindings()
	var firstErr error
	for _, b := range bindings {
		if _, err := b.Unicast.WriteToUDP(frame, b.BroadcastAddr.UDPAddr()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
