package testutil

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/types"
)

// RawPeer is a bare UDP socket that speaks the wire protocol directly
// through internal/wire's Encode/Decode functions, standing in for a
// second cluster member without running a full Cluster — the same way
// internal/demux's own receiver tests drive frames at a Receiver by hand.
type RawPeer struct {
	t    *testing.T
	conn *net.UDPConn
	id   types.ClusterIdentity
}

// NewRawPeer binds an ephemeral UDP socket on ip and mints id as the
// peer's cluster identity, used as the UUID.Cluster field of every frame
// it originates.
func NewRawPeer(t *testing.T, ip net.IP, id types.ClusterIdentity) *RawPeer {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: 0})
	require.NoError(t, err, "failed to bind raw peer socket")
	t.Cleanup(func() { _ = conn.Close() })
	return &RawPeer{t: t, conn: conn, id: id}
}

// ID returns the identity this peer signs its frames with.
func (p *RawPeer) ID() types.ClusterIdentity { return p.id }

// LocalAddr returns the peer's bound ephemeral address.
func (p *RawPeer) LocalAddr() *net.UDPAddr {
	return p.conn.LocalAddr().(*net.UDPAddr)
}

// Announce seeds sut's address map with this peer's real source address
// by sending a MessageReceiptRequest addressed at a fabricated identity
// distinct from sutID. internal/demux's handleReceiptRequest records the
// frame's source address before checking whether the frame is actually
// addressed to this node, so the request is otherwise a no-op: sut never
// replies to it.
func (p *RawPeer) Announce(sutBroadcastAddr *net.UDPAddr, sutID types.ClusterIdentity) {
	p.t.Helper()
	notSUT := sutID
	notSUT.Time++
	header := wire.Header{
		Type:        wire.TypeMessageReceiptRequest,
		UUID:        types.UUID{Cluster: p.id, Time: 1, Rand: 1},
		Destination: notSUT,
	}
	p.SendFrame(sutBroadcastAddr, wire.EncodeReceiptRequest(header))
}

// SendFrame writes frame to to.
func (p *RawPeer) SendFrame(to *net.UDPAddr, frame []byte) {
	p.t.Helper()
	_, err := p.conn.WriteToUDP(frame, to)
	require.NoError(p.t, err, "raw peer send failed")
}

// ReadFrame reads and decodes the next datagram within timeout, returning
// the decoded header, the type-specific trailer bytes, and the address
// the datagram arrived from (so a reply can target it directly rather
// than guessing which of sut's sockets sent the frame).
func (p *RawPeer) ReadFrame(timeout time.Duration) (wire.Header, []byte, *net.UDPAddr, error) {
	buf := make([]byte, wire.MaxPacketSize)
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(timeout)))
	n, from, err := p.conn.ReadFromUDP(buf)
	if err != nil {
		return wire.Header{}, nil, nil, err
	}
	header, trailer, err := wire.DecodeHeader(buf[:n])
	return header, trailer, from, err
}
