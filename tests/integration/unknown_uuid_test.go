package integration

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster"
	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/types"
	"github.com/udpcluster/udpcluster/tests/testutil"
)

// TestUnknownUUIDElicitsNoLongerExists covers a peer nacking or
// acknowledging a message sut has already forgotten (GC'd or never sent,
// simulating a restart): sut replies exactly once with
// MessageNoLongerExists instead of silently dropping the frame.
func TestUnknownUUIDElicitsNoLongerExists(t *testing.T) {
	sutIP := net.IPv4(127, 10, 1, 4)
	cfg := fastConfig()

	spy := testutil.NewMetricsSpy()
	sut := testutil.NewCluster(t, "app", "scenario4").
		WithBindIP(sutIP).
		WithOptions(udpcluster.WithConfig(cfg), udpcluster.WithMetrics(spy)).
		Start()

	peerID := types.ClusterIdentity{Time: 777, Rand: 888}
	peer := testutil.NewRawPeer(t, sutIP, peerID)
	broadcastAddr := &net.UDPAddr{IP: sutIP, Port: int(cfg.BroadcastPort)}

	forgotten := types.UUID{Cluster: peerID, Time: 9, Rand: 9}
	header := wire.Header{
		Type:        wire.TypeMessageReceipt,
		UUID:        forgotten,
		Destination: sut.ClusterID(),
	}
	peer.SendFrame(broadcastAddr, wire.EncodeReceipt(header, 0))

	replyHeader, _, _, err := peer.ReadFrame(2 * time.Second)
	require.NoError(t, err)
	require.Equal(t, wire.TypeMessageNoLongerExists, replyHeader.Type)
	require.Equal(t, forgotten, replyHeader.UUID)
	require.Equal(t, 1, spy.UnknownUUIDReplySentCount())
}
