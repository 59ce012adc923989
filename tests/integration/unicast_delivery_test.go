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

// TestUnicastMessageFragmentsInOrderAndReceivesAReceipt covers the
// two-node unicast scenario: a 3000-byte send over a 1024-byte chunk size
// fragments into three chunks (1024, 1024, 952), and the receiving side
// replies with a receipt once all three have arrived.
func TestUnicastMessageFragmentsInOrderAndReceivesAReceipt(t *testing.T) {
	sutIP := net.IPv4(127, 10, 1, 1)
	cfg := fastConfig()

	spy := testutil.NewMetricsSpy()
	sut := testutil.NewCluster(t, "app", "scenario1").
		WithBindIP(sutIP).
		WithOptions(
			udpcluster.WithConfig(cfg),
			udpcluster.WithMetrics(spy),
			udpcluster.WithSerializer(testutil.RawBytesSerializer{}),
		).
		Start()

	peerID := types.ClusterIdentity{Time: 111, Rand: 222}
	peer := testutil.NewRawPeer(t, sutIP, peerID)
	broadcastAddr := &net.UDPAddr{IP: sutIP, Port: int(cfg.BroadcastPort)}
	peer.Announce(broadcastAddr, sut.ClusterID())

	payload := make([]byte, 3000)
	for i := range payload {
		payload[i] = byte(i % 256)
	}

	uuid, err := sut.Send(peerID, payload)
	require.NoError(t, err)
	require.NotZero(t, uuid)

	indexLens := map[uint32]int{}
	var lastFrom *net.UDPAddr
	for i := 0; i < 3; i++ {
		header, trailer, from, err := peer.ReadFrame(2 * time.Second)
		require.NoError(t, err)
		require.Equal(t, wire.TypeMessageChunk, header.Type)
		require.Equal(t, uuid, header.UUID)
		index, chunkPayload, err := wire.DecodeChunk(trailer)
		require.NoError(t, err)
		indexLens[index] = len(chunkPayload)
		lastFrom = from
	}
	require.Equal(t, map[uint32]int{0: 1024, 1: 1024, 2: 952}, indexLens)

	// Receiving side replies with a receipt once reassembly completes,
	// since the message is unicast (non-zero destination).
	receiptHeader := wire.Header{
		Type:        wire.TypeMessageReceipt,
		UUID:        uuid,
		Destination: peerID,
		TotalSize:   3000,
		ChunkSize:   cfg.ChunkSize,
	}
	peer.SendFrame(lastFrom, wire.EncodeReceipt(receiptHeader, 0))

	testutil.WaitForConditionOrFail(t, time.Second, 10*time.Millisecond, func() bool {
		return spy.SentInFlightCount() == 0
	}, "sender table never drained after receipt")
}
