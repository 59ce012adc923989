package integration

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster"
	"github.com/udpcluster/udpcluster/tests/testutil"
)

// TestBroadcastNeverWaitsForAReceipt covers the broadcast invariant: a
// message with no destination is marked SuccessfullySent the moment every
// chunk goes out, never enters the waiting-for-receipt state, and never
// causes a MessageReceiptRequest to be sent — there is no single peer to
// request one from. Observed through the metrics spy rather than a second
// peer socket, since simulating real multi-peer OS broadcast fan-out
// in-process isn't reliable (see DESIGN.md).
func TestBroadcastNeverWaitsForAReceipt(t *testing.T) {
	sutIP := net.IPv4(127, 10, 1, 5)
	cfg := fastConfig()

	spy := testutil.NewMetricsSpy()
	sut := testutil.NewCluster(t, "app", "scenario5").
		WithBindIP(sutIP).
		WithOptions(
			udpcluster.WithConfig(cfg),
			udpcluster.WithMetrics(spy),
			udpcluster.WithSerializer(testutil.RawBytesSerializer{}),
		).
		Start()

	uuid, err := sut.Send(udpcluster.ClusterIdentity{}, []byte("hello cluster"))
	require.NoError(t, err)
	require.NotZero(t, uuid)

	testutil.WaitForConditionOrFail(t, time.Second, 10*time.Millisecond, func() bool {
		return spy.SentInFlightCount() == 0
	}, "broadcast message never left the sent table")

	// Give the retry machinery a full window to prove it never fires for
	// a broadcast message.
	time.Sleep(2 * cfg.WaitingForReceiptTimeout)
	require.Zero(t, spy.ReceiptRequestSentCount(), "broadcast messages must never request a receipt")
}
