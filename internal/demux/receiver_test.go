package demux

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/internal/addrmap"
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/receiving"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/sending"
	"github.com/udpcluster/udpcluster/internal/socket"
	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/types"
)

type recordingDispatcher struct {
	got []any
}

func (d *recordingDispatcher) ProcessMessage(v any) { d.got = append(d.got, v) }

type echoSerializer struct{}

func (echoSerializer) Marshal(v any) ([]byte, error)   { return v.([]byte), nil }
func (echoSerializer) Unmarshal(b []byte) (any, error) { return append([]byte{}, b...), nil }

func newLoopbackRouter(t *testing.T, cfg clustercfg.Config, addrs *addrmap.Map) *routing.Router {
	t.Helper()
	tbl, err := socket.Discover(context.Background(), cfg, []net.IP{net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return routing.New(tbl, addrs)
}

func listenPeer(t *testing.T) (*net.UDPConn, types.UDPAddress) {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	addr, ok := types.NewUDPAddress(net.IPv4(127, 0, 0, 1), uint16(conn.LocalAddr().(*net.UDPAddr).Port))
	require.True(t, ok)
	return conn, addr
}

func readFrame(t *testing.T, conn *net.UDPConn) (wire.Header, []byte) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, wire.RecvBufferSize)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	header, trailer, err := wire.DecodeHeader(buf[:n])
	require.NoError(t, err)
	return header, trailer
}

func TestHandleChunkAssemblesRepliesReceiptOnLastChunk(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	cfg.DynamicPortRangeLow = 24000
	cfg.DynamicPortRangeHigh = 24020

	selfID := types.ClusterIdentity{Time: 1, Rand: 1}
	addrs := addrmap.New()
	router := newLoopbackRouter(t, cfg, addrs)

	peer, peerAddr := listenPeer(t)

	recvTable := receiving.NewTable()
	waitingQ := receiving.NewQueue()
	doneQ := receiving.NewQueue()
	digest, err := receiving.NewDigestCache(16)
	require.NoError(t, err)
	dispatcher := &recordingDispatcher{}
	processor := receiving.New(recvTable, digest, echoSerializer{}, dispatcher, router, clustermetrics.NoOp{})

	sentTable := sending.NewTable()
	sender := sending.New(cfg, clock.NewMock(), router, sentTable, sending.NewQueue(), sending.NewQueue(), clustermetrics.NoOp{})

	r := New(cfg, clock.NewMock(), selfID, addrs, sender, recvTable, waitingQ, doneQ, processor, digest, router, clustermetrics.NoOp{})

	id := types.UUID{Cluster: types.ClusterIdentity{Time: 9}, Time: 1, Rand: 1}
	header := wire.Header{Type: wire.TypeMessageChunk, UUID: id, Destination: selfID, TotalSize: 4, ChunkSize: 1024}

	r.handleDatagram(wire.EncodeChunk(header, 0, []byte("data")), peerAddr)

	require.Equal(t, 0, waitingQ.Len())
	require.Len(t, dispatcher.got, 1)

	recorded, ok := addrs.IdentityFor(peerAddr)
	require.True(t, ok)
	require.Equal(t, id.Cluster, recorded)

	replyHeader, replyTrailer := readFrame(t, peer)
	require.Equal(t, wire.TypeMessageReceipt, replyHeader.Type)
	errCode, err := wire.DecodeReceipt(replyTrailer)
	require.NoError(t, err)
	require.Equal(t, uint16(0), errCode)
	require.Equal(t, 0, waitingQ.Len())
	require.Equal(t, 1, doneQ.Len())
}

func TestHandleReceiptRequestSendsMissingChunksWindowed(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	cfg.DynamicPortRangeLow = 24100
	cfg.DynamicPortRangeHigh = 24120
	cfg.MaxMissingList = 2

	selfID := types.ClusterIdentity{Time: 1, Rand: 1}
	addrs := addrmap.New()
	router := newLoopbackRouter(t, cfg, addrs)
	peer, peerAddr := listenPeer(t)

	recvTable := receiving.NewTable()
	waitingQ := receiving.NewQueue()
	doneQ := receiving.NewQueue()
	digest, err := receiving.NewDigestCache(16)
	require.NoError(t, err)
	processor := receiving.New(recvTable, digest, echoSerializer{}, &recordingDispatcher{}, router, clustermetrics.NoOp{})

	sentTable := sending.NewTable()
	sender := sending.New(cfg, clock.NewMock(), router, sentTable, sending.NewQueue(), sending.NewQueue(), clustermetrics.NoOp{})

	r := New(cfg, clock.NewMock(), selfID, addrs, sender, recvTable, waitingQ, doneQ, processor, digest, router, clustermetrics.NoOp{})

	id := types.UUID{Cluster: types.ClusterIdentity{Time: 9}, Time: 2, Rand: 2}
	header := wire.Header{Type: wire.TypeMessageReceiptRequest, UUID: id, Destination: selfID, TotalSize: 5000, ChunkSize: 1024}

	r.handleDatagram(wire.EncodeReceiptRequest(header), peerAddr)

	// TotalSize 5000 / ChunkSize 1024 = 5 chunks, none arrived, window size 2 -> 3 frames.
	seenIndices := []uint32{}
	for i := 0; i < 3; i++ {
		_, trailer := readFrame(t, peer)
		indices, err := wire.DecodeChunksNeeded(trailer)
		require.NoError(t, err)
		seenIndices = append(seenIndices, indices...)
	}
	require.ElementsMatch(t, []uint32{0, 1, 2, 3, 4}, seenIndices)
}

func TestHandleReceiptResolvesKnownSentMessage(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	addrs := addrmap.New()
	router := newLoopbackRouter(t, cfg, addrs)
	_, peerAddr := listenPeer(t)

	sentTable := sending.NewTable()
	waitingQ := sending.NewQueue()
	doneQ := sending.NewQueue()
	mockClock := clock.NewMock()
	sender := sending.New(cfg, mockClock, router, sentTable, waitingQ, doneQ, clustermetrics.NoOp{})

	dest := types.ClusterIdentity{Time: 3, Rand: 3}
	msg := sending.NewMessage(types.UUID{Time: 1, Rand: 1}, dest, []byte("hi"), 1024)
	sentTable.Insert(msg)
	msg.MarkWaitingForReceipt(mockClock.Now().Add(time.Second))
	waitingQ.Push(sending.Entry{Key: msg.UUID, ReadyAt: msg.WaitTill(), Value: msg})

	r := New(cfg, mockClock, types.ClusterIdentity{}, addrs, sender, receiving.NewTable(), receiving.NewQueue(), receiving.NewQueue(), nil, nil, router, clustermetrics.NoOp{})

	header := wire.Header{Type: wire.TypeMessageReceipt, UUID: msg.UUID, Destination: types.ClusterIdentity{}}
	r.handleDatagram(wire.EncodeReceipt(header, 0), peerAddr)

	require.Equal(t, sending.SuccessfullySent, msg.Status())
	require.Equal(t, 0, waitingQ.Len())
}

func TestHandleReceiptForUnknownUUIDRepliesNoLongerExists(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	addrs := addrmap.New()
	router := newLoopbackRouter(t, cfg, addrs)
	peer, peerAddr := listenPeer(t)

	sentTable := sending.NewTable()
	sender := sending.New(cfg, clock.NewMock(), router, sentTable, sending.NewQueue(), sending.NewQueue(), clustermetrics.NoOp{})
	r := New(cfg, clock.NewMock(), types.ClusterIdentity{}, addrs, sender, receiving.NewTable(), receiving.NewQueue(), receiving.NewQueue(), nil, nil, router, clustermetrics.NoOp{})

	unknown := types.UUID{Time: 77, Rand: 77}
	header := wire.Header{Type: wire.TypeMessageReceipt, UUID: unknown, Destination: types.ClusterIdentity{}}
	r.handleDatagram(wire.EncodeReceipt(header, 0), peerAddr)

	replyHeader, _ := readFrame(t, peer)
	require.Equal(t, wire.TypeMessageNoLongerExists, replyHeader.Type)
	require.Equal(t, unknown, replyHeader.UUID)
}

func TestHandleChunksNeededResendsNamedChunks(t *testing.T) {
	cfg := clustercfg.DefaultConfig()
	addrs := addrmap.New()
	router := newLoopbackRouter(t, cfg, addrs)
	peer, peerAddr := listenPeer(t)

	sentTable := sending.NewTable()
	mockClock := clock.NewMock()
	sender := sending.New(cfg, mockClock, router, sentTable, sending.NewQueue(), sending.NewQueue(), clustermetrics.NoOp{})

	dest := types.ClusterIdentity{Time: 4, Rand: 4}
	payload := make([]byte, 3000)
	msg := sending.NewMessage(types.UUID{Time: 5, Rand: 5}, dest, payload, 1024)
	sentTable.Insert(msg)
	addrs.Record(dest, peerAddr)

	r := New(cfg, mockClock, types.ClusterIdentity{}, addrs, sender, receiving.NewTable(), receiving.NewQueue(), receiving.NewQueue(), nil, nil, router, clustermetrics.NoOp{})

	header := wire.Header{Type: wire.TypeMessageChunksNeeded, UUID: msg.UUID, Destination: types.ClusterIdentity{}}
	r.handleDatagram(wire.EncodeChunksNeeded(header, []uint32{2}), peerAddr)

	replyHeader, trailer := readFrame(t, peer)
	require.Equal(t, wire.TypeMessageChunk, replyHeader.Type)
	index, data, err := wire.DecodeChunk(trailer)
	require.NoError(t, err)
	require.Equal(t, uint32(2), index)
	require.Equal(t, payload[2048:3000], data)
}

func TestHandleChunkRangesNeededExpandsInclusiveRanges(t *testing.T) {
	require.Equal(t, []uint32{2, 3, 4}, expandRanges([]wire.ChunkRange{{Low: 2, High: 4}}))
	require.Nil(t, expandRanges(nil))
}
