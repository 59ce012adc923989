package receiving

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/pkg/types"
)

func sampleUUID() types.UUID {
	return types.UUID{Cluster: types.ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 4}
}

func TestAddChunkIsMonotonicAndIdempotent(t *testing.T) {
	msg := NewMessage(sampleUUID(), types.ClusterIdentity{}, 3000, 1024)

	require.False(t, msg.AddChunk(0, makeBytes(1024, 0xAA)))
	require.False(t, msg.AddChunk(0, makeBytes(1024, 0xFF)), "replaying an accepted chunk must not alter bytes")
	require.Equal(t, makeBytes(1024, 0xAA), msg.Bytes()[0:1024])

	require.False(t, msg.AddChunk(1, makeBytes(1024, 0xBB)))
	require.True(t, msg.AddChunk(2, makeBytes(952, 0xCC)))
	require.True(t, msg.IsComplete())
}

func TestMissingIndicesAscendingAndAllBeforeAnyArrive(t *testing.T) {
	msg := NewMessage(sampleUUID(), types.ClusterIdentity{}, 3000, 1024)
	require.Equal(t, []uint32{0, 1, 2}, msg.MissingIndices())

	msg.AddChunk(1, makeBytes(1024, 0))
	require.Equal(t, []uint32{0, 2}, msg.MissingIndices())
}

func TestDecodeOnceCachesResult(t *testing.T) {
	msg := NewMessage(sampleUUID(), types.ClusterIdentity{}, 4, 1024)
	msg.AddChunk(0, []byte("data"))

	calls := 0
	decode := func(b []byte) (any, error) {
		calls++
		return string(b), nil
	}
	v1, err := msg.DecodeOnce(decode)
	require.NoError(t, err)
	v2, err := msg.DecodeOnce(decode)
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, calls)
}

func TestMarkProcessedFlipsExactlyOnce(t *testing.T) {
	msg := NewMessage(sampleUUID(), types.ClusterIdentity{}, 4, 1024)
	require.True(t, msg.MarkProcessed())
	require.False(t, msg.MarkProcessed())
}

func makeBytes(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}
