package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/pkg/types"
)

func sampleHeader(typ FrameType) Header {
	return Header{
		Type:        typ,
		UUID:        types.UUID{Cluster: types.ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 4},
		Destination: types.ClusterIdentity{Time: 5, Rand: 6},
		TotalSize:   3000,
		ChunkSize:   1024,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader(TypeMessageChunk)
	b := EncodeHeader(h)
	require.Len(t, b, HeaderSize)

	got, rest, err := DecodeHeader(b)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, h, got)
}

func TestHeaderTypeIsNormalizedModulo16(t *testing.T) {
	h := sampleHeader(TypeMessageChunk)
	b := EncodeHeader(h)
	b[0] |= 0xF0 // set reserved high nibble

	got, _, err := DecodeHeader(b)
	require.NoError(t, err)
	require.Equal(t, TypeMessageChunk, got.Type)
}

func TestDecodeHeaderShort(t *testing.T) {
	_, _, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrShortHeader)
}

func TestTotalChunks(t *testing.T) {
	h := sampleHeader(TypeMessageChunk)
	require.Equal(t, uint32(3), h.TotalChunks())

	h.TotalSize = 1024
	require.Equal(t, uint32(1), h.TotalChunks())

	h.TotalSize = 0
	require.Equal(t, uint32(0), h.TotalChunks())
}

func TestChunkRoundTrip(t *testing.T) {
	h := sampleHeader(TypeMessageChunk)
	payload := []byte("hello cluster")
	b := EncodeChunk(h, 7, payload)

	gotHeader, trailer, err := DecodeHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, gotHeader)

	index, gotPayload, err := DecodeChunk(trailer)
	require.NoError(t, err)
	require.Equal(t, uint32(7), index)
	require.Equal(t, payload, gotPayload)
}

func TestReceiptRoundTrip(t *testing.T) {
	h := sampleHeader(TypeMessageReceipt)
	b := EncodeReceipt(h, 1)

	_, trailer, err := DecodeHeader(b)
	require.NoError(t, err)

	code, err := DecodeReceipt(trailer)
	require.NoError(t, err)
	require.Equal(t, uint16(1), code)
}

func TestChunksNeededRoundTrip(t *testing.T) {
	h := sampleHeader(TypeMessageChunksNeeded)
	indices := []uint32{0, 5, 9, 100}
	b := EncodeChunksNeeded(h, indices)

	_, trailer, err := DecodeHeader(b)
	require.NoError(t, err)

	got, err := DecodeChunksNeeded(trailer)
	require.NoError(t, err)
	require.Equal(t, indices, got)
}

func TestChunksNeededEmpty(t *testing.T) {
	h := sampleHeader(TypeMessageChunksNeeded)
	b := EncodeChunksNeeded(h, nil)

	_, trailer, err := DecodeHeader(b)
	require.NoError(t, err)

	got, err := DecodeChunksNeeded(trailer)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestChunkRangesNeededRoundTrip(t *testing.T) {
	h := sampleHeader(TypeMessageChunkRangesNeeded)
	ranges := []ChunkRange{{Low: 0, High: 255}, {Low: 300, High: 343}}
	b := EncodeChunkRangesNeeded(h, ranges)

	_, trailer, err := DecodeHeader(b)
	require.NoError(t, err)

	got, err := DecodeChunkRangesNeeded(trailer)
	require.NoError(t, err)
	require.Equal(t, ranges, got)
}

func TestNoLongerExistsIsHeaderOnly(t *testing.T) {
	h := sampleHeader(TypeMessageNoLongerExists)
	b := EncodeNoLongerExists(h)
	require.Len(t, b, HeaderSize)
}

func TestDecodeChunksNeededTruncated(t *testing.T) {
	h := sampleHeader(TypeMessageChunksNeeded)
	b := EncodeChunksNeeded(h, []uint32{1, 2, 3})
	b = b[:len(b)-2] // drop the last index's final byte pair worth of trailer

	_, trailer, err := DecodeHeader(b)
	require.NoError(t, err)

	_, err = DecodeChunksNeeded(trailer)
	require.ErrorIs(t, err, ErrTrailerCountMismatch)
}
