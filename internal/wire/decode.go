package wire

import (
	"encoding/binary"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// DecodeHeader parses the 55-byte common prefix of b. It returns the
// decoded Header and the remaining bytes (the type-specific trailer).
func DecodeHeader(b []byte) (Header, []byte, error) {
	if len(b) < HeaderSize {
		return Header{}, nil, ErrShortHeader
	}

	h := Header{
		Type:        Normalize(b[0]),
		UUID:        types.UUIDFromBytes(b[1:33]),
		Destination: types.ClusterIdentityFromBytes(b[33:49]),
		TotalSize:   binary.LittleEndian.Uint32(b[49:53]),
		ChunkSize:   binary.LittleEndian.Uint16(b[53:55]),
	}
	return h, b[HeaderSize:], nil
}

// DecodeChunk parses a MessageChunk trailer: a u32 index followed by the
// chunk payload.
func DecodeChunk(trailer []byte) (index uint32, payload []byte, err error) {
	if len(trailer) < 4 {
		return 0, nil, ErrShortTrailer
	}
	index = binary.LittleEndian.Uint32(trailer[0:4])
	payload = trailer[4:]
	return index, payload, nil
}

// DecodeReceipt parses a MessageReceipt trailer's error code.
func DecodeReceipt(trailer []byte) (errorCode uint16, err error) {
	if len(trailer) < 2 {
		return 0, ErrShortTrailer
	}
	return binary.LittleEndian.Uint16(trailer[0:2]), nil
}

// DecodeChunksNeeded parses a MessageChunksNeeded trailer into its index
// list.
func DecodeChunksNeeded(trailer []byte) ([]uint32, error) {
	if len(trailer) < 2 {
		return nil, ErrShortTrailer
	}
	count := int(binary.LittleEndian.Uint16(trailer[0:2]))
	rest := trailer[2:]
	if len(rest) < count*4 {
		return nil, ErrTrailerCountMismatch
	}
	indices := make([]uint32, count)
	for i := 0; i < count; i++ {
		indices[i] = binary.LittleEndian.Uint32(rest[i*4 : i*4+4])
	}
	return indices, nil
}

// DecodeChunkRangesNeeded parses a MessageChunkRangesNeeded trailer into
// its inclusive-range list.
func DecodeChunkRangesNeeded(trailer []byte) ([]ChunkRange, error) {
	if len(trailer) < 2 {
		return nil, ErrShortTrailer
	}
	count := int(binary.LittleEndian.Uint16(trailer[0:2]))
	rest := trailer[2:]
	if len(rest) < count*8 {
		return nil, ErrTrailerCountMismatch
	}
	ranges := make([]ChunkRange, count)
	for i := 0; i < count; i++ {
		off := i * 8
		ranges[i] = ChunkRange{
			Low:  binary.LittleEndian.Uint32(rest[off : off+4]),
			High: binary.LittleEndian.Uint32(rest[off+4 : off+8]),
		}
	}
	return ranges, nil
}
