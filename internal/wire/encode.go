package wire

import "encoding/binary"

// EncodeHeader renders h as the 55-byte common frame prefix.
func EncodeHeader(h Header) []byte {
	b := make([]byte, HeaderSize)
	b[0] = byte(h.Type)

	uuidBytes := h.UUID.Bytes()
	copy(b[1:33], uuidBytes[:])

	destBytes := h.Destination.Bytes()
	copy(b[33:49], destBytes[:])

	binary.LittleEndian.PutUint32(b[49:53], h.TotalSize)
	binary.LittleEndian.PutUint16(b[53:55], h.ChunkSize)
	return b
}

// EncodeChunk appends a MessageChunk trailer (index + payload) to h.
func EncodeChunk(h Header, index uint32, payload []byte) []byte {
	h.Type = TypeMessageChunk
	b := EncodeHeader(h)
	trailer := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(trailer[0:4], index)
	copy(trailer[4:], payload)
	return append(b, trailer...)
}

// EncodeReceiptRequest renders a MessageReceiptRequest frame (header only).
func EncodeReceiptRequest(h Header) []byte {
	h.Type = TypeMessageReceiptRequest
	return EncodeHeader(h)
}

// EncodeReceipt appends a MessageReceipt trailer (errorCode) to h.
func EncodeReceipt(h Header, errorCode uint16) []byte {
	h.Type = TypeMessageReceipt
	b := EncodeHeader(h)
	trailer := make([]byte, 2)
	binary.LittleEndian.PutUint16(trailer, errorCode)
	return append(b, trailer...)
}

// EncodeChunksNeeded appends a MessageChunksNeeded trailer (count + indices)
// to h. Callers are responsible for splitting long lists per
// clustercfg.Config.MaxMissingList before calling this.
func EncodeChunksNeeded(h Header, indices []uint32) []byte {
	h.Type = TypeMessageChunksNeeded
	b := EncodeHeader(h)
	trailer := make([]byte, 2+4*len(indices))
	binary.LittleEndian.PutUint16(trailer[0:2], uint16(len(indices)))
	off := 2
	for _, idx := range indices {
		binary.LittleEndian.PutUint32(trailer[off:off+4], idx)
		off += 4
	}
	return append(b, trailer...)
}

// ChunkRange is an inclusive [Low, High] range of missing chunk indices.
type ChunkRange struct {
	Low  uint32
	High uint32
}

// EncodeChunkRangesNeeded appends a MessageChunkRangesNeeded trailer to h.
func EncodeChunkRangesNeeded(h Header, ranges []ChunkRange) []byte {
	h.Type = TypeMessageChunkRangesNeeded
	b := EncodeHeader(h)
	trailer := make([]byte, 2+8*len(ranges))
	binary.LittleEndian.PutUint16(trailer[0:2], uint16(len(ranges)))
	off := 2
	for _, r := range ranges {
		binary.LittleEndian.PutUint32(trailer[off:off+4], r.Low)
		binary.LittleEndian.PutUint32(trailer[off+4:off+8], r.High)
		off += 8
	}
	return append(b, trailer...)
}

// EncodeNoLongerExists renders a MessageNoLongerExists frame (header only).
func EncodeNoLongerExists(h Header) []byte {
	h.Type = TypeMessageNoLongerExists
	return EncodeHeader(h)
}
