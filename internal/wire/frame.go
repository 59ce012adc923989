package wire

import "github.com/udpcluster/udpcluster/pkg/types"

// FrameType identifies the shape of a frame's trailer. Matches against the
// wire byte are done modulo 16 — typeMask isolates the low nibble, leaving
// the high nibble reserved for future flags.
type FrameType byte

const (
	TypeMessageChunk             FrameType = 1
	TypeMessageReceiptRequest    FrameType = 2
	TypeMessageReceipt           FrameType = 3
	TypeMessageChunksNeeded      FrameType = 4
	TypeMessageChunkRangesNeeded FrameType = 5
	TypeMessageNoLongerExists    FrameType = 6

	typeMask = 0x0F
)

// Normalize strips the reserved high nibble from a raw wire type byte.
func Normalize(raw byte) FrameType {
	return FrameType(raw & typeMask)
}

const (
	// HeaderSize is the byte length of the common header, from the type
	// byte through chunkSize inclusive.
	HeaderSize = 1 + 16 + 16 + 16 + 4 + 2

	// MaxChunkSize bounds the trailer of a MessageChunk frame.
	MaxChunkSize = 1024

	// MaxPacketSize bounds the whole datagram (header + trailer).
	MaxPacketSize = 16 * 1024

	// RecvBufferSize is the buffer every Receiver reads into.
	RecvBufferSize = 16 * 1024
)

// Header is the fixed prefix common to every frame.
type Header struct {
	Type        FrameType
	UUID        types.UUID
	Destination types.ClusterIdentity // zero value means broadcast
	TotalSize   uint32
	ChunkSize   uint16
}

// IsBroadcast reports whether the header addresses every cluster member.
func (h Header) IsBroadcast() bool {
	return h.Destination.IsZero()
}

// TotalChunks returns ⌈TotalSize/ChunkSize⌉, the number of MessageChunk
// frames that make up the message this header describes.
func (h Header) TotalChunks() uint32 {
	if h.ChunkSize == 0 {
		return 0
	}
	n := h.TotalSize / uint32(h.ChunkSize)
	if h.TotalSize%uint32(h.ChunkSize) != 0 {
		n++
	}
	return n
}
