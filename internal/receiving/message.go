package receiving

import (
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Status is a ReceivingMessage's lifecycle state (SPEC_FULL.md §3).
type Status int

const (
	WaitingForChunks Status = iota
	SuccessfullyReceived
)

// Message is a ReceivingMessage: the reassembly buffer, received-index
// set, and retry state for one inbound UUID, guarded by its own lock.
type Message struct {
	// Immutable.
	UUID        types.UUID
	Destination types.ClusterIdentity // zero means broadcast
	TotalSize   uint32
	ChunkSize   uint16

	mu                sync.Mutex
	bytes             []byte
	chunks            map[uint32]struct{}
	decoded           any
	decodedOK         bool
	messageProcessed  bool
	status            Status
	waitTill          time.Time
	waitRepeatedCount int
}

// NewMessage constructs a fresh, WaitingForChunks ReceivingMessage sized for
// totalSize.
func NewMessage(id types.UUID, dest types.ClusterIdentity, totalSize uint32, chunkSize uint16) *Message {
	return &Message{
		UUID:        id,
		Destination: dest,
		TotalSize:   totalSize,
		ChunkSize:   chunkSize,
		bytes:       make([]byte, totalSize),
		chunks:      make(map[uint32]struct{}),
	}
}

// IsBroadcast reports whether the message has no specific destination.
func (m *Message) IsBroadcast() bool {
	return m.Destination.IsZero()
}

// TotalChunks is ⌈TotalSize/ChunkSize⌉.
func (m *Message) TotalChunks() uint32 {
	if m.ChunkSize == 0 {
		return 0
	}
	return (m.TotalSize + uint32(m.ChunkSize) - 1) / uint32(m.ChunkSize)
}

// AddChunk writes payload at index·ChunkSize, idempotently (§3 invariant:
// chunks is monotonic). Returns whether the message is now complete.
func (m *Message) AddChunk(index uint32, payload []byte) (complete bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chunks[index]; !ok {
		start := index * uint32(m.ChunkSize)
		end := start + uint32(len(payload))
		if end > uint32(len(m.bytes)) {
			end = uint32(len(m.bytes))
		}
		if start < end {
			copy(m.bytes[start:end], payload)
		}
		m.chunks[index] = struct{}{}
	}
	return uint32(len(m.chunks)) == m.totalChunksLocked()
}

func (m *Message) totalChunksLocked() uint32 {
	if m.ChunkSize == 0 {
		return 0
	}
	return (m.TotalSize + uint32(m.ChunkSize) - 1) / uint32(m.ChunkSize)
}

// IsComplete reports whether every chunk has arrived.
func (m *Message) IsComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint32(len(m.chunks)) == m.totalChunksLocked()
}

// MissingIndices returns the currently-missing chunk indices in ascending
// order — "all indices" if nothing has arrived yet (SPEC_FULL.md §4.4).
func (m *Message) MissingIndices() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.totalChunksLocked()
	missing := make([]uint32, 0, total)
	for i := uint32(0); i < total; i++ {
		if _, ok := m.chunks[i]; !ok {
			missing = append(missing, i)
		}
	}
	slices.Sort(missing)
	return missing
}

// Bytes returns the reassembly buffer. Only safe to read once IsComplete
// is true; the caller (ProcessMessageOnce) holds that invariant.
func (m *Message) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytes
}

// DecodeOnce lazily runs decode against the reassembled bytes exactly
// once, caching the result for subsequent calls (§3 invariant c).
func (m *Message) DecodeOnce(decode func([]byte) (any, error)) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decodedOK {
		return m.decoded, nil
	}
	v, err := decode(m.bytes)
	if err != nil {
		return nil, err
	}
	m.decoded = v
	m.decodedOK = true
	return v, nil
}

// MarkProcessed flips the at-most-once delivery latch. Returns false if
// it was already flipped (§3 invariant b).
func (m *Message) MarkProcessed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messageProcessed {
		return false
	}
	m.messageProcessed = true
	return true
}

// MarkSuccessfullyReceived transitions to the terminal state and records
// the retention deadline.
func (m *Message) MarkSuccessfullyReceived(retainUntil time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = SuccessfullyReceived
	m.waitTill = retainUntil
}

// ArmWaiting schedules the next completion-timeout deadline, used when
// the message is first created.
func (m *Message) ArmWaiting(waitTill time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = WaitingForChunks
	m.waitTill = waitTill
	m.waitRepeatedCount = 0
}

// Status returns the message's current status.
func (m *Message) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// TickRetry is the receive-side analogue of sending.Message.TickRetry.
func (m *Message) TickRetry(next time.Time, maxWaits int) (ok, exhausted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != WaitingForChunks {
		return false, false
	}
	if m.waitRepeatedCount >= maxWaits {
		return false, true
	}
	m.waitRepeatedCount++
	m.waitTill = next
	return true, false
}

// WaitTill returns the message's current scheduled deadline.
func (m *Message) WaitTill() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitTill
}
