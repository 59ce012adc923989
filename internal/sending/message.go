package sending

import (
	"sync"
	"time"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Status is a SendingMessage's lifecycle state (SPEC_FULL.md §3).
type Status int

const (
	NotSent Status = iota
	WaitingForReceipt
	SuccessfullySent
)

func (s Status) String() string {
	switch s {
	case NotSent:
		return "NotSent"
	case WaitingForReceipt:
		return "WaitingForReceipt"
	case SuccessfullySent:
		return "SuccessfullySent"
	default:
		return "Unknown"
	}
}

// Message is a SendingMessage: an outbound message's immutable payload
// plus its mutable retry state, guarded by its own lock.
type Message struct {
	// Immutable.
	UUID types.UUID
	// Destination is the target ClusterIdentity, or the zero value for a
	// broadcast send.
	Destination types.ClusterIdentity
	Bytes       []byte
	TotalSize   uint32
	ChunkSize   uint16

	mu                sync.Mutex
	status            Status
	waitTill          time.Time
	waitRepeatedCount int
}

// NewMessage constructs a fresh, NotSent SendingMessage.
func NewMessage(id types.UUID, dest types.ClusterIdentity, payload []byte, chunkSize uint16) *Message {
	return &Message{
		UUID:        id,
		Destination: dest,
		Bytes:       payload,
		TotalSize:   uint32(len(payload)),
		ChunkSize:   chunkSize,
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

// Status returns the message's current status.
func (m *Message) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// MarkWaitingForReceipt is the Sender's NotSent→WaitingForReceipt
// transition (only the Sender may perform it, per §3 invariant a).
func (m *Message) MarkWaitingForReceipt(waitTill time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = WaitingForReceipt
	m.waitTill = waitTill
	m.waitRepeatedCount = 0
}

// MarkSuccessfullySent transitions to the terminal SuccessfullySent state
// and records the retention deadline. Returns false if the message was
// already SuccessfullySent (a duplicate receipt or a broadcast message
// completing twice), so callers can skip re-scheduling retention.
func (m *Message) MarkSuccessfullySent(retainUntil time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == SuccessfullySent {
		return false
	}
	m.status = SuccessfullySent
	m.waitTill = retainUntil
	return true
}

// TickRetry attempts the send-side retry step: if the message is still
// WaitingForReceipt and under the retry cap, it increments the retry
// count, reschedules waitTill, and reports ok=true so the caller
// re-transmits a receipt request. If the message already completed, ok is
// false with exhausted=false. If the cap is reached, ok is false with
// exhausted=true and the caller must abandon the message.
func (m *Message) TickRetry(next time.Time, maxWaits int) (ok, exhausted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != WaitingForReceipt {
		return false, false
	}
	if m.waitRepeatedCount >= maxWaits {
		return false, true
	}
	m.waitRepeatedCount++
	m.waitTill = next
	return true, false
}

// WaitTill returns the message's current scheduled deadline (either the
// next retry or the retention expiry, depending on status).
func (m *Message) WaitTill() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitTill
}

// RetryCount returns the number of receipt-request retries issued so far.
func (m *Message) RetryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitRepeatedCount
}
