package receiving

import (
	"sync"
	"sync/atomic"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Table is the concurrent `received` map from SPEC_FULL.md §3: UUID to
// in-flight ReceivingMessage.
type Table struct {
	m     sync.Map
	count atomic.Int64
}

// NewTable constructs an empty received table.
func NewTable() *Table {
	return &Table{}
}

// GetOrCreate returns the existing Message for id, or inserts and returns
// newMsg if none exists yet (put-if-absent semantics, §4.4 step 1). created
// reports whether newMsg was the one actually stored.
func (t *Table) GetOrCreate(id types.UUID, newMsg func() *Message) (msg *Message, created bool) {
	if v, ok := t.m.Load(id); ok {
		return v.(*Message), false
	}
	candidate := newMsg()
	v, loaded := t.m.LoadOrStore(id, candidate)
	if !loaded {
		t.count.Add(1)
		return candidate, true
	}
	return v.(*Message), false
}

// Get looks up a ReceivingMessage by UUID.
func (t *Table) Get(id types.UUID) (*Message, bool) {
	v, ok := t.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Message), true
}

// Delete removes a ReceivingMessage, e.g. on retry exhaustion or after
// retention expires.
func (t *Table) Delete(id types.UUID) {
	if _, loaded := t.m.LoadAndDelete(id); loaded {
		t.count.Add(-1)
	}
}

// Len reports the number of in-flight receiving messages (the `received`
// gauge in SPEC_FULL.md §4.7).
func (t *Table) Len() int {
	return int(t.count.Load())
}
