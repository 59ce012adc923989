package sending

import (
	"sync"
	"sync/atomic"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// Table is the concurrent `sent` map from SPEC_FULL.md §3: UUID to
// in-flight SendingMessage.
type Table struct {
	m     sync.Map
	count atomic.Int64
}

// NewTable constructs an empty sent table.
func NewTable() *Table {
	return &Table{}
}

// Insert adds msg, keyed by its UUID.
func (t *Table) Insert(msg *Message) {
	if _, loaded := t.m.LoadOrStore(msg.UUID, msg); !loaded {
		t.count.Add(1)
	}
}

// Get looks up a SendingMessage by UUID.
func (t *Table) Get(id types.UUID) (*Message, bool) {
	v, ok := t.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Message), true
}

// Delete removes a SendingMessage, e.g. on retry exhaustion or after
// retention expires.
func (t *Table) Delete(id types.UUID) {
	if _, loaded := t.m.LoadAndDelete(id); loaded {
		t.count.Add(-1)
	}
}

// Len reports the number of in-flight sending messages (the `sent` gauge
// in SPEC_FULL.md §4.7).
func (t *Table) Len() int {
	return int(t.count.Load())
}
