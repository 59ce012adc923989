// Package waitqueue implements the cancelable FIFO described in
// SPEC_FULL.md §5: entries are popped in insertion order, and a holder can
// remove its own entry in O(1) without walking the queue — used by both
// the send-side and receive-side waiting processors to arm and cancel
// per-message retry deadlines.
package waitqueue
