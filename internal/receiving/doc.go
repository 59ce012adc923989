// Package receiving implements the receive-side message lifecycle from
// SPEC_FULL.md §3–§4.4–§4.5: the ReceivingMessage state machine, the
// received table, the recently-completed digest cache, and the
// ReceivedWaitingProcessor / ReceivedCompletedCleaner workers.
package receiving
