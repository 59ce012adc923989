// Package sending implements the send-side message lifecycle from
// SPEC_FULL.md §3–§4.3: the SendingMessage state machine, the sent table,
// and the Sender / SentWaitingProcessor / SentCompletedCleaner workers.
package sending
