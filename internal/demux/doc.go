// Package demux implements the Receiver worker from SPEC_FULL.md §4.4:
// one goroutine per bound socket, parsing inbound datagrams and
// dispatching by frame type into the send-side and receive-side state
// machines.
package demux
