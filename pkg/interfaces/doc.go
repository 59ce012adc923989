// Package interfaces defines the narrow boundary between the cluster
// transport and its external collaborators: the actor registry that owns
// application-level routing, the serializer that turns application values
// into the opaque bytes this transport moves, and the dispatcher callback
// that hands a fully-received message back upstream.
//
// SPEC_FULL.md §6 treats these as external collaborators the transport
// only calls through; nothing under internal/ is allowed to depend on a
// concrete registry or serializer implementation, only on these
// interfaces.
package interfaces
