// Package routing glues the socket table (internal/socket) and the
// address map (internal/addrmap) into the two operations the send/receive
// state machines need: resolving a ClusterIdentity to a route and
// fanning a frame out to every bound interface's broadcast address.
//
// destinationFor in SPEC_FULL.md §4.1 is this package's UnicastTo: look up
// the address map for clusterId, take its preferred (head) address, then
// resolve the outbound socket for that address via the socket table's
// route selection.
package routing
