// Package socket implements multi-interface socket discovery
// (SPEC_FULL.md §4.1): for every non-loopback IPv4 interface, it binds a
// unicast socket on the first free port in the configured dynamic range
// and a broadcast-receive socket on the configured broadcast port, then
// exposes route selection (socketForTarget) over the resulting table;
// destinationFor lives in internal/routing as Router.UnicastTo.
//
// Discovery is memoized per Discoverer and collapses concurrent first-use
// callers onto a single attempt via golang.org/x/sync/singleflight — the
// idiomatic replacement for a hand-rolled double-checked lock.
package socket
