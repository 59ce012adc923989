// Package addrmap is the cluster transport's address map (SPEC_FULL.md
// §4.6): a UDPAddress→ClusterIdentity mapping and its inverse, a
// ClusterIdentity→ordered list of UDPAddress. The list's head is the
// preferred route; list updates are prepend-on-new via compare-and-swap
// rather than under a lock, since the map is written on every inbound
// frame and read on every outbound route lookup.
package addrmap
