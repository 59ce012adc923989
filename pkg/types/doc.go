// Package types defines the wire-level value types shared across the
// cluster transport: ClusterIdentity, UUID, and UDPAddress.
//
// This is the lowest-level package in the module — it depends on nothing
// else under this repository, and most other packages import it.
package types
