package types

import (
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              UUID
// ============================================================================

// UUID composes a ClusterIdentity with a local 128-bit uniqueness field to
// identify a single message or actor. Equality and use as a map key compare
// all four 64-bit components, which Go's native struct comparison already
// does correctly since every field is a plain integer.
type UUID struct {
	Cluster ClusterIdentity
	Time    uint64
	Rand    uint64
}

// Bytes returns the 32-byte little-endian wire encoding of u: the cluster
// identity first, then the local (Time, Rand) pair — matching the header
// layout in the wire framing component.
func (u UUID) Bytes() [32]byte {
	var b [32]byte
	cid := u.Cluster.Bytes()
	copy(b[0:16], cid[:])
	binary.LittleEndian.PutUint64(b[16:24], u.Time)
	binary.LittleEndian.PutUint64(b[24:32], u.Rand)
	return b
}

// UUIDFromBytes decodes the 32-byte encoding produced by Bytes.
func UUIDFromBytes(b []byte) UUID {
	return UUID{
		Cluster: ClusterIdentityFromBytes(b[0:16]),
		Time:    binary.LittleEndian.Uint64(b[16:24]),
		Rand:    binary.LittleEndian.Uint64(b[24:32]),
	}
}

// String returns a base58 rendering of u, suitable for logs.
func (u UUID) String() string {
	b := u.Bytes()
	return base58.Encode(b[:])
}
