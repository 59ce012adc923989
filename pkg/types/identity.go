package types

import (
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              ClusterIdentity
// ============================================================================

// ClusterIdentity is an opaque 128-bit value identifying a cluster member
// for the life of a process. It is made of two 64-bit fields with no
// structural meaning beyond "stable and (with overwhelming probability)
// unique" — Time is a generation timestamp, Rand a random value; callers
// must not rely on either field individually.
type ClusterIdentity struct {
	Time uint64
	Rand uint64
}

// ZeroClusterIdentity is the identity used on the wire to mean "broadcast,
// no specific destination".
var ZeroClusterIdentity = ClusterIdentity{}

// IsZero reports whether id is the broadcast sentinel.
func (id ClusterIdentity) IsZero() bool {
	return id == ZeroClusterIdentity
}

// Bytes returns the 16-byte little-endian wire encoding of id.
func (id ClusterIdentity) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], id.Time)
	binary.LittleEndian.PutUint64(b[8:16], id.Rand)
	return b
}

// ClusterIdentityFromBytes decodes the 16-byte little-endian wire encoding
// produced by Bytes.
func ClusterIdentityFromBytes(b []byte) ClusterIdentity {
	return ClusterIdentity{
		Time: binary.LittleEndian.Uint64(b[0:8]),
		Rand: binary.LittleEndian.Uint64(b[8:16]),
	}
}

// String returns a base58 rendering of id, suitable for logs.
func (id ClusterIdentity) String() string {
	if id.IsZero() {
		return "broadcast"
	}
	b := id.Bytes()
	return base58.Encode(b[:])
}
