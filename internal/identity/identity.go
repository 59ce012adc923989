package identity

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// NewClusterIdentity mints a fresh ClusterIdentity: Time is the generation
// timestamp in Unix nanoseconds, Rand is taken from a random UUIDv4 so that
// two identities generated in the same nanosecond still don't collide.
func NewClusterIdentity() types.ClusterIdentity {
	return types.ClusterIdentity{
		Time: uint64(time.Now().UnixNano()),
		Rand: randomUint64(),
	}
}

// NewUUID mints a fresh message/actor UUID scoped to cluster.
func NewUUID(cluster types.ClusterIdentity) types.UUID {
	return types.UUID{
		Cluster: cluster,
		Time:    uint64(time.Now().UnixNano()),
		Rand:    randomUint64(),
	}
}

// randomUint64 draws 8 random bytes from a freshly generated UUIDv4. This
// reuses google/uuid's CSPRNG-backed generator instead of wiring a second
// randomness source into the binary.
func randomUint64() uint64 {
	id := uuid.New()
	return binary.LittleEndian.Uint64(id[:8])
}
