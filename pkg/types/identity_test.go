package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClusterIdentityRoundTrip(t *testing.T) {
	id := ClusterIdentity{Time: 123456789, Rand: 42}
	b := id.Bytes()
	got := ClusterIdentityFromBytes(b[:])
	require.Equal(t, id, got)
}

func TestClusterIdentityZeroIsBroadcastSentinel(t *testing.T) {
	require.True(t, ZeroClusterIdentity.IsZero())
	require.False(t, ClusterIdentity{Time: 1}.IsZero())
	require.Equal(t, "broadcast", ZeroClusterIdentity.String())
}

func TestUUIDRoundTrip(t *testing.T) {
	u := UUID{
		Cluster: ClusterIdentity{Time: 1, Rand: 2},
		Time:    3,
		Rand:    4,
	}
	b := u.Bytes()
	got := UUIDFromBytes(b[:])
	require.Equal(t, u, got)
}

func TestUUIDUsableAsMapKey(t *testing.T) {
	a := UUID{Cluster: ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 4}
	b := UUID{Cluster: ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 4}
	c := UUID{Cluster: ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 5}

	m := map[UUID]string{a: "first"}
	_, ok := m[b]
	require.True(t, ok, "structurally equal UUIDs must hash identically")
	_, ok = m[c]
	require.False(t, ok)
}
