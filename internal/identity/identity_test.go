package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClusterIdentityIsNotZero(t *testing.T) {
	id := NewClusterIdentity()
	require.False(t, id.IsZero())
}

func TestNewClusterIdentityDoesNotCollide(t *testing.T) {
	a := NewClusterIdentity()
	b := NewClusterIdentity()
	require.NotEqual(t, a, b)
}

func TestNewUUIDCarriesClusterIdentity(t *testing.T) {
	cid := NewClusterIdentity()
	u := NewUUID(cid)
	require.Equal(t, cid, u.Cluster)

	other := NewUUID(cid)
	require.NotEqual(t, u, other, "two UUIDs minted for the same cluster must still differ")
}
