package addrmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/pkg/types"
)

func TestRecordAndPreferred(t *testing.T) {
	m := New()
	id := types.ClusterIdentity{Time: 1, Rand: 2}
	a1 := types.UDPAddress{IP: [4]byte{10, 0, 0, 1}, Port: 9901}
	a2 := types.UDPAddress{IP: [4]byte{10, 0, 0, 2}, Port: 9901}

	_, ok := m.Preferred(id)
	require.False(t, ok)

	m.Record(id, a1)
	got, ok := m.Preferred(id)
	require.True(t, ok)
	require.Equal(t, a1, got)

	m.Record(id, a2)
	got, ok = m.Preferred(id)
	require.True(t, ok)
	require.Equal(t, a2, got, "most recently recorded address is prepended to the front")

	require.Equal(t, []types.UDPAddress{a2, a1}, m.Addresses(id))
}

func TestRecordIsIdempotentForSameAddress(t *testing.T) {
	m := New()
	id := types.ClusterIdentity{Time: 1, Rand: 2}
	a1 := types.UDPAddress{IP: [4]byte{10, 0, 0, 1}, Port: 9901}

	m.Record(id, a1)
	m.Record(id, a1)
	m.Record(id, a1)

	require.Equal(t, []types.UDPAddress{a1}, m.Addresses(id))
}

func TestIdentityFor(t *testing.T) {
	m := New()
	id := types.ClusterIdentity{Time: 1, Rand: 2}
	addr := types.UDPAddress{IP: [4]byte{10, 0, 0, 1}, Port: 9901}

	_, ok := m.IdentityFor(addr)
	require.False(t, ok)

	m.Record(id, addr)
	got, ok := m.IdentityFor(addr)
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestRecordIsSafeForConcurrentWriters(t *testing.T) {
	m := New()
	id := types.ClusterIdentity{Time: 1, Rand: 2}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i byte) {
			defer wg.Done()
			m.Record(id, types.UDPAddress{IP: [4]byte{10, 0, 0, i}, Port: 9901})
		}(byte(i))
	}
	wg.Wait()

	require.Len(t, m.Addresses(id), 50)
}
