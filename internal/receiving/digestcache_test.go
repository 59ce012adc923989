package receiving

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/pkg/types"
)

func TestDigestCacheRecordAndLookup(t *testing.T) {
	c, err := NewDigestCache(16)
	require.NoError(t, err)

	id := types.UUID{Time: 1, Rand: 2}
	_, ok := c.Lookup(id)
	require.False(t, ok)

	d := Digest([]byte("hello"))
	c.Record(id, d)

	got, ok := c.Lookup(id)
	require.True(t, ok)
	require.Equal(t, d, got)
}

func TestDigestCacheZeroSizeDisabled(t *testing.T) {
	c, err := NewDigestCache(0)
	require.NoError(t, err)

	id := types.UUID{Time: 1, Rand: 2}
	c.Record(id, Digest([]byte("hello")))
	_, ok := c.Lookup(id)
	require.False(t, ok)
}

func TestDigestIsDeterministic(t *testing.T) {
	require.Equal(t, Digest([]byte("hello")), Digest([]byte("hello")))
	require.NotEqual(t, Digest([]byte("hello")), Digest([]byte("world")))
}
