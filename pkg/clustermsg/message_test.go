package clustermsg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udpcluster/udpcluster/pkg/types"
)

func TestRoundTripVariants(t *testing.T) {
	target := types.UUID{Cluster: types.ClusterIdentity{Time: 1, Rand: 2}, Time: 3, Rand: 4}

	cases := []Message{
		{Variant: VariantActorMessage, Body: []byte("payload")},
		{Variant: VariantStop},
		{Variant: VariantStatusRequest},
		{Variant: VariantStatusResponse, Status: "running"},
		{Variant: VariantTargetedByUUID, Target: target, Body: []byte("hi")},
		{Variant: VariantTargetedByClassName, ClassName: "GreeterActor", Body: []byte("hi")},
		{Variant: VariantTargetedByID, Target: target, Body: []byte("hi")},
	}

	for _, c := range cases {
		encoded := Encode(c)
		got, err := Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestDecodeUnknownVariant(t *testing.T) {
	_, err := Decode([]byte{99})
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestDecodeEmptyPayload(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)
}
