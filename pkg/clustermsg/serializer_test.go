package clustermsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializerRoundTrip(t *testing.T) {
	s := NewSerializer()
	msg := Message{Variant: VariantActorMessage, Body: []byte("hello")}

	b, err := s.Marshal(msg)
	require.NoError(t, err)

	v, err := s.Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, msg, v)
}

func TestSerializerMarshalRejectsNonMessage(t *testing.T) {
	s := NewSerializer()
	_, err := s.Marshal("not a message")
	require.Error(t, err)
}
