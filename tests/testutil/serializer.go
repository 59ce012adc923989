package testutil

import (
	"errors"

	"github.com/udpcluster/udpcluster"
)

// RawBytesSerializer passes []byte payloads straight through with no
// framing, so a test can pin exact chunk-boundary byte counts instead of
// working around pkg/clustermsg's tag byte.
type RawBytesSerializer struct{}

// Marshal implements udpcluster.Serializer.
func (RawBytesSerializer) Marshal(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, errors.New("testutil: RawBytesSerializer only accepts []byte")
	}
	return b, nil
}

// Unmarshal implements udpcluster.Serializer.
func (RawBytesSerializer) Unmarshal(b []byte) (any, error) {
	return append([]byte{}, b...), nil
}

var _ udpcluster.Serializer = RawBytesSerializer{}
