package clustermsg

import "fmt"

// Serializer adapts Encode/Decode to pkg/interfaces.Serializer: Marshal
// expects v to be a Message value, Unmarshal always produces one. It is
// the default Serializer the root package wires into a Cluster when the
// caller doesn't supply their own.
type Serializer struct{}

// NewSerializer constructs a Serializer.
func NewSerializer() Serializer {
	return Serializer{}
}

// Marshal encodes v, which must be a Message.
func (Serializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("clustermsg: Marshal expects a Message, got %T", v)
	}
	return Encode(msg), nil
}

// Unmarshal decodes b into a Message.
func (Serializer) Unmarshal(b []byte) (any, error) {
	return Decode(b)
}
