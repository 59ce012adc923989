package interfaces

// ============================================================================
//                              Serializer
// ============================================================================

// Serializer turns an application-level value into the opaque bytes the
// transport fragments and moves, and back. The transport core never
// inspects the bytes it carries — everything downstream of Marshal and
// upstream of Unmarshal is the caller's concern. pkg/clustermsg provides a
// concrete implementation over the tagged ClusterMessage variants used by
// this repository's own tests.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte) (any, error)
}
