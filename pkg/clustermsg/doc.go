// Package clustermsg defines the closed set of application-level message
// variants this transport's tests and default serializer use in
// place of object serialization (SPEC_FULL.md §4.2 supplement). The
// transport core never looks inside these bytes — it only moves them — but
// a complete repository needs a concrete shape on both ends of the
// Serializer interface.
package clustermsg
