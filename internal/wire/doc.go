// Package wire implements the cluster transport's on-the-wire frame
// format: a fixed 55-byte header shared by every frame type, followed by a
// type-specific trailer. All multi-byte integers are little-endian.
package wire
