package wire

import "errors"

var (
	// ErrShortHeader is returned when a datagram is too small to hold the
	// common 55-byte header.
	ErrShortHeader = errors.New("wire: datagram shorter than frame header")

	// ErrShortTrailer is returned when a datagram's header is intact but
	// its type-specific trailer is truncated.
	ErrShortTrailer = errors.New("wire: datagram shorter than frame trailer")

	// ErrTrailerCountMismatch is returned when a ChunksNeeded/
	// ChunkRangesNeeded trailer declares a count that does not match its
	// remaining length.
	ErrTrailerCountMismatch = errors.New("wire: trailer count does not match remaining bytes")
)
