// Package clustercfg holds the cluster transport's tunables. Every field
// has a default matching the wire-visible constants the protocol was
// specified against; overriding them is for tests (fast retry/GC cycles)
// and for embedders tuning a specific link, never for end users — there is
// no CLI or environment-variable layer here, only Go structs.
package clustercfg

import "time"

// Config holds every tunable of the cluster transport.
type Config struct {
	// BroadcastPort is the well-known port every node's broadcast-receive
	// socket binds to.
	BroadcastPort uint16

	// DynamicPortRangeLow/High bound the inclusive range scanned for a free
	// unicast port on each interface.
	DynamicPortRangeLow  uint16
	DynamicPortRangeHigh uint16

	// ChunkSize is the maximum number of payload bytes per MessageChunk
	// frame.
	ChunkSize uint16

	// MaxMissingList caps how many indices a single MessageChunksNeeded
	// frame carries before the receiver splits the nack into windows.
	MaxMissingList int

	// PollTimeout bounds how long the Sender and the cleaners block on
	// their work queues before re-checking the shutdown signal.
	PollTimeout time.Duration

	// WaitingForReceiptTimeout is how long the sender waits for a receipt
	// before re-requesting one.
	WaitingForReceiptTimeout time.Duration
	// MaxReceiptWaits caps how many receipt requests the sender issues
	// before giving up on a message.
	MaxReceiptWaits int
	// WaitingAfterReceiptTimeout is the retention delay for a
	// SuccessfullySent message before it is removed from the sent table.
	WaitingAfterReceiptTimeout time.Duration

	// WaitingForAllChunksTimeout is how long the receiver waits for more
	// chunks before re-requesting the missing ones.
	WaitingForAllChunksTimeout time.Duration
	// MaxChunkWaits caps how many MessageChunksNeeded rounds the receiver
	// issues before abandoning a partially-received message.
	MaxChunkWaits int
	// WaitingAfterCompleteTimeout is the retention delay for a
	// SuccessfullyReceived message before it is removed from the received
	// table.
	WaitingAfterCompleteTimeout time.Duration

	// RecentlyCompletedCacheSize bounds the post-retention duplicate-digest
	// cache (see SPEC_FULL.md §3 supplement). Zero disables it.
	RecentlyCompletedCacheSize int
}

// DefaultConfig returns the spec's compile-time constants as a Config.
func DefaultConfig() Config {
	return Config{
		BroadcastPort:               9900,
		DynamicPortRangeLow:         9901,
		DynamicPortRangeHigh:        9999,
		ChunkSize:                   1024,
		MaxMissingList:              256,
		PollTimeout:                 200 * time.Millisecond,
		WaitingForReceiptTimeout:    1000 * time.Millisecond,
		MaxReceiptWaits:             3,
		WaitingAfterReceiptTimeout:  6000 * time.Millisecond,
		WaitingForAllChunksTimeout:  1000 * time.Millisecond,
		MaxChunkWaits:               3,
		WaitingAfterCompleteTimeout: 6000 * time.Millisecond,
		RecentlyCompletedCacheSize:  4096,
	}
}

// Validate checks Config for internally-inconsistent values (e.g. an empty
// port range, a chunk size of zero) and returns every problem found rather
// than stopping at the first one.
func (c Config) Validate() ValidationErrors {
	v := NewValidator()

	if c.DynamicPortRangeLow == 0 || c.DynamicPortRangeHigh < c.DynamicPortRangeLow {
		v.addError("DynamicPortRange", "must be a non-empty inclusive range")
	}
	if c.ChunkSize == 0 || c.ChunkSize > 1024 {
		v.addError("ChunkSize", "must be in (0, 1024] bytes")
	}
	if c.MaxMissingList <= 0 {
		v.addError("MaxMissingList", "must be positive")
	}
	if c.PollTimeout <= 0 {
		v.addError("PollTimeout", "must be positive")
	}
	if c.MaxReceiptWaits < 0 {
		v.addError("MaxReceiptWaits", "must not be negative")
	}
	if c.MaxChunkWaits < 0 {
		v.addError("MaxChunkWaits", "must not be negative")
	}
	if c.RecentlyCompletedCacheSize < 0 {
		v.addError("RecentlyCompletedCacheSize", "must not be negative")
	}

	return v.Errors()
}
