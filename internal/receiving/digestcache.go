package receiving

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"lukechampine.com/blake3"

	"github.com/udpcluster/udpcluster/pkg/types"
)

// DigestCache is the recently-completed duplicate-digest cache from
// SPEC_FULL.md §3 supplement: a small bounded LRU the receive side
// consults after a message has already cycled through retention, so a
// very late duplicate chunk or receipt-request can be logged as
// known-stale instead of re-running the missing-chunk protocol from
// scratch. It is purely a log-quality/metrics aid — it never gates the
// authoritative at-least-once behavior driven by Table.
type DigestCache struct {
	cache *lru.Cache[types.UUID, [32]byte]
}

// NewDigestCache constructs a DigestCache bounded to size entries. Zero
// disables it (every lookup reports a miss).
func NewDigestCache(size int) (*DigestCache, error) {
	if size <= 0 {
		return &DigestCache{}, nil
	}
	c, err := lru.New[types.UUID, [32]byte](size)
	if err != nil {
		return nil, err
	}
	return &DigestCache{cache: c}, nil
}

// Digest computes the content digest recorded for a successfully
// delivered message's reassembled bytes.
func Digest(bytes []byte) [32]byte {
	return blake3.Sum256(bytes)
}

// Record stores id's digest after successful hand-off to the dispatcher.
func (d *DigestCache) Record(id types.UUID, digest [32]byte) {
	if d == nil || d.cache == nil {
		return
	}
	d.cache.Add(id, digest)
}

// Lookup reports whether id is known to have already been delivered, and
// its recorded digest.
func (d *DigestCache) Lookup(id types.UUID) ([32]byte, bool) {
	if d == nil || d.cache == nil {
		return [32]byte{}, false
	}
	return d.cache.Get(id)
}
