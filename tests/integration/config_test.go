// Package integration exercises the public Cluster API end-to-end over
// real loopback sockets, driving the peer side by hand through
// internal/wire rather than a second Cluster instance — two Clusters
// sharing a process cannot observe real OS broadcast fan-out reliably
// (see DESIGN.md), so these tests stick to point-to-point exchanges and,
// for the broadcast invariant, a metrics spy on the sole real Cluster.
package integration

import (
	"time"

	"github.com/udpcluster/udpcluster"
)

// fastConfig shortens every retry/retention window so tests don't spend
// wall-clock time on the production defaults (1s-6s) while keeping
// MaxMissingList, MaxReceiptWaits, and MaxChunkWaits at their documented
// values since several scenarios assert on those exact numbers.
func fastConfig() udpcluster.Config {
	cfg := udpcluster.DefaultConfig()
	cfg.WaitingForReceiptTimeout = 150 * time.Millisecond
	cfg.WaitingAfterReceiptTimeout = 200 * time.Millisecond
	cfg.WaitingForAllChunksTimeout = 150 * time.Millisecond
	cfg.WaitingAfterCompleteTimeout = 200 * time.Millisecond
	return cfg
}
