package receiving

import (
	"github.com/benbjohnson/clock"
	"github.com/jbenet/goprocess"

	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
)

// CompletedCleaner is the ReceivedCompletedCleaner worker (SPEC_FULL.md
// §4.5): it pops entries off the received-completed queue and removes
// them from the received table once their retention deadline passes.
type CompletedCleaner struct {
	cfg     clustercfg.Config
	clk     clock.Clock
	table   *Table
	done    *Queue
	metrics clustermetrics.Recorder
}

// NewCompletedCleaner constructs a CompletedCleaner.
func NewCompletedCleaner(cfg clustercfg.Config, clk clock.Clock, table *Table, done *Queue, metrics clustermetrics.Recorder) *CompletedCleaner {
	return &CompletedCleaner{cfg: cfg, clk: clk, table: table, done: done, metrics: metrics}
}

// Run is the worker loop.
func (c *CompletedCleaner) Run(proc goprocess.Process) {
	for {
		select {
		case <-proc.Closing():
			return
		default:
		}

		entry, ok := c.done.Pop()
		if !ok {
			select {
			case <-proc.Closing():
				return
			case <-c.clk.After(c.cfg.PollTimeout):
			}
			continue
		}

		remaining := entry.ReadyAt.Sub(c.clk.Now())
		if remaining > 0 {
			select {
			case <-proc.Closing():
				return
			case <-c.clk.After(remaining):
			}
		}
		if msg := entry.Value; msg.Status() == SuccessfullyReceived {
			c.table.Delete(msg.UUID)
			c.metrics.ReceivedInFlight(-1)
		}
	}
}
