package sending

import (
	"github.com/jbenet/goprocess"
)

// CompletedCleaner is the SentCompletedCleaner worker (SPEC_FULL.md
// §4.3): it pops entries off the sent-completed queue and removes them
// from the sent table once their retention deadline passes.
type CompletedCleaner struct {
	sender *Sender
}

// NewCompletedCleaner constructs a CompletedCleaner driving sender.
func NewCompletedCleaner(sender *Sender) *CompletedCleaner {
	return &CompletedCleaner{sender: sender}
}

// Run is the worker loop.
func (c *CompletedCleaner) Run(proc goprocess.Process) {
	s := c.sender
	for {
		select {
		case <-proc.Closing():
			return
		default:
		}

		entry, ok := s.done.Pop()
		if !ok {
			select {
			case <-proc.Closing():
				return
			case <-s.clk.After(s.cfg.PollTimeout):
			}
			continue
		}

		remaining := entry.ReadyAt.Sub(s.clk.Now())
		if remaining > 0 {
			select {
			case <-proc.Closing():
				return
			case <-s.clk.After(remaining):
			}
		}
		if msg := entry.Value; msg.Status() == SuccessfullySent {
			s.table.Delete(msg.UUID)
			s.metrics.SentInFlight(-1)
		}
	}
}
