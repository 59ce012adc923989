package sending

import (
	"github.com/jbenet/goprocess"
)

// WaitingProcessor is the SentWaitingProcessor worker (SPEC_FULL.md
// §4.3): it pops the head of the waiting queue, sleeps until that
// message's receipt deadline, and either re-requests a receipt or
// abandons the message once the retry cap is hit.
type WaitingProcessor struct {
	sender *Sender
}

// NewWaitingProcessor constructs a WaitingProcessor driving sender.
func NewWaitingProcessor(sender *Sender) *WaitingProcessor {
	return &WaitingProcessor{sender: sender}
}

// Run is the worker loop.
func (p *WaitingProcessor) Run(proc goprocess.Process) {
	s := p.sender
	for {
		select {
		case <-proc.Closing():
			return
		default:
		}

		entry, ok := s.waiting.Pop()
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
		p.act(entry.Value)
	}
}

func (p *WaitingProcessor) act(msg *Message) {
	s := p.sender
	next := s.clk.Now().Add(s.cfg.WaitingForReceiptTimeout)
	ok, exhausted := msg.TickRetry(next, s.cfg.MaxReceiptWaits)
	if exhausted {
		s.table.Delete(msg.UUID)
		s.metrics.SentInFlight(-1)
		s.metrics.MessageAbandonedSending()
		log.Info("abandoning message after receipt retry exhaustion", "uuid", msg.UUID)
		return
	}
	if !ok {
		// Already completed (receipt arrived and removed the queue entry
		// before we got here) or not in a waitable state — nothing to do.
		return
	}
	s.waiting.Push(Entry{Key: msg.UUID, ReadyAt: next, Value: msg})
	s.RequestReceipt(msg)
}
