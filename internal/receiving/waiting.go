package receiving

import (
	"github.com/benbjohnson/clock"
	"github.com/jbenet/goprocess"

	"github.com/udpcluster/udpcluster/internal/addrmap"
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/wire"
)

// WaitingProcessor is the ReceivedWaitingProcessor worker (SPEC_FULL.md
// §4.5): it pops the head of the receive-waiting queue, sleeps until that
// message's completion deadline, and either re-requests the missing
// chunks or abandons the message once the retry cap is hit.
type WaitingProcessor struct {
	cfg     clustercfg.Config
	clk     clock.Clock
	table   *Table
	waiting *Queue
	addrs   *addrmap.Map
	router  *routing.Router
	metrics clustermetrics.Recorder
}

// NewWaitingProcessor constructs a WaitingProcessor.
func NewWaitingProcessor(cfg clustercfg.Config, clk clock.Clock, table *Table, waiting *Queue, addrs *addrmap.Map, router *routing.Router, metrics clustermetrics.Recorder) *WaitingProcessor {
	return &WaitingProcessor{cfg: cfg, clk: clk, table: table, waiting: waiting, addrs: addrs, router: router, metrics: metrics}
}

// Run is the worker loop.
func (p *WaitingProcessor) Run(proc goprocess.Process) {
	for {
		select {
		case <-proc.Closing():
			return
		default:
		}

		entry, ok := p.waiting.Pop()
		if !ok {
			select {
			case <-proc.Closing():
				return
			case <-p.clk.After(p.cfg.PollTimeout):
			}
			continue
		}

		remaining := entry.ReadyAt.Sub(p.clk.Now())
		if remaining > 0 {
			select {
			case <-proc.Closing():
				return
			case <-p.clk.After(remaining):
			}
		}
		p.act(entry.Value)
	}
}

func (p *WaitingProcessor) act(msg *Message) {
	next := p.clk.Now().Add(p.cfg.WaitingForAllChunksTimeout)
	ok, exhausted := msg.TickRetry(next, p.cfg.MaxChunkWaits)
	if exhausted {
		p.table.Delete(msg.UUID)
		p.metrics.ReceivedInFlight(-1)
		p.metrics.MessageAbandonedReceiving()
		log.Info("abandoning message after missing-chunk retry exhaustion", "uuid", msg.UUID)
		return
	}
	if !ok {
		return
	}
	p.waiting.Push(Entry{Key: msg.UUID, ReadyAt: next, Value: msg})
	p.requestMissingChunks(msg)
}

// requestMissingChunks issues one or more MessageChunksNeeded frames,
// splitting into windows of MaxMissingList entries per SPEC_FULL.md §4.5.
func (p *WaitingProcessor) requestMissingChunks(msg *Message) {
	addr, ok := p.addrs.Preferred(msg.UUID.Cluster)
	if !ok {
		log.Warn("no known address to request missing chunks from", "uuid", msg.UUID)
		return
	}
	missing := msg.MissingIndices()
	header := wire.Header{
		Type:        wire.TypeMessageChunksNeeded,
		UUID:        msg.UUID,
		Destination: msg.Destination,
		TotalSize:   msg.TotalSize,
		ChunkSize:   msg.ChunkSize,
	}
	for start := 0; start < len(missing); start += p.cfg.MaxMissingList {
		end := start + p.cfg.MaxMissingList
		if end > len(missing) {
			end = len(missing)
		}
		frame := wire.EncodeChunksNeeded(header, missing[start:end])
		if err := p.router.SendTo(addr, frame); err != nil {
			log.Warn("failed to send chunks-needed", "uuid", msg.UUID, "error", err)
			continue
		}
		p.metrics.NackSent()
	}
}
