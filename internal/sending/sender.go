package sending

import (
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/jbenet/goprocess"

	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/obslog"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/types"
)

var log = obslog.Logger("sending")

// Sender is the SPEC_FULL.md §4.3 Sender worker plus the send-side
// operations (enqueue, receipt handling, nack handling) the Receiver
// demultiplexer drives.
type Sender struct {
	cfg     clustercfg.Config
	clk     clock.Clock
	router  *routing.Router
	table   *Table
	waiting *Queue
	done    *Queue
	metrics clustermetrics.Recorder

	incoming chan *Message
}

// New constructs a Sender. table, waiting, and done are shared with the
// SentWaitingProcessor and SentCompletedCleaner workers built on top of
// the same Table/Queue pair.
func New(cfg clustercfg.Config, clk clock.Clock, router *routing.Router, table *Table, waiting, done *Queue, metrics clustermetrics.Recorder) *Sender {
	return &Sender{
		cfg:      cfg,
		clk:      clk,
		router:   router,
		table:    table,
		waiting:  waiting,
		done:     done,
		metrics:  metrics,
		incoming: make(chan *Message, 256),
	}
}

// Enqueue inserts msg into the sent table and hands it to the Sender
// worker. Per SPEC_FULL.md §4.3, this is called by the send API after
// serializing the payload and minting a fresh UUID.
func (s *Sender) Enqueue(msg *Message) {
	s.table.Insert(msg)
	s.metrics.SentInFlight(1)
	s.incoming <- msg
}

// Run is the Sender worker loop: pop the next enqueued message (200 ms
// poll so shutdown is responsive) and transmit it.
func (s *Sender) Run(proc goprocess.Process) {
	for {
		select {
		case <-proc.Closing():
			return
		case msg := <-s.incoming:
			if msg.Status() == NotSent {
				s.transmitAll(msg)
				s.markSentAndWait(msg)
			}
		case <-s.clk.After(s.cfg.PollTimeout):
		}
	}
}

// transmitAll sends every chunk of msg once, per SPEC_FULL.md §4.3 step 1.
func (s *Sender) transmitAll(msg *Message) {
	header := s.headerFor(msg)
	total := msg.TotalChunks()
	for i := uint32(0); i < total; i++ {
		start := i * uint32(msg.ChunkSize)
		end := start + uint32(msg.ChunkSize)
		if end > msg.TotalSize {
			end = msg.TotalSize
		}
		frame := wire.EncodeChunk(header, i, msg.Bytes[start:end])
		s.transmitFrame(msg, frame)
		s.metrics.ChunkSent()
	}
}

// Resend re-emits only the named chunk indices over the same route as the
// initial send, per SPEC_FULL.md §4.3 nack handling.
func (s *Sender) Resend(msg *Message, indices []uint32) {
	header := s.headerFor(msg)
	for _, i := range indices {
		start := i * uint32(msg.ChunkSize)
		if start >= msg.TotalSize {
			continue
		}
		end := start + uint32(msg.ChunkSize)
		if end > msg.TotalSize {
			end = msg.TotalSize
		}
		frame := wire.EncodeChunk(header, i, msg.Bytes[start:end])
		s.transmitFrame(msg, frame)
		s.metrics.ChunkRetransmitted()
	}
}

// RequestReceipt transmits a MessageReceiptRequest over the same routing
// as send, used by the SentWaitingProcessor's retry step.
func (s *Sender) RequestReceipt(msg *Message) {
	s.transmitFrame(msg, wire.EncodeReceiptRequest(s.headerFor(msg)))
	s.metrics.ReceiptRequestSent()
}

func (s *Sender) headerFor(msg *Message) wire.Header {
	return wire.Header{
		Type:        wire.TypeMessageChunk,
		UUID:        msg.UUID,
		Destination: msg.Destination,
		TotalSize:   msg.TotalSize,
		ChunkSize:   msg.ChunkSize,
	}
}

// transmitFrame unicasts to the message's destination, falling back to a
// broadcast if the destination is unknown or the message itself has no
// specific destination.
func (s *Sender) transmitFrame(msg *Message, frame []byte) {
	if msg.IsBroadcast() {
		if err := s.router.Broadcast(frame); err != nil {
			log.Warn("broadcast send failed", "uuid", msg.UUID, "error", err)
		}
		return
	}
	if err := s.router.UnicastTo(msg.Destination, frame); err != nil {
		if errors.Is(err, routing.ErrNoKnownAddress) {
			if err := s.router.Broadcast(frame); err != nil {
				log.Warn("fallback broadcast send failed", "uuid", msg.UUID, "error", err)
			}
			return
		}
		log.Warn("unicast send failed", "uuid", msg.UUID, "destination", msg.Destination, "error", err)
	}
}

// markSentAndWait is the status transition after the first full
// transmission, per SPEC_FULL.md §4.3 step 2.
func (s *Sender) markSentAndWait(msg *Message) {
	now := s.clk.Now()
	if msg.IsBroadcast() {
		retainUntil := now.Add(s.cfg.WaitingAfterReceiptTimeout)
		if msg.MarkSuccessfullySent(retainUntil) {
			s.done.Push(Entry{Key: msg.UUID, ReadyAt: retainUntil, Value: msg})
		}
		return
	}
	waitTill := now.Add(s.cfg.WaitingForReceiptTimeout)
	msg.MarkWaitingForReceipt(waitTill)
	s.waiting.Push(Entry{Key: msg.UUID, ReadyAt: waitTill, Value: msg})
}

// HandleReceipt transitions a message to SuccessfullySent on an inbound
// MessageReceipt, cancelling its waiting-queue entry unconditionally —
// SPEC_FULL.md §9 calls out that the cancellation must not be conditioned
// on the current status, since a status check-then-cancel has a race a
// straight cancel does not.
func (s *Sender) HandleReceipt(id types.UUID) bool {
	msg, ok := s.table.Get(id)
	if !ok {
		return false
	}
	s.waiting.Remove(id)
	retainUntil := s.clk.Now().Add(s.cfg.WaitingAfterReceiptTimeout)
	if msg.MarkSuccessfullySent(retainUntil) {
		s.done.Push(Entry{Key: id, ReadyAt: retainUntil, Value: msg})
	}
	return true
}

// HandleNack re-sends the named chunks for a known message, or reports
// false so the caller can reply MessageNoLongerExists for an unknown one.
func (s *Sender) HandleNack(id types.UUID, indices []uint32) bool {
	msg, ok := s.table.Get(id)
	if !ok {
		return false
	}
	s.Resend(msg, indices)
	return true
}

// Table exposes the sent table for gauge reporting and the demultiplexer.
func (s *Sender) Table() *Table { return s.table }
