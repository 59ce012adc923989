package receiving

import (
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/obslog"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/interfaces"
	"github.com/udpcluster/udpcluster/pkg/types"
)

var log = obslog.Logger("receiving")

// Processor owns the received table and performs the completion-time work
// SPEC_FULL.md §4.4 assigns to processMessageOnce: lazy deserialization,
// the at-most-once dispatcher hand-off, the unicast receipt reply, and the
// recently-completed digest recording.
type Processor struct {
	table      *Table
	digest     *DigestCache
	serializer interfaces.Serializer
	dispatcher interfaces.Dispatcher
	router     *routing.Router
	metrics    clustermetrics.Recorder
}

// New constructs a Processor.
func New(table *Table, digest *DigestCache, serializer interfaces.Serializer, dispatcher interfaces.Dispatcher, router *routing.Router, metrics clustermetrics.Recorder) *Processor {
	return &Processor{
		table:      table,
		digest:     digest,
		serializer: serializer,
		dispatcher: dispatcher,
		router:     router,
		metrics:    metrics,
	}
}

// ProcessMessageOnce deserializes msg's reassembled bytes and hands the
// result to the dispatcher exactly once (§3 invariant b), replying with a
// MessageReceipt if msg is unicast.
func (p *Processor) ProcessMessageOnce(msg *Message, source types.UDPAddress) {
	v, err := msg.DecodeOnce(func(b []byte) (any, error) {
		return p.serializer.Unmarshal(b)
	})
	if err != nil {
		log.Warn("failed to deserialize completed message", "uuid", msg.UUID, "error", err)
		return
	}
	if !msg.MarkProcessed() {
		return
	}

	p.dispatcher.ProcessMessage(v)

	if !msg.IsBroadcast() {
		header := wire.Header{
			Type:        wire.TypeMessageReceipt,
			UUID:        msg.UUID,
			Destination: msg.Destination,
			TotalSize:   msg.TotalSize,
			ChunkSize:   msg.ChunkSize,
		}
		if err := p.router.SendTo(source, wire.EncodeReceipt(header, 0)); err != nil {
			log.Warn("failed to send receipt", "uuid", msg.UUID, "error", err)
		} else {
			p.metrics.ReceiptSent()
		}
	}

	p.digest.Record(msg.UUID, Digest(msg.Bytes()))
}
