package demux

import (
	"errors"
	"net"

	"github.com/benbjohnson/clock"
	"github.com/jbenet/goprocess"

	"github.com/udpcluster/udpcluster/internal/addrmap"
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/obslog"
	"github.com/udpcluster/udpcluster/internal/receiving"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/sending"
	"github.com/udpcluster/udpcluster/internal/wire"
	"github.com/udpcluster/udpcluster/pkg/types"
)

var log = obslog.Logger("demux")

// Receiver is the demultiplexer described in SPEC_FULL.md §4.4. One
// Receiver instance is shared by every bound socket; Run is invoked once
// per socket, each on its own goroutine.
type Receiver struct {
	cfg    clustercfg.Config
	clk    clock.Clock
	selfID types.ClusterIdentity

	addrs *addrmap.Map

	sender *sending.Sender

	receivedTable   *receiving.Table
	receivedWaiting *receiving.Queue
	receivedDone    *receiving.Queue
	processor       *receiving.Processor
	digest          *receiving.DigestCache

	router  *routing.Router
	metrics clustermetrics.Recorder
}

// New constructs a Receiver.
func New(
	cfg clustercfg.Config,
	clk clock.Clock,
	selfID types.ClusterIdentity,
	addrs *addrmap.Map,
	sender *sending.Sender,
	receivedTable *receiving.Table,
	receivedWaiting, receivedDone *receiving.Queue,
	processor *receiving.Processor,
	digest *receiving.DigestCache,
	router *routing.Router,
	metrics clustermetrics.Recorder,
) *Receiver {
	return &Receiver{
		cfg:             cfg,
		clk:             clk,
		selfID:          selfID,
		addrs:           addrs,
		sender:          sender,
		receivedTable:   receivedTable,
		receivedWaiting: receivedWaiting,
		receivedDone:    receivedDone,
		processor:       processor,
		digest:          digest,
		router:          router,
		metrics:         metrics,
	}
}

// Run blocks reading datagrams off conn until conn is closed (normally by
// shutdown) or a read fails after proc has begun closing. Other read
// errors are logged and reading continues.
func (r *Receiver) Run(proc goprocess.Process, conn *net.UDPConn) {
	buf := make([]byte, wire.RecvBufferSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-proc.Closing():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("socket read failed", "error", err)
			continue
		}
		source, ok := types.NewUDPAddress(addr.IP, uint16(addr.Port))
		if !ok {
			continue
		}
		r.handleDatagram(append([]byte{}, buf[:n]...), source)
	}
}

func (r *Receiver) handleDatagram(data []byte, source types.UDPAddress) {
	header, trailer, err := wire.DecodeHeader(data)
	if err != nil {
		r.metrics.FrameDropped()
		log.Warn("failed to decode frame header", "error", err)
		return
	}

	switch header.Type {
	case wire.TypeMessageChunk:
		r.handleChunk(header, trailer, source)
	case wire.TypeMessageReceiptRequest:
		r.handleReceiptRequest(header, source)
	case wire.TypeMessageNoLongerExists:
		r.addrs.Record(header.UUID.Cluster, source)
		log.Info("peer reports message context forgotten", "uuid", header.UUID)
	case wire.TypeMessageReceipt:
		r.handleReceipt(header, trailer, source)
	case wire.TypeMessageChunksNeeded:
		r.handleChunksNeeded(header, trailer, source)
	case wire.TypeMessageChunkRangesNeeded:
		r.handleChunkRangesNeeded(header, trailer, source)
	default:
		r.metrics.FrameDropped()
		log.Warn("dropping frame of unknown type", "type", header.Type)
	}
}

// addressedToUs reports whether header targets this node: broadcast, or
// destination equal to selfID.
func (r *Receiver) addressedToUs(header wire.Header) bool {
	return header.IsBroadcast() || header.Destination == r.selfID
}

// getOrCreateReceiving returns the in-flight entry for header.UUID,
// minting one if none exists — unless the digest cache shows the UUID
// already completed and cycled through retention, in which case stale is
// true and no entry is created: the caller must not re-run the
// missing-chunk protocol for a message already delivered once.
func (r *Receiver) getOrCreateReceiving(header wire.Header) (msg *receiving.Message, created, stale bool) {
	if existing, ok := r.receivedTable.Get(header.UUID); ok {
		return existing, false, false
	}
	if _, ok := r.digest.Lookup(header.UUID); ok {
		log.Info("dropping frame for already-delivered message", "uuid", header.UUID)
		return nil, false, true
	}
	msg, created = r.receivedTable.GetOrCreate(header.UUID, func() *receiving.Message {
		return receiving.NewMessage(header.UUID, header.Destination, header.TotalSize, header.ChunkSize)
	})
	if created {
		waitTill := r.clk.Now().Add(r.cfg.WaitingForAllChunksTimeout)
		msg.ArmWaiting(waitTill)
		r.receivedWaiting.Push(receiving.Entry{Key: header.UUID, ReadyAt: waitTill, Value: msg})
		r.metrics.ReceivedInFlight(1)
	}
	return msg, created, false
}

func (r *Receiver) handleChunk(header wire.Header, trailer []byte, source types.UDPAddress) {
	r.addrs.Record(header.UUID.Cluster, source)
	if !r.addressedToUs(header) {
		return
	}
	index, payload, err := wire.DecodeChunk(trailer)
	if err != nil {
		r.metrics.FrameDropped()
		return
	}
	msg, _, stale := r.getOrCreateReceiving(header)
	if stale {
		return
	}
	r.metrics.ChunkReceived()

	if msg.AddChunk(index, payload) {
		r.receivedWaiting.Remove(header.UUID)
		retainUntil := r.clk.Now().Add(r.cfg.WaitingAfterCompleteTimeout)
		msg.MarkSuccessfullyReceived(retainUntil)
		r.receivedDone.Push(receiving.Entry{Key: header.UUID, ReadyAt: retainUntil, Value: msg})
		r.processor.ProcessMessageOnce(msg, source)
	}
}

func (r *Receiver) handleReceiptRequest(header wire.Header, source types.UDPAddress) {
	r.addrs.Record(header.UUID.Cluster, source)
	if header.IsBroadcast() || header.Destination != r.selfID {
		return
	}
	r.metrics.ReceiptRequestReceived()
	msg, _, stale := r.getOrCreateReceiving(header)
	if stale {
		if err := r.router.SendTo(source, wire.EncodeReceipt(header, 0)); err != nil {
			log.Warn("failed to send receipt", "uuid", header.UUID, "error", err)
			return
		}
		r.metrics.ReceiptSent()
		return
	}

	if msg.IsComplete() {
		if err := r.router.SendTo(source, wire.EncodeReceipt(header, 0)); err != nil {
			log.Warn("failed to send receipt", "uuid", header.UUID, "error", err)
			return
		}
		r.metrics.ReceiptSent()
		return
	}
	r.sendMissingWindows(header, msg.MissingIndices(), source)
}

func (r *Receiver) sendMissingWindows(header wire.Header, missing []uint32, dest types.UDPAddress) {
	if len(missing) == 0 {
		return
	}
	for start := 0; start < len(missing); start += r.cfg.MaxMissingList {
		end := start + r.cfg.MaxMissingList
		if end > len(missing) {
			end = len(missing)
		}
		frame := wire.EncodeChunksNeeded(header, missing[start:end])
		if err := r.router.SendTo(dest, frame); err != nil {
			log.Warn("failed to send chunks-needed", "uuid", header.UUID, "error", err)
			continue
		}
		r.metrics.NackSent()
	}
}

func (r *Receiver) handleReceipt(header wire.Header, trailer []byte, source types.UDPAddress) {
	if _, err := wire.DecodeReceipt(trailer); err != nil {
		r.metrics.FrameDropped()
		return
	}
	r.metrics.ReceiptReceived()
	if !r.sender.HandleReceipt(header.UUID) {
		r.replyUnknown(header, source)
	}
}

func (r *Receiver) handleChunksNeeded(header wire.Header, trailer []byte, source types.UDPAddress) {
	indices, err := wire.DecodeChunksNeeded(trailer)
	if err != nil {
		r.metrics.FrameDropped()
		return
	}
	r.metrics.NackReceived()
	if !r.sender.HandleNack(header.UUID, indices) {
		r.replyUnknown(header, source)
	}
}

func (r *Receiver) handleChunkRangesNeeded(header wire.Header, trailer []byte, source types.UDPAddress) {
	ranges, err := wire.DecodeChunkRangesNeeded(trailer)
	if err != nil {
		r.metrics.FrameDropped()
		return
	}
	r.metrics.NackReceived()
	if !r.sender.HandleNack(header.UUID, expandRanges(ranges)) {
		r.replyUnknown(header, source)
	}
}

func (r *Receiver) replyUnknown(header wire.Header, source types.UDPAddress) {
	if err := r.router.SendTo(source, wire.EncodeNoLongerExists(header)); err != nil {
		log.Warn("failed to send message-no-longer-exists", "uuid", header.UUID, "error", err)
		return
	}
	r.metrics.UnknownUUIDReplySent()
}

// expandRanges flattens inclusive [Low, High] ranges into an index list.
func expandRanges(ranges []wire.ChunkRange) []uint32 {
	var out []uint32
	for _, rg := range ranges {
		for i := rg.Low; i <= rg.High; i++ {
			out = append(out, i)
		}
	}
	return out
}
