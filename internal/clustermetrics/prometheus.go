package clustermetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is the default Recorder, registering every counter and gauge
// under a single namespace per cluster instance (SPEC_FULL.md §4.7).
type Prometheus struct {
	chunksSent            prometheus.Counter
	chunksReceived        prometheus.Counter
	chunksRetransmitted   prometheus.Counter
	receiptRequestsSent   prometheus.Counter
	receiptRequestsRecv   prometheus.Counter
	receiptsSent          prometheus.Counter
	receiptsReceived      prometheus.Counter
	nacksSent             prometheus.Counter
	nacksReceived         prometheus.Counter
	abandonedSending      prometheus.Counter
	abandonedReceiving    prometheus.Counter
	framesDropped         prometheus.Counter
	unknownUUIDReplies    prometheus.Counter

	sentInFlight     prometheus.Gauge
	receivedInFlight prometheus.Gauge
	boundSockets     prometheus.Gauge
}

// NewPrometheus constructs a Prometheus recorder and registers every
// metric it owns on reg under namespace "cluster", label
// {instance: instanceName}.
func NewPrometheus(reg prometheus.Registerer, instanceName string) *Prometheus {
	constLabels := prometheus.Labels{"instance": instanceName}
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cluster",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
		reg.MustRegister(c)
		return c
	}
	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "cluster",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
		reg.MustRegister(g)
		return g
	}

	return &Prometheus{
		chunksSent:          counter("chunks_sent_total", "chunks transmitted"),
		chunksReceived:      counter("chunks_received_total", "chunks received"),
		chunksRetransmitted: counter("chunks_retransmitted_total", "chunks re-sent in response to a nack"),
		receiptRequestsSent: counter("receipt_requests_sent_total", "MessageReceiptRequest frames sent"),
		receiptRequestsRecv: counter("receipt_requests_received_total", "MessageReceiptRequest frames received"),
		receiptsSent:        counter("receipts_sent_total", "MessageReceipt frames sent"),
		receiptsReceived:    counter("receipts_received_total", "MessageReceipt frames received"),
		nacksSent:           counter("nacks_sent_total", "MessageChunksNeeded/MessageChunkRangesNeeded frames sent"),
		nacksReceived:       counter("nacks_received_total", "MessageChunksNeeded/MessageChunkRangesNeeded frames received"),
		abandonedSending:    counter("messages_abandoned_sending_total", "send-side retry exhaustion"),
		abandonedReceiving:  counter("messages_abandoned_receiving_total", "receive-side retry exhaustion"),
		framesDropped:       counter("frames_dropped_total", "unparseable or unknown-type frames dropped"),
		unknownUUIDReplies:  counter("unknown_uuid_replies_sent_total", "MessageNoLongerExists replies sent"),
		sentInFlight:        gauge("sent_in_flight", "entries currently in the sent table"),
		receivedInFlight:    gauge("received_in_flight", "entries currently in the received table"),
		boundSockets:        gauge("bound_sockets", "sockets currently bound"),
	}
}

func (p *Prometheus) ChunkSent()                 { p.chunksSent.Inc() }
func (p *Prometheus) ChunkReceived()             { p.chunksReceived.Inc() }
func (p *Prometheus) ChunkRetransmitted()        { p.chunksRetransmitted.Inc() }
func (p *Prometheus) ReceiptRequestSent()        { p.receiptRequestsSent.Inc() }
func (p *Prometheus) ReceiptRequestReceived()    { p.receiptRequestsRecv.Inc() }
func (p *Prometheus) ReceiptSent()               { p.receiptsSent.Inc() }
func (p *Prometheus) ReceiptReceived()           { p.receiptsReceived.Inc() }
func (p *Prometheus) NackSent()                  { p.nacksSent.Inc() }
func (p *Prometheus) NackReceived()              { p.nacksReceived.Inc() }
func (p *Prometheus) MessageAbandonedSending()   { p.abandonedSending.Inc() }
func (p *Prometheus) MessageAbandonedReceiving() { p.abandonedReceiving.Inc() }
func (p *Prometheus) FrameDropped()              { p.framesDropped.Inc() }
func (p *Prometheus) UnknownUUIDReplySent()      { p.unknownUUIDReplies.Inc() }

func (p *Prometheus) SentInFlight(delta int)     { p.sentInFlight.Add(float64(delta)) }
func (p *Prometheus) ReceivedInFlight(delta int) { p.receivedInFlight.Add(float64(delta)) }
func (p *Prometheus) BoundSockets(count int)     { p.boundSockets.Set(float64(count)) }

var _ Recorder = (*Prometheus)(nil)
