package clustermetrics

// Recorder is the counter/gauge surface the transport reports through.
// NoOp is the default when no Recorder is supplied; the Prometheus-backed
// implementation is used only when passed in explicitly.
type Recorder interface {
	ChunkSent()
	ChunkReceived()
	ChunkRetransmitted()
	ReceiptRequestSent()
	ReceiptRequestReceived()
	ReceiptSent()
	ReceiptReceived()
	NackSent()
	NackReceived()
	MessageAbandonedSending()
	MessageAbandonedReceiving()
	FrameDropped()
	UnknownUUIDReplySent()

	SentInFlight(delta int)
	ReceivedInFlight(delta int)
	BoundSockets(count int)
}

// NoOp discards every observation. Useful in tests that don't care about
// metrics but still need a Recorder to satisfy the constructor signature.
type NoOp struct{}

func (NoOp) ChunkSent()                 {}
func (NoOp) ChunkReceived()             {}
func (NoOp) ChunkRetransmitted()        {}
func (NoOp) ReceiptRequestSent()        {}
func (NoOp) ReceiptRequestReceived()    {}
func (NoOp) ReceiptSent()               {}
func (NoOp) ReceiptReceived()           {}
func (NoOp) NackSent()                  {}
func (NoOp) NackReceived()              {}
func (NoOp) MessageAbandonedSending()   {}
func (NoOp) MessageAbandonedReceiving() {}
func (NoOp) FrameDropped()              {}
func (NoOp) UnknownUUIDReplySent()      {}
func (NoOp) SentInFlight(int)           {}
func (NoOp) ReceivedInFlight(int)       {}
func (NoOp) BoundSockets(int)           {}

var _ Recorder = NoOp{}
