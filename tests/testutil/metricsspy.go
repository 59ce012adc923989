package testutil

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/udpcluster/udpcluster/internal/clustermetrics"
)

// MetricsSpy is a clustermetrics.Recorder that counts every call instead
// of exporting to Prometheus, the way internal/clustermetrics's own
// Prometheus implementation counts — but readable from a test without a
// registry scrape.
type MetricsSpy struct {
	mu sync.Mutex

	chunksSent, chunksReceived, chunksRetransmitted     int
	receiptRequestsSent, receiptRequestsReceived        int
	receiptsSent, receiptsReceived                      int
	nacksSent, nacksReceived                             int
	abandonedSending, abandonedReceiving, framesDropped  int
	unknownUUIDReplies                                   int

	sentInFlight, receivedInFlight int64
	boundSockets                   int

	calls chan string
}

// NewMetricsSpy constructs an empty MetricsSpy. calls, if non-nil sized,
// also receives the name of every method invoked, letting a test block on
// WaitForCall instead of polling a counter.
func NewMetricsSpy() *MetricsSpy {
	return &MetricsSpy{calls: make(chan string, 4096)}
}

func (m *MetricsSpy) record(name string) {
	select {
	case m.calls <- name:
	default:
	}
}

func (m *MetricsSpy) ChunkSent()      { m.mu.Lock(); m.chunksSent++; m.mu.Unlock(); m.record("ChunkSent") }
func (m *MetricsSpy) ChunkReceived()  { m.mu.Lock(); m.chunksReceived++; m.mu.Unlock(); m.record("ChunkReceived") }
func (m *MetricsSpy) ChunkRetransmitted() {
	m.mu.Lock()
	m.chunksRetransmitted++
	m.mu.Unlock()
	m.record("ChunkRetransmitted")
}
func (m *MetricsSpy) ReceiptRequestSent() {
	m.mu.Lock()
	m.receiptRequestsSent++
	m.mu.Unlock()
	m.record("ReceiptRequestSent")
}
func (m *MetricsSpy) ReceiptRequestReceived() {
	m.mu.Lock()
	m.receiptRequestsReceived++
	m.mu.Unlock()
	m.record("ReceiptRequestReceived")
}
func (m *MetricsSpy) ReceiptSent() { m.mu.Lock(); m.receiptsSent++; m.mu.Unlock(); m.record("ReceiptSent") }
func (m *MetricsSpy) ReceiptReceived() {
	m.mu.Lock()
	m.receiptsReceived++
	m.mu.Unlock()
	m.record("ReceiptReceived")
}
func (m *MetricsSpy) NackSent()     { m.mu.Lock(); m.nacksSent++; m.mu.Unlock(); m.record("NackSent") }
func (m *MetricsSpy) NackReceived() { m.mu.Lock(); m.nacksReceived++; m.mu.Unlock(); m.record("NackReceived") }
func (m *MetricsSpy) MessageAbandonedSending() {
	m.mu.Lock()
	m.abandonedSending++
	m.mu.Unlock()
	m.record("MessageAbandonedSending")
}
func (m *MetricsSpy) MessageAbandonedReceiving() {
	m.mu.Lock()
	m.abandonedReceiving++
	m.mu.Unlock()
	m.record("MessageAbandonedReceiving")
}
func (m *MetricsSpy) FrameDropped() { m.mu.Lock(); m.framesDropped++; m.mu.Unlock(); m.record("FrameDropped") }
func (m *MetricsSpy) UnknownUUIDReplySent() {
	m.mu.Lock()
	m.unknownUUIDReplies++
	m.mu.Unlock()
	m.record("UnknownUUIDReplySent")
}

func (m *MetricsSpy) SentInFlight(delta int) {
	atomic.AddInt64(&m.sentInFlight, int64(delta))
	m.record("SentInFlight")
}
func (m *MetricsSpy) ReceivedInFlight(delta int) {
	atomic.AddInt64(&m.receivedInFlight, int64(delta))
	m.record("ReceivedInFlight")
}
func (m *MetricsSpy) BoundSockets(count int) {
	m.mu.Lock()
	m.boundSockets = count
	m.mu.Unlock()
	m.record("BoundSockets")
}

// SentInFlightCount returns the current sent-in-flight gauge value.
func (m *MetricsSpy) SentInFlightCount() int { return int(atomic.LoadInt64(&m.sentInFlight)) }

// ReceiptRequestSentCount returns how many ReceiptRequestSent calls were
// observed.
func (m *MetricsSpy) ReceiptRequestSentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receiptRequestsSent
}

// ReceiptSentCount returns how many ReceiptSent calls were observed.
func (m *MetricsSpy) ReceiptSentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receiptsSent
}

// NackSentCount returns how many NackSent calls were observed.
func (m *MetricsSpy) NackSentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nacksSent
}

// UnknownUUIDReplySentCount returns how many MessageNoLongerExists replies
// were observed.
func (m *MetricsSpy) UnknownUUIDReplySentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unknownUUIDReplies
}

// WaitForCall blocks until method has been invoked at least once, or
// fails the test after timeout.
func (m *MetricsSpy) WaitForCall(t *testing.T, method string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case name := <-m.calls:
			if name == method {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for metrics call %q", method)
		}
	}
}

var _ clustermetrics.Recorder = (*MetricsSpy)(nil)
