package app

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/jbenet/goprocess"

	"github.com/udpcluster/udpcluster/internal/addrmap"
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/internal/demux"
	"github.com/udpcluster/udpcluster/internal/identity"
	"github.com/udpcluster/udpcluster/internal/lifecycle"
	"github.com/udpcluster/udpcluster/internal/obslog"
	"github.com/udpcluster/udpcluster/internal/receiving"
	"github.com/udpcluster/udpcluster/internal/routing"
	"github.com/udpcluster/udpcluster/internal/sending"
	"github.com/udpcluster/udpcluster/internal/socket"
	"github.com/udpcluster/udpcluster/pkg/interfaces"
	"github.com/udpcluster/udpcluster/pkg/types"
)

var log = obslog.Logger("app")

// Runtime is one running cluster transport instance: a ClusterIdentity,
// its bound sockets, and the six workers from SPEC_FULL.md §2 wired
// together. Construct with New, then Start before calling Send. The
// Dispatcher passed to New is the §6 processMessage callback — Runtime
// calls it exactly once per fully-reassembled message and never
// interprets the payload itself; actor-registry routing by ClusterMessage
// variant is the root package's concern, not this engine's.
type Runtime struct {
	cfg        clustercfg.Config
	serializer interfaces.Serializer
	dispatcher interfaces.Dispatcher
	metrics    clustermetrics.Recorder
	clk        clock.Clock
	selfID     types.ClusterIdentity

	mu      sync.Mutex
	started bool
	table   *socket.Table
	group   *lifecycle.Group
	sender  *sending.Sender

	bindIPs []net.IP // overrides interface enumeration; tests only, see WithBindIPs
}

// WithBindIPs overrides Start's interface enumeration with an explicit
// set of addresses, the way internal/socket.Discover's own tests bind to
// loopback instead of requiring a real non-loopback NIC. Tests only.
func (r *Runtime) WithBindIPs(ips []net.IP) *Runtime {
	r.bindIPs = ips
	return r
}

// New constructs an unstarted Runtime. Socket binding and worker startup
// happen in Start, not here, so construction never performs I/O.
func New(cfg clustercfg.Config, serializer interfaces.Serializer, dispatcher interfaces.Dispatcher, metrics clustermetrics.Recorder) *Runtime {
	if metrics == nil {
		metrics = clustermetrics.NoOp{}
	}
	return &Runtime{
		cfg:        cfg,
		serializer: serializer,
		dispatcher: dispatcher,
		metrics:    metrics,
		clk:        clock.New(),
		selfID:     identity.NewClusterIdentity(),
	}
}

// ClusterID returns this instance's ClusterIdentity, minted once at
// construction.
func (r *Runtime) ClusterID() types.ClusterIdentity {
	return r.selfID
}

// Start binds every non-loopback interface's sockets, wires the send and
// receive state machines together through the Receiver demultiplexer, and
// launches all six SPEC_FULL.md §2 workers. Calling Start twice is a
// no-op.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}

	var table *socket.Table
	var err error
	if r.bindIPs != nil {
		table, err = socket.Discover(ctx, r.cfg, r.bindIPs)
	} else {
		table, err = socket.NewDiscoverer(r.cfg).Table(ctx)
	}
	if err != nil {
		return fmt.Errorf("app: socket discovery failed: %w", err)
	}

	addrs := addrmap.New()
	router := routing.New(table, addrs)
	group := lifecycle.NewGroup()

	sentTable := sending.NewTable()
	sentWaiting := sending.NewQueue()
	sentDone := sending.NewQueue()
	sender := sending.New(r.cfg, r.clk, router, sentTable, sentWaiting, sentDone, r.metrics)

	recvTable := receiving.NewTable()
	recvWaiting := receiving.NewQueue()
	recvDone := receiving.NewQueue()
	digest, err := receiving.NewDigestCache(r.cfg.RecentlyCompletedCacheSize)
	if err != nil {
		_ = table.Close()
		return fmt.Errorf("app: digest cache init failed: %w", err)
	}
	processor := receiving.New(recvTable, digest, r.serializer, r.dispatcher, router, r.metrics)

	receiver := demux.New(r.cfg, r.clk, r.selfID, addrs, sender, recvTable, recvWaiting, recvDone, processor, digest, router, r.metrics)

	group.Go(sender.Run)
	group.Go(sending.NewWaitingProcessor(sender).Run)
	group.Go(sending.NewCompletedCleaner(sender).Run)
	group.Go(receiving.NewWaitingProcessor(r.cfg, r.clk, recvTable, recvWaiting, addrs, router, r.metrics).Run)
	group.Go(receiving.NewCompletedCleaner(r.cfg, r.clk, recvTable, recvDone, r.metrics).Run)

	sockets := 0
	for _, binding := range table.Bindings() {
		conn := binding.Unicast
		group.Go(func(proc goprocess.Process) { receiver.Run(proc, conn) })
		sockets++
		bcast := binding.Broadcast
		group.Go(func(proc goprocess.Process) { receiver.Run(proc, bcast) })
		sockets++
	}
	r.metrics.BoundSockets(sockets)
	log.Info("cluster runtime started", "clusterId", r.selfID, "bindings", len(table.Bindings()))

	r.table = table
	r.group = group
	r.sender = sender
	r.started = true
	return nil
}

// Send mints a fresh UUID, enqueues the message with the Sender worker,
// and returns the UUID immediately — send is fire-and-forget from the
// caller's perspective; delivery state is tracked internally.
func (r *Runtime) Send(dest types.ClusterIdentity, payload []byte) (types.UUID, error) {
	r.mu.Lock()
	sender := r.sender
	r.mu.Unlock()
	if sender == nil {
		return types.UUID{}, fmt.Errorf("app: runtime not started")
	}
	id := identity.NewUUID(r.selfID)
	msg := sending.NewMessage(id, dest, payload, r.cfg.ChunkSize)
	sender.Enqueue(msg)
	return id, nil
}

// Close stops every worker and closes every bound socket. Close is safe
// to call on an unstarted or already-closed Runtime.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil
	}
	r.started = false
	// Sockets close first: each Receiver blocks in a socket read until its
	// socket is closed, and the group's Close waits for every worker.
	tableErr := r.table.Close()
	if err := r.group.Close(); err != nil {
		log.Warn("lifecycle group close reported an error", "error", err)
	}
	return tableErr
}
