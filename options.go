package udpcluster

import (
	"net"

	"go.uber.org/fx"

	"github.com/udpcluster/udpcluster/internal/clustermetrics"
)

// options collects every Option's effect before a Cluster is built.
type options struct {
	config     *Config
	registry   ActorRegistry
	serializer Serializer
	handler    MessageHandler
	metrics    clustermetrics.Recorder
	fxOptions  []fx.Option
	bindIPs    []net.IP
}

// Option configures a Cluster at construction. Pass any number to
// GetCluster.
type Option func(*options)

// WithConfig overrides the transport's default tunables (port range,
// chunk size, retry caps, retention windows). Meant for tests and for
// embedders tuning a specific link — see Config's doc comment.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = &cfg }
}

// WithActorRegistry supplies the registry the default Dispatcher uses to
// route TargetedByUUID/TargetedByClassName/TargetedByID messages to
// locally-registered actors. Without one, targeted messages go to the
// MessageHandler, if one is set.
func WithActorRegistry(registry ActorRegistry) Option {
	return func(o *options) { o.registry = registry }
}

// WithSerializer overrides the default clustermsg-based Serializer. Use
// this to move raw bytes or a different wire format instead of tagged
// Message values; the default Dispatcher's variant routing then no
// longer applies, since it switches on Message values specifically.
func WithSerializer(s Serializer) Option {
	return func(o *options) { o.serializer = s }
}

// WithMessageHandler sets the callback for every Message the default
// Dispatcher does not route to a specific actor.
func WithMessageHandler(h MessageHandler) Option {
	return func(o *options) { o.handler = h }
}

// WithMetrics sets the metrics recorder. Without it, a Cluster records
// through clustermetrics.NoOp, which discards everything; no Prometheus
// recorder is wired in by default.
func WithMetrics(m clustermetrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithFxOptions appends arbitrary fx.Option values to the container that
// builds a Cluster, the way the teacher stack's own userFxOptions
// extension point works. For advanced embedders only.
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) { o.fxOptions = append(o.fxOptions, opts...) }
}

// WithBindIPs overrides socket discovery's interface enumeration with an
// explicit set of addresses, binding exactly those instead of every
// non-loopback interface. Intended for tests that need deterministic
// loopback binding rather than a real multi-homed host.
func WithBindIPs(ips ...net.IP) Option {
	return func(o *options) { o.bindIPs = ips }
}
