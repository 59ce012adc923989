package udpcluster

import (
	"go.uber.org/fx"

	"github.com/udpcluster/udpcluster/internal/app"
	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/pkg/clustermsg"
	"github.com/udpcluster/udpcluster/pkg/interfaces"
)

// boundaryResult supplies the four values internal/app's module expects
// from outside the transport engine: the validated Config (unnamed) and
// the three named external-collaborator interfaces from pkg/interfaces
// and clustermetrics. This mirrors the teacher's own config.ProviderResult
// pattern of a single fx.Out struct feeding several named dependents.
type boundaryResult struct {
	fx.Out

	Config     *clustercfg.Config
	Serializer interfaces.Serializer   `name:"serializer"`
	Dispatcher interfaces.Dispatcher   `name:"dispatcher"`
	Metrics    clustermetrics.Recorder `name:"metrics"`
}

// newCluster resolves opts, assembles the fx container that wires
// internal/app's module together with the named Serializer, Dispatcher
// and Metrics this package provides, and pulls the built *app.Runtime
// back out through fx.Invoke the way the teacher stack's own bootstrap
// extracts its named Endpoint. The returned Cluster is unstarted.
func newCluster(appName, groupName string, opts ...Option) (*Cluster, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := DefaultConfig()
	if o.config != nil {
		cfg = *o.config
	}

	serializer := o.serializer
	if serializer == nil {
		serializer = clustermsg.NewSerializer()
	}

	metrics := o.metrics
	if metrics == nil {
		metrics = clustermetrics.NoOp{}
	}

	dispatcher := newDefaultDispatcher(o.registry, o.handler)

	c := &Cluster{
		appName:   appName,
		groupName: groupName,
		ser:       serializer,
	}

	fxOptions := append([]fx.Option{
		fx.Provide(func() boundaryResult {
			return boundaryResult{
				Config:     &cfg,
				Serializer: serializer,
				Dispatcher: dispatcher,
				Metrics:    metrics,
			}
		}),
		app.Module(),
		fx.NopLogger,
		fx.Invoke(
			fx.Annotate(
				func(rt *app.Runtime) { c.rt = rt.WithBindIPs(o.bindIPs) },
				fx.ParamTags(`name:"runtime"`),
			),
		),
	}, o.fxOptions...)

	c.fxApp = fx.New(fxOptions...)
	if err := c.fxApp.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
