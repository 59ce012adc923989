package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/udpcluster/udpcluster/internal/clustercfg"
	"github.com/udpcluster/udpcluster/internal/clustermetrics"
	"github.com/udpcluster/udpcluster/pkg/interfaces"
)

// ModuleInput defines the module's input dependencies.
type ModuleInput struct {
	fx.In

	Config     *clustercfg.Config    `optional:"true"`
	Serializer interfaces.Serializer `name:"serializer"`
	Dispatcher interfaces.Dispatcher `name:"dispatcher"`
	Metrics    clustermetrics.Recorder `name:"metrics" optional:"true"`
}

// ModuleOutput defines the module's exported services.
type ModuleOutput struct {
	fx.Out

	Runtime *Runtime `name:"runtime"`
}

// ProvideServices builds the Runtime. It performs no I/O — socket binding
// and worker startup happen in registerLifecycle's OnStart hook.
func ProvideServices(in ModuleInput) (ModuleOutput, error) {
	cfg := clustercfg.DefaultConfig()
	if in.Config != nil {
		cfg = *in.Config
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return ModuleOutput{}, errs
	}

	rt := New(cfg, in.Serializer, in.Dispatcher, in.Metrics)
	return ModuleOutput{Runtime: rt}, nil
}

// Module returns the fx module wiring a cluster Runtime into the
// container: construction via ProvideServices, activation and teardown
// via the fx.Lifecycle hooks in registerLifecycle.
func Module() fx.Option {
	return fx.Module("app",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

type lifecycleInput struct {
	fx.In
	LC      fx.Lifecycle
	Runtime *Runtime `name:"runtime"`
}

func registerLifecycle(in lifecycleInput) {
	in.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return in.Runtime.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return in.Runtime.Close()
		},
	})
}
