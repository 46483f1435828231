package refresh

import (
	"context"

	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/config"
)

var Module = fx.Module("freight.refresh",
	fx.Provide(newConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

// newConfig derives the worker config from the process config; a zero or
// missing interval falls back to the default poll cadence.
func newConfig(cfg config.Config) Config {
	return Config{PollInterval: cfg.RefreshInterval}
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
