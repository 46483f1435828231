package refresh

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/velobay/freightdesk/internal/freight/domain"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Freight domain.Service
	Config  Config `optional:"true"`
}

// Worker keeps the merged catalog snapshot warm so admin reads do not pay
// the external round trip.
type Worker struct {
	log     *zap.Logger
	freight domain.Service
	cfg     Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		log:     p.Log.Named("freight.refresh"),
		freight: p.Freight,
		cfg:     p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("catalog refresh failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, w.cfg.RunTimeout)
	defer cancel()

	_, err := w.freight.Refresh(runCtx)
	return err
}
