package freight

import (
	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/freight/service"
)

var Module = fx.Module("freight.service",
	fx.Provide(service.NewService),
)
