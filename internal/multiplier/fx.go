package multiplier

import (
	"github.com/velobay/freightdesk/internal/multiplier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("multiplier.service",
	fx.Provide(service.NewService),
)
