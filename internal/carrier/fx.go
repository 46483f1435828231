package carrier

import (
	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/carrier/service"
)

var Module = fx.Module("carrier",
	fx.Provide(service.NewService),
)
