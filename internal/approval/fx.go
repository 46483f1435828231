package approval

import (
	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/approval/repository"
	"github.com/velobay/freightdesk/internal/approval/service"
)

var Module = fx.Module("approval",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
