package audit

import (
	"go.uber.org/fx"

	"github.com/velobay/freightdesk/internal/audit/repository"
	"github.com/velobay/freightdesk/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
