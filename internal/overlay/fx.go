package overlay

import (
	"github.com/velobay/freightdesk/internal/overlay/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("overlay",
	fx.Provide(repository.Provide),
)
