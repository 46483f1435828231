package catalog

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/catalog/shopify"
	"github.com/velobay/freightdesk/internal/config"
)

var Module = fx.Module("catalog",
	fx.Provide(newAdapter),
)

// newAdapter builds the remote catalog adapter. Missing credentials are
// surfaced once at startup; the client itself refuses remote calls until
// they are set.
func newAdapter(cfg config.Config, log *zap.Logger) domain.Adapter {
	if !cfg.Shopify.Configured() {
		log.Named("catalog").Warn("store credentials not configured, catalog calls will be rejected")
	}
	return shopify.NewClient(shopify.Config{
		Store:      cfg.Shopify.Store,
		Token:      cfg.Shopify.Token,
		APIVersion: cfg.Shopify.APIVersion,
	}, log)
}
