// @title           FreightDesk API
// @version         1.0
// @description     FreightDesk shipping rate administration API
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@velobay.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/velobay/freightdesk/internal/approval"
	"github.com/velobay/freightdesk/internal/audit"
	"github.com/velobay/freightdesk/internal/carrier"
	"github.com/velobay/freightdesk/internal/catalog"
	"github.com/velobay/freightdesk/internal/clock"
	"github.com/velobay/freightdesk/internal/config"
	"github.com/velobay/freightdesk/internal/freight"
	"github.com/velobay/freightdesk/internal/freight/refresh"
	"github.com/velobay/freightdesk/internal/migration"
	"github.com/velobay/freightdesk/internal/multiplier"
	"github.com/velobay/freightdesk/internal/observability"
	"github.com/velobay/freightdesk/internal/overlay"
	"github.com/velobay/freightdesk/internal/seed"
	"github.com/velobay/freightdesk/internal/server"
	"github.com/velobay/freightdesk/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(Bootstrap),

		// Catalog and shipping domain
		catalog.Module,
		overlay.Module,
		multiplier.Module,
		freight.Module,
		refresh.Module,
		approval.Module,
		carrier.Module,
		audit.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// Bootstrap runs schema migrations and optional dev seeding before any
// service resolves against the database.
func Bootstrap(cfg config.Config, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		return err
	}
	if cfg.Bootstrap.SeedDefaults {
		return seed.EnsureDefaultMultipliers(conn)
	}
	return nil
}
