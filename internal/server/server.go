package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	approvaldomain "github.com/velobay/freightdesk/internal/approval/domain"
	auditdomain "github.com/velobay/freightdesk/internal/audit/domain"
	carrierdomain "github.com/velobay/freightdesk/internal/carrier/domain"
	"github.com/velobay/freightdesk/internal/config"
	freightdomain "github.com/velobay/freightdesk/internal/freight/domain"
	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
	"github.com/velobay/freightdesk/internal/observability/logger"
	"github.com/velobay/freightdesk/internal/observability/metrics"
)

// Server owns the HTTP surface: route registration and the thin
// request/response translation in front of the domain services.
type Server struct {
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	engine *gin.Engine

	freightSvc    freightdomain.Service
	multiplierSvc multiplierdomain.Service
	approvalSvc   approvaldomain.Service
	carrierSvc    carrierdomain.Service
	auditSvc      auditdomain.Service

	webhookLimiter *rateLimiter
}

type ServerParam struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	Engine *gin.Engine

	FreightSvc    freightdomain.Service
	MultiplierSvc multiplierdomain.Service
	ApprovalSvc   approvaldomain.Service
	CarrierSvc    carrierdomain.Service
	AuditSvc      auditdomain.Service `optional:"true"`
}

func NewServer(p ServerParam) *Server {
	limit := p.Config.WebhookRateLimit
	if limit <= 0 {
		limit = 60
	}
	return &Server{
		cfg:            p.Config,
		db:             p.DB,
		log:            p.Log.Named("server"),
		engine:         p.Engine,
		freightSvc:     p.FreightSvc,
		multiplierSvc:  p.MultiplierSvc,
		approvalSvc:    p.ApprovalSvc,
		carrierSvc:     p.CarrierSvc,
		auditSvc:       p.AuditSvc,
		webhookLimiter: newRateLimiter(limit, time.Minute),
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(httpMetrics))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

// RegisterAPIRoutes mounts the admin and carrier endpoints under /api.
func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/zones", s.ListZones)
	api.POST("/zones/refresh", s.RefreshZones)

	api.POST("/zones/:zone_id/rates", s.CreateRate)
	api.PUT("/zones/:zone_id/rates/:rate_id", s.UpdateRate)
	api.DELETE("/zones/:zone_id/rates/:rate_id", s.DeleteRate)
	api.POST("/zones/:zone_id/rates/batch-delete", s.DeleteRates)

	api.POST("/bulk/preview", s.PreviewBulkUpdate)
	api.POST("/bulk/apply", s.ApplyBulkUpdate)

	api.POST("/combinations/generate", s.GenerateCombinations)
	api.POST("/zones/:zone_id/combinations", s.CreateCombinationRates)

	api.GET("/multipliers", s.ListMultipliers)
	api.POST("/multipliers", s.CreateMultiplier)
	api.PUT("/multipliers/:id", s.UpdateMultiplier)
	api.DELETE("/multipliers/:id", s.DeleteMultiplier)

	api.GET("/pending-changes", s.ListPendingChanges)
	api.GET("/pending-changes/count", s.CountPendingChanges)
	api.POST("/pending-changes", s.ProposeChange)
	api.PUT("/pending-changes/:id", s.AmendChange)
	api.POST("/pending-changes/:id/approve", s.ApproveChange)
	api.POST("/pending-changes/:id/reject", s.RejectChange)
	api.GET("/change-logs", s.ListChangeLogs)

	api.GET("/carrier-rates", s.ListCarrierRates)
	api.POST("/carrier-rates", s.CreateCarrierRate)
	api.PUT("/carrier-rates/:id", s.UpdateCarrierRate)
	api.DELETE("/carrier-rates/:id", s.DeleteCarrierRate)

	api.GET("/audit-logs", s.ListAuditLogs)

	// Carrier callback; the platform retries on non-200, so the handler
	// always answers 200 with an empty rate list on failure.
	s.engine.POST("/carrier/quote", s.CarrierQuote)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
