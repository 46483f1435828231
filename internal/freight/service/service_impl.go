package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/velobay/freightdesk/internal/cache"
	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/clock"
	"github.com/velobay/freightdesk/internal/freight/combo"
	"github.com/velobay/freightdesk/internal/freight/domain"
	"github.com/velobay/freightdesk/internal/freight/pricing"
	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
	"github.com/velobay/freightdesk/internal/observability/metrics"
	overlaydomain "github.com/velobay/freightdesk/internal/overlay/domain"
)

const (
	zonesCacheKey = "zones"

	maxCombinationUnits = 10
)

// Config controls snapshot caching and batch fan-out.
type Config struct {
	CacheTTL    time.Duration
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		CacheTTL:    5 * time.Minute,
		Concurrency: 4,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaults.CacheTTL
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	return c
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	catalog       catalogdomain.Adapter
	overlayRepo   overlaydomain.Repository
	multiplierSvc multiplierdomain.Service
	clock         clock.Clock
	cfg           Config

	zones  *cache.TTLCache[string, []catalogdomain.Zone]
	bulk   *metrics.BulkMetrics
	refMu  sync.Mutex
	lastAt time.Time
}

type ServiceParam struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Catalog       catalogdomain.Adapter
	OverlayRepo   overlaydomain.Repository
	MultiplierSvc multiplierdomain.Service
	Clock         clock.Clock
	Config        Config `optional:"true"`
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("freight.service"),
		catalog:       p.Catalog,
		overlayRepo:   p.OverlayRepo,
		multiplierSvc: p.MultiplierSvc,
		clock:         p.Clock,
		cfg:           p.Config.withDefaults(),
		zones:         cache.NewTTLCache[string, []catalogdomain.Zone](),
		bulk:          metrics.Bulk(),
	}
}

// Zones returns the merged snapshot, refreshing it when the cache has
// expired.
func (s *Service) Zones(ctx context.Context) ([]catalogdomain.Zone, error) {
	if zones, ok := s.zones.Get(zonesCacheKey); ok {
		s.bulk.SetRefreshAge(s.clock.Now().Sub(s.refreshedAt()))
		return zones, nil
	}
	return s.Refresh(ctx)
}

// Refresh pulls the external catalog, layers the local overlay on top and
// replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) ([]catalogdomain.Zone, error) {
	s.refMu.Lock()
	defer s.refMu.Unlock()

	zones, err := s.catalog.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	extras, err := s.overlayRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	zoneCount := 0
	for zi := range zones {
		zone := &zones[zi]
		zoneCount++
		for ri := range zone.Rates {
			mergeRate(&zone.Rates[ri], zone.ID, extras)
		}
	}

	s.zones.Set(zonesCacheKey, zones, s.cfg.CacheTTL)
	now := s.clock.Now()
	s.lastAt = now
	s.bulk.SetCatalogZones(zoneCount)
	s.bulk.SetRefreshAge(0)

	s.log.Info("catalog snapshot refreshed", zap.Int("zones", zoneCount))
	return zones, nil
}

// mergeRate layers overlay extras over a remote rate. Category precedence
// is overlay, then weight inference, then the remote value; the inference
// runs against the merged weight bounds.
func mergeRate(rate *catalogdomain.Rate, zoneID string, extras map[catalogdomain.RateKey]overlaydomain.RateExtras) {
	overlayCategory := false
	if extra, ok := extras[catalogdomain.RateKey{ZoneID: zoneID, RateID: rate.ID}]; ok {
		if extra.Description != nil {
			rate.Description = *extra.Description
		}
		if extra.MinWeight != nil {
			rate.MinWeight = extra.MinWeight
		}
		if extra.MaxWeight != nil {
			rate.MaxWeight = extra.MaxWeight
		}
		if extra.EstimatedDays != nil {
			rate.EstimatedDays = *extra.EstimatedDays
		}
		if extra.Category != nil {
			rate.Category = *extra.Category
			overlayCategory = true
		}
	}
	if !overlayCategory {
		if inferred := domain.InferCategory(rate.MinWeight, rate.MaxWeight); inferred != "" {
			rate.Category = inferred
		}
	}
}

func (s *Service) UpdateRate(ctx context.Context, req domain.UpdateRateRequest) error {
	zoneID := strings.TrimSpace(req.ZoneID)
	rateID := strings.TrimSpace(req.RateID)
	if zoneID == "" {
		return domain.ErrInvalidZone
	}
	if rateID == "" {
		return domain.ErrInvalidRate
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return domain.ErrInvalidCurrency
	}

	key := catalogdomain.RateKey{ZoneID: zoneID, RateID: rateID}
	price := req.Price
	patch := catalogdomain.RatePatch{
		Name:        &name,
		Price:       &price,
		Currency:    &currency,
		Description: req.Description,
		MinWeight:   catalogdomain.WeightPatch{Set: true, Value: req.MinWeight},
		MaxWeight:   catalogdomain.WeightPatch{Set: true, Value: req.MaxWeight},
	}
	if err := s.catalog.UpdateRate(ctx, key, patch); err != nil {
		return err
	}

	// The remote write succeeded; the overlay write must not undo it.
	extras := &overlaydomain.RateExtras{
		RateID:        rateID,
		ZoneID:        zoneID,
		MinWeight:     req.MinWeight,
		MaxWeight:     req.MaxWeight,
		EstimatedDays: req.EstimatedDays,
		Description:   req.Description,
		Category:      req.Category,
	}
	if err := s.overlayRepo.Upsert(ctx, s.db, extras); err != nil {
		s.log.Error("overlay write failed after remote update",
			zap.String("rate_key", key.String()),
			zap.Error(err))
		return err
	}

	s.refreshAfterWrite(ctx)
	return nil
}

func (s *Service) CreateRate(ctx context.Context, req domain.CreateRateRequest) error {
	zoneID := strings.TrimSpace(req.ZoneID)
	if zoneID == "" {
		return domain.ErrInvalidZone
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return domain.ErrInvalidCurrency
	}

	err := s.catalog.CreateRate(ctx, zoneID, catalogdomain.CreateRate{
		Name:        name,
		Price:       req.Price,
		Currency:    currency,
		Description: req.Description,
		MinWeight:   req.MinWeight,
		MaxWeight:   req.MaxWeight,
	})
	if err != nil {
		return err
	}

	s.refreshAfterWrite(ctx)
	return nil
}

func (s *Service) DeleteRate(ctx context.Context, zoneID, rateID string) error {
	zoneID = strings.TrimSpace(zoneID)
	rateID = strings.TrimSpace(rateID)
	if zoneID == "" {
		return domain.ErrInvalidZone
	}
	if rateID == "" {
		return domain.ErrInvalidRate
	}

	key := catalogdomain.RateKey{ZoneID: zoneID, RateID: rateID}
	if err := s.catalog.DeleteRate(ctx, key); err != nil {
		return err
	}
	if err := s.overlayRepo.Delete(ctx, s.db, key); err != nil {
		s.log.Warn("overlay cleanup failed after remote delete",
			zap.String("rate_key", key.String()),
			zap.Error(err))
	}

	s.refreshAfterWrite(ctx)
	return nil
}

func (s *Service) PreviewBulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) ([]domain.PreviewRow, error) {
	rows, _, err := s.computeBulkRows(ctx, req)
	return rows, err
}

func (s *Service) ApplyBulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) (domain.BatchResult, error) {
	rows, candidates, err := s.computeBulkRows(ctx, req)
	if err != nil {
		return domain.BatchResult{}, err
	}

	started := s.clock.Now()
	result := s.runBatch(ctx, "bulk_update", len(rows), func(g *errgroup.Group, report func(domain.BatchError)) {
		for i := range rows {
			row := rows[i]
			rate := candidates[i].Rate
			g.Go(func() error {
				name := rate.Name
				price := row.NewPrice
				currency := rate.Currency
				err := s.catalog.UpdateRate(ctx, catalogdomain.RateKey{ZoneID: row.ZoneID, RateID: row.RateID}, catalogdomain.RatePatch{
					Name:     &name,
					Price:    &price,
					Currency: &currency,
				})
				if err != nil {
					report(domain.BatchError{
						ZoneID:  row.ZoneID,
						RateID:  row.RateID,
						Name:    row.RateName,
						Message: err.Error(),
					})
				}
				return nil
			})
		}
	})
	s.bulk.ObserveBatchDuration("bulk_update", s.clock.Now().Sub(started))

	s.refreshAfterWrite(ctx)
	return result, nil
}

// computeBulkRows filters the snapshot and prices every candidate. It is
// shared by preview and apply so the applied change is exactly what was
// shown.
func (s *Service) computeBulkRows(ctx context.Context, req domain.BulkUpdateRequest) ([]domain.PreviewRow, []domain.ZoneRate, error) {
	factor, err := s.multiplierSvc.ResolveFactor(ctx, req.MultiplierID)
	if err != nil {
		return nil, nil, err
	}
	if !req.Operation.Valid() || !req.Operation.Active(factor != nil) {
		return nil, nil, domain.ErrInvalidOperation
	}

	zones, err := s.Zones(ctx)
	if err != nil {
		return nil, nil, err
	}
	candidates := domain.FilterRates(zones, req.Selector)
	if len(candidates) == 0 {
		return nil, nil, domain.ErrNoCandidates
	}

	rows := make([]domain.PreviewRow, 0, len(candidates))
	for _, zr := range candidates {
		next := pricing.Final(zr.Rate.Price, req.Operation, factor)
		rows = append(rows, domain.PreviewRow{
			ZoneID:       zr.Zone.ID,
			ZoneName:     zr.Zone.Name,
			RateID:       zr.Rate.ID,
			RateName:     zr.Rate.Name,
			Currency:     zr.Rate.Currency,
			CurrentPrice: zr.Rate.Price,
			NewPrice:     next,
			Diff:         pricing.Diff(zr.Rate.Price, next),
		})
	}
	return rows, candidates, nil
}

func (s *Service) GenerateCombinations(req domain.GenerateRequest) ([]combo.Combination, error) {
	if req.MaxUnits < 1 || req.MaxUnits > maxCombinationUnits {
		return nil, domain.ErrInvalidMaxUnits
	}
	return combo.Generate(req.Units, req.MaxUnits, req.CustomLabel), nil
}

func (s *Service) CreateCombinationRates(ctx context.Context, req domain.CreateCombinationsRequest) (domain.BatchResult, error) {
	zoneID := strings.TrimSpace(req.ZoneID)
	if zoneID == "" {
		return domain.BatchResult{}, domain.ErrInvalidZone
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		return domain.BatchResult{}, domain.ErrInvalidCurrency
	}
	if len(req.Combinations) == 0 {
		return domain.BatchResult{}, domain.ErrNoCandidates
	}

	started := s.clock.Now()
	result := s.runBatch(ctx, "combo_create", len(req.Combinations), func(g *errgroup.Group, report func(domain.BatchError)) {
		for _, c := range req.Combinations {
			c := c
			g.Go(func() error {
				weight := c.TotalWeight
				err := s.catalog.CreateRate(ctx, zoneID, catalogdomain.CreateRate{
					Name:        c.Name,
					Price:       c.TotalPrice,
					Currency:    currency,
					Description: c.Description,
					MinWeight:   &weight,
					MaxWeight:   &weight,
				})
				if err != nil {
					report(domain.BatchError{
						ZoneID:  zoneID,
						Name:    c.Name,
						Message: err.Error(),
					})
				}
				return nil
			})
		}
	})
	s.bulk.ObserveBatchDuration("combo_create", s.clock.Now().Sub(started))

	s.refreshAfterWrite(ctx)
	return result, nil
}

func (s *Service) DeleteRates(ctx context.Context, zoneID string, rateIDs []string) (domain.BatchResult, error) {
	zoneID = strings.TrimSpace(zoneID)
	if zoneID == "" {
		return domain.BatchResult{}, domain.ErrInvalidZone
	}
	if len(rateIDs) == 0 {
		return domain.BatchResult{}, domain.ErrNoCandidates
	}

	started := s.clock.Now()
	result := s.runBatch(ctx, "bulk_delete", len(rateIDs), func(g *errgroup.Group, report func(domain.BatchError)) {
		for _, rateID := range rateIDs {
			rateID := rateID
			g.Go(func() error {
				key := catalogdomain.RateKey{ZoneID: zoneID, RateID: rateID}
				if err := s.catalog.DeleteRate(ctx, key); err != nil {
					report(domain.BatchError{
						ZoneID:  zoneID,
						RateID:  rateID,
						Message: err.Error(),
					})
					return nil
				}
				if err := s.overlayRepo.Delete(ctx, s.db, key); err != nil {
					s.log.Warn("overlay cleanup failed after remote delete",
						zap.String("rate_key", key.String()),
						zap.Error(err))
				}
				return nil
			})
		}
	})
	s.bulk.ObserveBatchDuration("bulk_delete", s.clock.Now().Sub(started))

	s.refreshAfterWrite(ctx)
	return result, nil
}

// runBatch fans items out across a bounded worker group, continuing past
// per-item failures and accounting the outcome.
func (s *Service) runBatch(ctx context.Context, operation string, total int, launch func(g *errgroup.Group, report func(domain.BatchError))) domain.BatchResult {
	var (
		mu     sync.Mutex
		errs   []domain.BatchError
		failed int
	)
	report := func(e domain.BatchError) {
		mu.Lock()
		errs = append(errs, e)
		failed++
		mu.Unlock()
		s.bulk.IncItemProcessed(operation, "failed")
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	launch(g, report)
	_ = g.Wait()

	succeeded := total - failed
	for i := 0; i < succeeded; i++ {
		s.bulk.IncItemProcessed(operation, "success")
	}

	if failed > 0 {
		s.log.Warn("batch finished with failures",
			zap.String("operation", operation),
			zap.Int("total", total),
			zap.Int("failed", failed))
	}
	return domain.BatchResult{
		Total:     total,
		Succeeded: succeeded,
		Failed:    failed,
		Errors:    errs,
	}
}

// refreshAfterWrite is best effort: the write already happened, a stale
// cache only delays visibility until the next poll.
func (s *Service) refreshAfterWrite(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("refresh after write failed", zap.Error(err))
	}
}

func (s *Service) refreshedAt() time.Time {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	return s.lastAt
}
