package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/freight/combo"
	"github.com/velobay/freightdesk/internal/freight/domain"
	"github.com/velobay/freightdesk/internal/freight/pricing"
	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
	overlaydomain "github.com/velobay/freightdesk/internal/overlay/domain"
	overlayrepository "github.com/velobay/freightdesk/internal/overlay/repository"
)

type testClock struct{ at time.Time }

func (c testClock) Now() time.Time { return c.at }

type fakeAdapter struct {
	mu        sync.Mutex
	zones     []catalogdomain.Zone
	listCalls int
	updates   map[string]catalogdomain.RatePatch
	creates   []catalogdomain.CreateRate
	deletes   []catalogdomain.RateKey
	failRates map[string]error
}

func newFakeAdapter(zones []catalogdomain.Zone) *fakeAdapter {
	return &fakeAdapter{
		zones:     zones,
		updates:   map[string]catalogdomain.RatePatch{},
		failRates: map[string]error{},
	}
}

func (f *fakeAdapter) ListZones(ctx context.Context) ([]catalogdomain.Zone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	// Deep-ish copy so merge mutations do not leak into the fixture.
	out := make([]catalogdomain.Zone, len(f.zones))
	for i, z := range f.zones {
		out[i] = z
		out[i].Rates = append([]catalogdomain.Rate(nil), z.Rates...)
	}
	return out, nil
}

func (f *fakeAdapter) CreateRate(ctx context.Context, zoneID string, rate catalogdomain.CreateRate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failRates[rate.Name]; ok {
		return err
	}
	f.creates = append(f.creates, rate)
	return nil
}

func (f *fakeAdapter) UpdateRate(ctx context.Context, key catalogdomain.RateKey, patch catalogdomain.RatePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failRates[key.RateID]; ok {
		return err
	}
	f.updates[key.String()] = patch
	return nil
}

func (f *fakeAdapter) DeleteRate(ctx context.Context, key catalogdomain.RateKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failRates[key.RateID]; ok {
		return err
	}
	f.deletes = append(f.deletes, key)
	return nil
}

type fakeMultipliers struct {
	factors map[string]decimal.Decimal
}

func (f fakeMultipliers) List(ctx context.Context) ([]multiplierdomain.Multiplier, error) {
	return nil, nil
}

func (f fakeMultipliers) Get(ctx context.Context, id string) (*multiplierdomain.Multiplier, error) {
	return nil, multiplierdomain.ErrNotFound
}

func (f fakeMultipliers) Create(ctx context.Context, req multiplierdomain.CreateRequest) (*multiplierdomain.Multiplier, error) {
	return nil, nil
}

func (f fakeMultipliers) Update(ctx context.Context, req multiplierdomain.UpdateRequest) (*multiplierdomain.Multiplier, error) {
	return nil, nil
}

func (f fakeMultipliers) Delete(ctx context.Context, id string) error { return nil }

func (f fakeMultipliers) ResolveFactor(ctx context.Context, id string) (*decimal.Decimal, error) {
	if factor, ok := f.factors[id]; ok {
		v := factor
		return &v, nil
	}
	return nil, nil
}

func fixtureZones() []catalogdomain.Zone {
	minRoad := 15.0
	return []catalogdomain.Zone{
		{
			ID:        "zone-1",
			Name:      "Germany",
			Countries: []string{"DE"},
			Rates: []catalogdomain.Rate{
				{ID: "rate-1", Name: "1 Bike (15kg)", Price: decimal.NewFromInt(100), Currency: "EUR", MinWeight: &minRoad, MaxWeight: &minRoad},
				{ID: "rate-2", Name: "Freight", Price: decimal.NewFromInt(200), Currency: "EUR"},
			},
		},
		{
			ID:        "zone-2",
			Name:      "France",
			Countries: []string{"FR"},
			Rates: []catalogdomain.Rate{
				{ID: "rate-3", Name: "Freight FR", Price: decimal.NewFromInt(150), Currency: "EUR"},
			},
		},
	}
}

func setupFreightTest(t *testing.T, adapter *fakeAdapter, multipliers multiplierdomain.Service) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&overlaydomain.RateExtras{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewService(ServiceParam{
		DB:            db,
		Log:           zap.NewNop(),
		Catalog:       adapter,
		OverlayRepo:   overlayrepository.Provide(),
		MultiplierSvc: multipliers,
		Clock:         testClock{at: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}).(*Service)
	return svc, db
}

func TestZonesMergesOverlayAndInfersCategory(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, db := setupFreightTest(t, adapter, fakeMultipliers{})

	category := "E-Bike"
	days := "10-65 days"
	if err := db.Create(&overlaydomain.RateExtras{
		RateID:        "rate-2",
		ZoneID:        "zone-1",
		Category:      &category,
		EstimatedDays: &days,
	}).Error; err != nil {
		t.Fatalf("seed overlay: %v", err)
	}

	zones, err := svc.Zones(context.Background())
	if err != nil {
		t.Fatalf("zones: %v", err)
	}

	rates := zones[0].Rates
	if rates[0].Category != "Road Bike" {
		t.Fatalf("rate-1 category = %q, want Road Bike (inferred from 15kg)", rates[0].Category)
	}
	if rates[1].Category != "E-Bike" {
		t.Fatalf("rate-2 category = %q, want overlay value", rates[1].Category)
	}
	if rates[1].EstimatedDays != days {
		t.Fatalf("rate-2 estimated days = %q, want %q", rates[1].EstimatedDays, days)
	}
}

func TestZonesInferredCategoryBeatsRemoteLabel(t *testing.T) {
	mountain := 18.0
	adapter := newFakeAdapter([]catalogdomain.Zone{
		{
			ID:        "zone-1",
			Name:      "Germany",
			Countries: []string{"DE"},
			Rates: []catalogdomain.Rate{
				{ID: "rate-1", Name: "1 Bike (18kg)", Price: decimal.NewFromInt(120), Currency: "EUR", Category: "Freight Class A", MinWeight: &mountain, MaxWeight: &mountain},
				{ID: "rate-2", Name: "Pallet", Price: decimal.NewFromInt(300), Currency: "EUR", Category: "Freight Class A"},
			},
		},
	})
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{})

	zones, err := svc.Zones(context.Background())
	if err != nil {
		t.Fatalf("zones: %v", err)
	}

	rates := zones[0].Rates
	if rates[0].Category != "Mountain Bike" {
		t.Fatalf("rate-1 category = %q, want inferred Mountain Bike over the remote label", rates[0].Category)
	}
	// Remote label survives only when the weight implies nothing.
	if rates[1].Category != "Freight Class A" {
		t.Fatalf("rate-2 category = %q, want remote label", rates[1].Category)
	}
}

func TestZonesServesFromCache(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{})

	if _, err := svc.Zones(context.Background()); err != nil {
		t.Fatalf("zones: %v", err)
	}
	if _, err := svc.Zones(context.Background()); err != nil {
		t.Fatalf("zones: %v", err)
	}
	if adapter.listCalls != 1 {
		t.Fatalf("remote list calls = %d, want 1", adapter.listCalls)
	}

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if adapter.listCalls != 2 {
		t.Fatalf("remote list calls after refresh = %d, want 2", adapter.listCalls)
	}
}

func TestUpdateRatePushesRemoteAndOverlay(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, db := setupFreightTest(t, adapter, fakeMultipliers{})

	minW, maxW := 15.0, 33.0
	desc := "1x Road Bike + 1x Mountain Bike"
	category := "Road Bike + Mountain Bike"
	err := svc.UpdateRate(context.Background(), domain.UpdateRateRequest{
		ZoneID:      "zone-1",
		RateID:      "rate-1",
		Name:        "2 Bikes (33kg)",
		Price:       decimal.NewFromInt(180),
		Currency:    "eur",
		Description: &desc,
		MinWeight:   &minW,
		MaxWeight:   &maxW,
		Category:    &category,
	})
	if err != nil {
		t.Fatalf("update rate: %v", err)
	}

	patch, ok := adapter.updates["zone-1/rate-1"]
	if !ok {
		t.Fatal("remote update not recorded")
	}
	if *patch.Name != "2 Bikes (33kg)" || !patch.Price.Equal(decimal.NewFromInt(180)) || *patch.Currency != "EUR" {
		t.Fatalf("unexpected patch: %+v", patch)
	}
	if !patch.MaxWeight.Set || *patch.MaxWeight.Value != 33.0 {
		t.Fatalf("max weight not pushed: %+v", patch.MaxWeight)
	}

	var extras overlaydomain.RateExtras
	if err := db.First(&extras, "rate_id = ? AND zone_id = ?", "rate-1", "zone-1").Error; err != nil {
		t.Fatalf("load overlay: %v", err)
	}
	if extras.Category == nil || *extras.Category != category {
		t.Fatalf("overlay category = %v, want %q", extras.Category, category)
	}
}

func TestUpdateRateValidation(t *testing.T) {
	svc, _ := setupFreightTest(t, newFakeAdapter(nil), fakeMultipliers{})

	cases := []struct {
		req  domain.UpdateRateRequest
		want error
	}{
		{domain.UpdateRateRequest{RateID: "r", Name: "n", Currency: "EUR"}, domain.ErrInvalidZone},
		{domain.UpdateRateRequest{ZoneID: "z", Name: "n", Currency: "EUR"}, domain.ErrInvalidRate},
		{domain.UpdateRateRequest{ZoneID: "z", RateID: "r", Currency: "EUR"}, domain.ErrInvalidName},
		{domain.UpdateRateRequest{ZoneID: "z", RateID: "r", Name: "n"}, domain.ErrInvalidCurrency},
		{domain.UpdateRateRequest{ZoneID: "z", RateID: "r", Name: "n", Currency: "EUR", Price: decimal.NewFromInt(-1)}, domain.ErrInvalidPrice},
	}
	for _, tc := range cases {
		if err := svc.UpdateRate(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("req %+v: got %v, want %v", tc.req, err, tc.want)
		}
	}
}

func TestPreviewBulkUpdateWithMultiplier(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	factor := decimal.NewFromFloat(1.5)
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{factors: map[string]decimal.Decimal{"77": factor}})

	operand := decimal.NewFromInt(20)
	rows, err := svc.PreviewBulkUpdate(context.Background(), domain.BulkUpdateRequest{
		Selector:     domain.RateSelector{ZoneIDs: []string{"zone-1"}},
		Operation:    pricing.Operation{Kind: pricing.KindSubtract, Operand: &operand},
		MultiplierID: "77",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// (100 - 20) * 1.5 = 120.
	if !rows[0].NewPrice.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("rate-1 new price = %s, want 120", rows[0].NewPrice)
	}
	if !rows[0].Diff.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("rate-1 diff = %s, want 20", rows[0].Diff)
	}
	// (200 - 20) * 1.5 = 270.
	if !rows[1].NewPrice.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("rate-2 new price = %s, want 270", rows[1].NewPrice)
	}
}

func TestPreviewBulkUpdateErrors(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{})

	_, err := svc.PreviewBulkUpdate(context.Background(), domain.BulkUpdateRequest{
		Operation: pricing.Operation{Kind: pricing.KindFixed},
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for fixed without operand, got %v", err)
	}

	_, err = svc.PreviewBulkUpdate(context.Background(), domain.BulkUpdateRequest{
		Selector:  domain.RateSelector{ZoneIDs: []string{"zone-404"}},
		Operation: pricing.Operation{Kind: pricing.KindFree},
	})
	if !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestApplyBulkUpdateContinuesPastFailures(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	adapter.failRates["rate-2"] = catalogdomain.ErrRemoteRejected
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{})

	result, err := svc.ApplyBulkUpdate(context.Background(), domain.BulkUpdateRequest{
		Selector:  domain.RateSelector{ZoneIDs: []string{"zone-1"}},
		Operation: pricing.Operation{Kind: pricing.KindFree},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Total != 2 || result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 2/1/1", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].RateID != "rate-2" {
		t.Fatalf("errors = %+v", result.Errors)
	}

	patch := adapter.updates["zone-1/rate-1"]
	if patch.Price == nil || !patch.Price.Equal(decimal.Zero) {
		t.Fatalf("free operation should zero the price, got %v", patch.Price)
	}
}

func TestCreateCombinationRatesSetsWeightBounds(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, _ := setupFreightTest(t, adapter, fakeMultipliers{})

	result, err := svc.CreateCombinationRates(context.Background(), domain.CreateCombinationsRequest{
		ZoneID:   "zone-1",
		Currency: "EUR",
		Combinations: []combo.Combination{
			{
				Name:        "2 Bikes (33kg): 1x 15kg + 1x 18kg",
				Description: "1x Road Bike + 1x Mountain Bike | Total: 33kg",
				TotalPrice:  decimal.NewFromInt(220),
				TotalWeight: 33,
			},
		},
	})
	if err != nil {
		t.Fatalf("create combinations: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("result = %+v", result)
	}

	created := adapter.creates[0]
	if created.MinWeight == nil || created.MaxWeight == nil ||
		*created.MinWeight != 33 || *created.MaxWeight != 33 {
		t.Fatalf("weight bounds = %v/%v, want 33/33", created.MinWeight, created.MaxWeight)
	}
	if !created.Price.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("price = %s, want 220", created.Price)
	}
}

func TestDeleteRatesCleansOverlay(t *testing.T) {
	adapter := newFakeAdapter(fixtureZones())
	svc, db := setupFreightTest(t, adapter, fakeMultipliers{})

	if err := db.Create(&overlaydomain.RateExtras{RateID: "rate-1", ZoneID: "zone-1"}).Error; err != nil {
		t.Fatalf("seed overlay: %v", err)
	}

	result, err := svc.DeleteRates(context.Background(), "zone-1", []string{"rate-1", "rate-2"})
	if err != nil {
		t.Fatalf("delete rates: %v", err)
	}
	if result.Succeeded != 2 {
		t.Fatalf("result = %+v", result)
	}

	var count int64
	if err := db.Model(&overlaydomain.RateExtras{}).Count(&count).Error; err != nil {
		t.Fatalf("count overlay: %v", err)
	}
	if count != 0 {
		t.Fatalf("overlay rows = %d, want 0", count)
	}
}

func TestGenerateCombinationsBounds(t *testing.T) {
	svc, _ := setupFreightTest(t, newFakeAdapter(nil), fakeMultipliers{})

	units := []combo.Unit{{ID: "road", Name: "Road Bike", Weight: 15, Price: decimal.NewFromInt(100), Enabled: true}}

	if _, err := svc.GenerateCombinations(domain.GenerateRequest{Units: units, MaxUnits: 0}); !errors.Is(err, domain.ErrInvalidMaxUnits) {
		t.Fatalf("expected ErrInvalidMaxUnits for 0, got %v", err)
	}
	if _, err := svc.GenerateCombinations(domain.GenerateRequest{Units: units, MaxUnits: 11}); !errors.Is(err, domain.ErrInvalidMaxUnits) {
		t.Fatalf("expected ErrInvalidMaxUnits for 11, got %v", err)
	}

	combos, err := svc.GenerateCombinations(domain.GenerateRequest{Units: units, MaxUnits: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(combos) != 3 {
		t.Fatalf("combos = %d, want 3", len(combos))
	}
}
