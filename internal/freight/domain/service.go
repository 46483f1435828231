package domain

import (
	"context"
	"errors"

	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/freight/combo"
)

// Service owns the merged zone/rate catalog and orchestrates edits against
// the external catalog and the local overlay. Zones returns a cached
// snapshot; every mutating call refreshes the cache afterwards (refresh-
// after-write is the sole consistency mechanism).
type Service interface {
	Zones(ctx context.Context) ([]catalogdomain.Zone, error)
	Refresh(ctx context.Context) ([]catalogdomain.Zone, error)

	UpdateRate(ctx context.Context, req UpdateRateRequest) error
	CreateRate(ctx context.Context, req CreateRateRequest) error
	DeleteRate(ctx context.Context, zoneID, rateID string) error

	PreviewBulkUpdate(ctx context.Context, req BulkUpdateRequest) ([]PreviewRow, error)
	ApplyBulkUpdate(ctx context.Context, req BulkUpdateRequest) (BatchResult, error)

	GenerateCombinations(req GenerateRequest) ([]combo.Combination, error)
	CreateCombinationRates(ctx context.Context, req CreateCombinationsRequest) (BatchResult, error)
	DeleteRates(ctx context.Context, zoneID string, rateIDs []string) (BatchResult, error)
}

var (
	ErrInvalidZone      = errors.New("invalid_zone")
	ErrInvalidRate      = errors.New("invalid_rate")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrInvalidMaxUnits  = errors.New("invalid_max_units")
	ErrNoCandidates     = errors.New("no_candidate_rates")
)
