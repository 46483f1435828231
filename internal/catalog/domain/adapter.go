package domain

import (
	"context"
	"errors"
)

// Adapter is the external delivery-profile catalog. Calls are blocking round
// trips with unbounded latency; callers bound them with the context.
type Adapter interface {
	ListZones(ctx context.Context) ([]Zone, error)
	CreateRate(ctx context.Context, zoneID string, rate CreateRate) error
	UpdateRate(ctx context.Context, key RateKey, patch RatePatch) error
	DeleteRate(ctx context.Context, key RateKey) error
}

var (
	ErrNotConfigured  = errors.New("catalog_not_configured")
	ErrZoneNotFound   = errors.New("zone_not_found")
	ErrRateNotFound   = errors.New("rate_not_found")
	ErrRemoteRejected = errors.New("remote_rejected")
	ErrUnavailable    = errors.New("catalog_unavailable")
)
