package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// CreateBaseRateRequest adds a carrier price line for a country.
type CreateBaseRateRequest struct {
	CountryCode      string          `json:"country_code"`
	CountryName      string          `json:"country_name"`
	ServiceName      string          `json:"service_name"`
	PricePerKg       decimal.Decimal `json:"price_per_kg"`
	MinPrice         decimal.Decimal `json:"min_price"`
	Currency         string          `json:"currency"`
	EstimatedDaysMin int             `json:"estimated_days_min"`
	EstimatedDaysMax int             `json:"estimated_days_max"`
}

// UpdateBaseRateRequest is a partial update. Nil fields are left as they
// are.
type UpdateBaseRateRequest struct {
	CountryName      *string          `json:"country_name"`
	ServiceName      *string          `json:"service_name"`
	PricePerKg       *decimal.Decimal `json:"price_per_kg"`
	MinPrice         *decimal.Decimal `json:"min_price"`
	Currency         *string          `json:"currency"`
	EstimatedDaysMin *int             `json:"estimated_days_min"`
	EstimatedDaysMax *int             `json:"estimated_days_max"`
	IsActive         *bool            `json:"is_active"`
}

// Service manages carrier base rates and answers rate callbacks.
type Service interface {
	List(ctx context.Context) ([]BaseRate, error)
	Get(ctx context.Context, id string) (*BaseRate, error)
	Create(ctx context.Context, req CreateBaseRateRequest) (*BaseRate, error)
	Update(ctx context.Context, id string, req UpdateBaseRateRequest) (*BaseRate, error)
	Delete(ctx context.Context, id string) error

	// Quote prices a shipment against every active base rate for the
	// destination country. An unknown country yields an empty slice, not
	// an error.
	Quote(ctx context.Context, req QuoteRequest) ([]Quote, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCountry = errors.New("invalid_country")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidDays    = errors.New("invalid_estimated_days")
	ErrNotFound       = errors.New("carrier_rate_not_found")
)
