package domain

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/freight/combo"
	"github.com/velobay/freightdesk/internal/freight/pricing"
)

// ZoneRate pairs a rate with the zone it belongs to in a merged catalog
// snapshot.
type ZoneRate struct {
	Zone catalogdomain.Zone `json:"zone"`
	Rate catalogdomain.Rate `json:"rate"`
}

// RateSelector narrows a catalog to the rates a bulk operation targets.
// Within each dimension any match qualifies; an empty dimension places no
// restriction; the three dimensions are combined with AND.
type RateSelector struct {
	Categories []string `json:"categories"`
	Countries  []string `json:"countries"`
	ZoneIDs    []string `json:"zone_ids"`
}

// UpdateRateRequest is a single-rate edit. Name, price and currency go to
// the external catalog; the remaining fields land in the local overlay.
// Weight bounds are pushed remotely as well so the platform can gate the
// rate by cart weight.
type UpdateRateRequest struct {
	ZoneID        string           `json:"zone_id"`
	RateID        string           `json:"rate_id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	Currency      string           `json:"currency"`
	Description   *string          `json:"description"`
	MinWeight     *float64         `json:"min_weight"`
	MaxWeight     *float64         `json:"max_weight"`
	EstimatedDays *string          `json:"estimated_days"`
	Category      *string          `json:"category"`
}

// CreateRateRequest creates a new remote rate in a zone.
type CreateRateRequest struct {
	ZoneID      string          `json:"zone_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	MinWeight   *float64        `json:"min_weight"`
	MaxWeight   *float64        `json:"max_weight"`
}

// BulkUpdateRequest applies one pricing operation across a filtered rate
// set. MultiplierID may be empty or "none" for no multiplier; a dangling
// reference degrades to no multiplier.
type BulkUpdateRequest struct {
	Selector     RateSelector      `json:"selector"`
	Operation    pricing.Operation `json:"operation"`
	MultiplierID string            `json:"multiplier_id"`
}

// PreviewRow is one computed price change, for review before apply.
type PreviewRow struct {
	ZoneID       string          `json:"zone_id"`
	ZoneName     string          `json:"zone_name"`
	RateID       string          `json:"rate_id"`
	RateName     string          `json:"rate_name"`
	Currency     string          `json:"currency"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	Diff         decimal.Decimal `json:"diff"`
}

// GenerateRequest configures one combination-enumeration run.
type GenerateRequest struct {
	Units       []combo.Unit `json:"units"`
	MaxUnits    int          `json:"max_units"`
	CustomLabel string       `json:"custom_label"`
}

// CreateCombinationsRequest turns confirmed combinations into remote rates.
type CreateCombinationsRequest struct {
	ZoneID       string              `json:"zone_id"`
	Currency     string              `json:"currency"`
	Combinations []combo.Combination `json:"combinations"`
}

// BatchError records one failed item of a batch.
type BatchError struct {
	ZoneID  string `json:"zone_id"`
	RateID  string `json:"rate_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BatchResult reports partial-failure accounting for a bulk operation: the
// batch continues past per-item failures rather than aborting.
type BatchResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors,omitempty"`
}
