package domain

import "github.com/shopspring/decimal"

// Zone is a named grouping of destination countries sharing a rate table.
// Zones are owned by the external delivery-profile catalog and read-only
// here.
type Zone struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Countries    []string `json:"countries"`
	CountryNames []string `json:"country_names,omitempty"`
	Rates        []Rate   `json:"rates"`
}

// Rate is a priced delivery option scoped to a zone. Name, price and weight
// conditions are owned by the external catalog; description, weight bounds,
// estimated days and category may be overridden by the local overlay at
// merge time.
type Rate struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description,omitempty"`
	MinWeight     *float64        `json:"min_weight,omitempty"`
	MaxWeight     *float64        `json:"max_weight,omitempty"`
	EstimatedDays string          `json:"estimated_days,omitempty"`
	Category      string          `json:"category,omitempty"`

	// HasWeightConditions records whether the remote method already carries
	// weight conditions. The remote treats an attached condition as
	// immutable, so changing the weight range then requires delete-and-
	// recreate instead of an in-place update.
	HasWeightConditions bool `json:"-"`
}

// RateKey addresses a rate across the overlay store and the external
// catalog. Rate identifiers are only unique within their zone.
type RateKey struct {
	ZoneID string
	RateID string
}

func (k RateKey) String() string { return k.ZoneID + "/" + k.RateID }

// WeightPatch distinguishes "leave the bound untouched" (Set=false) from
// "set it" and "explicitly clear it" (Set=true with a nil Value).
type WeightPatch struct {
	Set   bool
	Value *float64
}

// RatePatch is a partial update of a rate's remote-owned fields. Nil
// pointers mean unchanged.
type RatePatch struct {
	Name        *string
	Price       *decimal.Decimal
	Currency    *string
	Description *string
	MinWeight   WeightPatch
	MaxWeight   WeightPatch
}

// CreateRate is the payload for creating a new remote rate.
type CreateRate struct {
	Name        string
	Price       decimal.Decimal
	Currency    string
	Description string
	MinWeight   *float64
	MaxWeight   *float64
}
