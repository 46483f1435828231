package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Default delivery estimates for freight forwarding when a base rate does
// not carry its own.
const (
	DefaultEstimatedDaysMin = 10
	DefaultEstimatedDaysMax = 65
)

// BaseRate is one per-country carrier price line. Quoting multiplies
// PricePerKg by the shipment weight and floors the result at MinPrice.
type BaseRate struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	CountryCode      string          `json:"country_code" gorm:"type:text;not null;index"`
	CountryName      string          `json:"country_name" gorm:"type:text;not null"`
	ServiceName      string          `json:"service_name" gorm:"type:text;not null"`
	PricePerKg       decimal.Decimal `json:"price_per_kg" gorm:"type:numeric;not null"`
	MinPrice         decimal.Decimal `json:"min_price" gorm:"type:numeric;not null"`
	Currency         string          `json:"currency" gorm:"type:text;not null"`
	EstimatedDaysMin int             `json:"estimated_days_min" gorm:"not null"`
	EstimatedDaysMax int             `json:"estimated_days_max" gorm:"not null"`
	IsActive         bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt        time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BaseRate) TableName() string { return "carrier_base_rates" }

// QuoteItem is one line of an inbound rate request. Weights arrive in
// grams.
type QuoteItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Grams    int64  `json:"grams"`
}

// QuoteAddress carries the fields of the callback address we actually use.
type QuoteAddress struct {
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province"`
	City       string `json:"city"`
}

// QuoteRequest is the body of a carrier rate callback.
type QuoteRequest struct {
	Rate struct {
		Origin      QuoteAddress `json:"origin"`
		Destination QuoteAddress `json:"destination"`
		Items       []QuoteItem  `json:"items"`
		Currency    string       `json:"currency"`
		Locale      string       `json:"locale"`
	} `json:"rate"`
}

// Quote is one rate offer returned to the caller. TotalPrice is in cents,
// serialized as a string, and delivery dates are YYYY-MM-DD.
type Quote struct {
	ServiceName     string `json:"service_name"`
	ServiceCode     string `json:"service_code"`
	TotalPrice      string `json:"total_price"`
	Description     string `json:"description"`
	Currency        string `json:"currency"`
	MinDeliveryDate string `json:"min_delivery_date,omitempty"`
	MaxDeliveryDate string `json:"max_delivery_date,omitempty"`
}
