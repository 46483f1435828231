package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Multiplier is a named reusable multiplicative price factor, applied after
// the primary operation in bulk price edits.
type Multiplier struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"type:text;not null"`
	Description  *string         `json:"description,omitempty" gorm:"type:text"`
	Factor       decimal.Decimal `json:"multiplier" gorm:"column:multiplier;type:numeric;not null"`
	BaseQuantity int             `json:"base_quantity" gorm:"not null;default:1"`
	Active       bool            `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Multiplier) TableName() string { return "shipping_multipliers" }
