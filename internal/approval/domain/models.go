package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ChangeStatus is the review state of a price-change proposal. Approved and
// rejected are terminal.
type ChangeStatus string

const (
	StatusPending  ChangeStatus = "pending"
	StatusApproved ChangeStatus = "approved"
	StatusRejected ChangeStatus = "rejected"
)

// ChangeAction labels one audit row in the change log.
type ChangeAction string

const (
	ActionProposed ChangeAction = "proposed"
	ActionApproved ChangeAction = "approved"
	ActionRejected ChangeAction = "rejected"
	ActionApplied  ChangeAction = "applied"
)

// SystemActor performs the "applied" log entry when an approved change is
// pushed to the external catalog.
const SystemActor = "system"

// PendingChange is a price/name change proposal awaiting review. Zone and
// rate names are denormalized snapshots taken at proposal time, so the
// review screen stays meaningful even if the remote rate is renamed.
type PendingChange struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	RateID           string          `json:"rate_id" gorm:"type:text;not null;index"`
	ZoneID           string          `json:"zone_id" gorm:"type:text;not null"`
	ZoneName         string          `json:"zone_name" gorm:"type:text;not null"`
	RateName         string          `json:"rate_name" gorm:"type:text;not null"`
	ProposedRateName *string         `json:"proposed_rate_name" gorm:"type:text"`
	CurrentPrice     decimal.Decimal `json:"current_price" gorm:"type:numeric;not null"`
	ProposedPrice    decimal.Decimal `json:"proposed_price" gorm:"type:numeric;not null"`
	Currency         string          `json:"currency" gorm:"type:text;not null"`
	ProposedBy       string          `json:"proposed_by" gorm:"type:text;not null"`
	Status           ChangeStatus    `json:"status" gorm:"type:text;not null;default:'pending';index"`
	Notes            *string         `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	ReviewedAt       *time.Time      `json:"reviewed_at"`
	ReviewedBy       *string         `json:"reviewed_by" gorm:"type:text"`
}

// TableName sets the database table name.
func (PendingChange) TableName() string { return "pending_rate_changes" }

// ChangeLog is one append-only audit row. Rows are never mutated or
// deleted.
type ChangeLog struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	RateID      string          `json:"rate_id" gorm:"type:text;not null;index"`
	ZoneID      string          `json:"zone_id" gorm:"type:text;not null"`
	ZoneName    string          `json:"zone_name" gorm:"type:text;not null"`
	RateName    string          `json:"rate_name" gorm:"type:text;not null"`
	OldPrice    decimal.Decimal `json:"old_price" gorm:"type:numeric;not null"`
	NewPrice    decimal.Decimal `json:"new_price" gorm:"type:numeric;not null"`
	Currency    string          `json:"currency" gorm:"type:text;not null"`
	Action      ChangeAction    `json:"action" gorm:"type:text;not null;index"`
	PerformedBy string          `json:"performed_by" gorm:"type:text;not null"`
	Notes       *string         `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ChangeLog) TableName() string { return "rate_change_logs" }
