package domain

import "time"

// RateExtras is the locally owned metadata layered on top of an externally
// owned rate: the external catalog keeps name and price authoritative, the
// overlay keeps everything the platform has no field for.
type RateExtras struct {
	RateID        string    `json:"rate_id" gorm:"primaryKey;column:rate_id;type:text"`
	ZoneID        string    `json:"zone_id" gorm:"primaryKey;column:zone_id;type:text"`
	MinWeight     *float64  `json:"min_weight,omitempty"`
	MaxWeight     *float64  `json:"max_weight,omitempty"`
	EstimatedDays *string   `json:"estimated_days,omitempty" gorm:"type:text"`
	Description   *string   `json:"description,omitempty" gorm:"type:text"`
	Category      *string   `json:"category,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RateExtras) TableName() string { return "rate_extras" }
