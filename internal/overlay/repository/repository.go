package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/overlay/domain"
)

type repo struct{}

// Provide builds the overlay repository.
func Provide() domain.Repository { return repo{} }

func (repo) Upsert(ctx context.Context, db *gorm.DB, extras *domain.RateExtras) error {
	now := time.Now().UTC()
	if extras.CreatedAt.IsZero() {
		extras.CreatedAt = now
	}
	extras.UpdatedAt = now
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "rate_id"}, {Name: "zone_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"min_weight", "max_weight", "estimated_days", "description", "category", "updated_at",
		}),
	}).Create(extras).Error
}

func (repo) ListAll(ctx context.Context, db *gorm.DB) (map[catalogdomain.RateKey]domain.RateExtras, error) {
	var rows []domain.RateExtras
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[catalogdomain.RateKey]domain.RateExtras, len(rows))
	for _, row := range rows {
		out[catalogdomain.RateKey{ZoneID: row.ZoneID, RateID: row.RateID}] = row
	}
	return out, nil
}

func (repo) Delete(ctx context.Context, db *gorm.DB, key catalogdomain.RateKey) error {
	return db.WithContext(ctx).
		Where("rate_id = ? AND zone_id = ?", key.RateID, key.ZoneID).
		Delete(&domain.RateExtras{}).Error
}
