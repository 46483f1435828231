package domain

import (
	"context"

	"gorm.io/gorm"

	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, extras *RateExtras) error
	ListAll(ctx context.Context, db *gorm.DB) (map[catalogdomain.RateKey]RateExtras, error)
	Delete(ctx context.Context, db *gorm.DB, key catalogdomain.RateKey) error
}
