package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
)

type defaultMultiplier struct {
	name         string
	factor       string
	baseQuantity int
}

var defaultMultipliers = []defaultMultiplier{
	{name: "Single shipment", factor: "1", baseQuantity: 1},
	{name: "Two-bike crate", factor: "1.8", baseQuantity: 2},
	{name: "Three-bike crate", factor: "2.5", baseQuantity: 3},
}

// EnsureDefaultMultipliers seeds a starter multiplier set for development
// environments. It is a no-op when any multiplier already exists.
func EnsureDefaultMultipliers(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&multiplierdomain.Multiplier{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, seed := range defaultMultipliers {
			factor, err := decimal.NewFromString(seed.factor)
			if err != nil {
				return err
			}
			row := &multiplierdomain.Multiplier{
				ID:           node.Generate(),
				Name:         seed.name,
				Factor:       factor,
				BaseQuantity: seed.baseQuantity,
				Active:       true,
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
