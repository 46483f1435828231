package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, change *PendingChange) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PendingChange, error)
	Save(ctx context.Context, db *gorm.DB, change *PendingChange) error
	List(ctx context.Context, db *gorm.DB) ([]PendingChange, error)
	CountByStatus(ctx context.Context, db *gorm.DB, status ChangeStatus) (int64, error)
	CountPendingForRate(ctx context.Context, db *gorm.DB, rateID, zoneID string) (int64, error)

	InsertLog(ctx context.Context, db *gorm.DB, entry *ChangeLog) error
	ListLogs(ctx context.Context, db *gorm.DB, limit int) ([]ChangeLog, error)
}
