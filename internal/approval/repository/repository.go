package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/velobay/freightdesk/internal/approval/domain"
)

const defaultLogLimit = 100

type repo struct{}

// Provide builds the approval repository.
func Provide() domain.Repository { return repo{} }

func (repo) Insert(ctx context.Context, db *gorm.DB, change *domain.PendingChange) error {
	return db.WithContext(ctx).Create(change).Error
}

func (repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PendingChange, error) {
	var row domain.PendingChange
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (repo) Save(ctx context.Context, db *gorm.DB, change *domain.PendingChange) error {
	return db.WithContext(ctx).Save(change).Error
}

func (repo) List(ctx context.Context, db *gorm.DB) ([]domain.PendingChange, error) {
	var rows []domain.PendingChange
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo) CountByStatus(ctx context.Context, db *gorm.DB, status domain.ChangeStatus) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.PendingChange{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountPendingForRate counts open proposals for one rate. Rate identity is
// the (zone, rate) pair, so the same rate id in another zone does not match.
func (repo) CountPendingForRate(ctx context.Context, db *gorm.DB, rateID, zoneID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.PendingChange{}).
		Where("rate_id = ? AND zone_id = ? AND status = ?", rateID, zoneID, domain.StatusPending).
		Count(&count).Error
	return count, err
}

func (repo) InsertLog(ctx context.Context, db *gorm.DB, entry *domain.ChangeLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (repo) ListLogs(ctx context.Context, db *gorm.DB, limit int) ([]domain.ChangeLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	var rows []domain.ChangeLog
	err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
