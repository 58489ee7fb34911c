package repository

import (
	"context"
	"time"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
)

// ActivityLogRepository is append-only.
type ActivityLogRepository interface {
	Append(ctx context.Context, userID uint, activity string, at time.Time) error
	Latest(ctx context.Context, userID uint) (*model.ActivityLog, error)
	ListSince(ctx context.Context, since time.Time) ([]model.ActivityLog, error)
	ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db}
}

func (r *activityLogRepository) Append(ctx context.Context, userID uint, activity string, at time.Time) error {
	return r.db.WithContext(ctx).Create(&model.ActivityLog{
		UserID:    userID,
		Activity:  activity,
		Timestamp: at,
	}).Error
}

func (r *activityLogRepository) Latest(ctx context.Context, userID uint) (*model.ActivityLog, error) {
	var log model.ActivityLog
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc, id desc").First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// ListSince returns every user's entries newer than since, newest first.
func (r *activityLogRepository) ListSince(ctx context.Context, since time.Time) ([]model.ActivityLog, error) {
	var list []model.ActivityLog
	err := r.db.WithContext(ctx).Where("timestamp >= ?", since).Order("timestamp desc, id desc").Find(&list).Error
	return list, err
}

func (r *activityLogRepository) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.ActivityLog, error) {
	var list []model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp desc, id desc").
		Find(&list).Error
	return list, err
}
