package repository

import (
	"context"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
)

type ReportTotals struct {
	Reports        int64 `json:"reports"`
	TasksCompleted int64 `json:"tasks_completed"`
}

type DashboardRepository interface {
	ReportTotals(ctx context.Context, date string) (ReportTotals, error)
	UsersWithoutReport(ctx context.Context, date string, roles ...string) ([]model.User, error)
	CheckedInWithoutReport(ctx context.Context, date string) ([]model.User, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

// ReportTotals counts genuine (not overridden) reports for the date and sums
// their completed-task counts.
func (r *dashboardRepository) ReportTotals(ctx context.Context, date string) (ReportTotals, error) {
	var totals ReportTotals
	err := r.db.WithContext(ctx).Model(&model.DailyReport{}).
		Where("work_date = ? AND overridden = ?", date, false).
		Select("COUNT(*) AS reports, COALESCE(SUM(tasks_completed), 0) AS tasks_completed").
		Scan(&totals).Error
	return totals, err
}

// UsersWithoutReport lists users in roles that have no genuine report for date.
func (r *dashboardRepository) UsersWithoutReport(ctx context.Context, date string, roles ...string) ([]model.User, error) {
	reported := r.db.Model(&model.DailyReport{}).
		Select("user_id").
		Where("work_date = ? AND overridden = ?", date, false)

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role IN ? AND id NOT IN (?)", roles, reported).
		Order("name").
		Find(&users).Error
	return users, err
}

// CheckedInWithoutReport lists users with a session on date and no genuine report for it.
func (r *dashboardRepository) CheckedInWithoutReport(ctx context.Context, date string) ([]model.User, error) {
	attended := r.db.Model(&model.AttendanceSession{}).
		Select("user_id").
		Where("work_date = ?", date)
	reported := r.db.Model(&model.DailyReport{}).
		Select("user_id").
		Where("work_date = ? AND overridden = ?", date, false)

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("id IN (?) AND id NOT IN (?)", attended, reported).
		Order("name").
		Find(&users).Error
	return users, err
}
