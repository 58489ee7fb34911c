package repository

import (
	"context"
	"time"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyReportRepository interface {
	FindByUserDate(ctx context.Context, userID uint, date string) (*model.DailyReport, error)
	Upsert(ctx context.Context, userID uint, date, summary string, tasksCompleted int, at time.Time) (*model.DailyReport, error)
	InsertOverride(ctx context.Context, userID uint, date string, at time.Time) (bool, error)
	ReportedDates(ctx context.Context, userID uint, dates []string) (map[string]bool, error)
	ListByUser(ctx context.Context, userID uint) ([]model.DailyReport, error)
	List(ctx context.Context, filter model.ReportFilter) ([]model.ReportRow, error)
	ListByDate(ctx context.Context, date string) ([]model.DailyReport, error)
}

type dailyReportRepository struct {
	db *gorm.DB
}

func NewDailyReportRepository(db *gorm.DB) DailyReportRepository {
	return &dailyReportRepository{db}
}

func (r *dailyReportRepository) FindByUserDate(ctx context.Context, userID uint, date string) (*model.DailyReport, error) {
	var report model.DailyReport
	err := r.db.WithContext(ctx).Where("user_id = ? AND work_date = ?", userID, date).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Upsert writes a genuine report for (userID, date) in one statement keyed on
// the uk_report_user_date index, clearing any override flag.
func (r *dailyReportRepository) Upsert(ctx context.Context, userID uint, date, summary string, tasksCompleted int, at time.Time) (*model.DailyReport, error) {
	var saved model.DailyReport
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report := model.DailyReport{
			UserID:         userID,
			WorkDate:       date,
			Summary:        summary,
			TasksCompleted: tasksCompleted,
			SubmittedAt:    at,
			UpdatedAt:      at,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "work_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"summary":         summary,
				"tasks_completed": tasksCompleted,
				"overridden":      false,
				"updated_at":      at,
			}),
		}).Create(&report).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND work_date = ?", userID, date).First(&saved).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// InsertOverride creates the placeholder report unless any report already
// exists for the pair. It reports whether a row was written.
func (r *dailyReportRepository) InsertOverride(ctx context.Context, userID uint, date string, at time.Time) (bool, error) {
	report := model.DailyReport{
		UserID:       userID,
		WorkDate:     date,
		Summary:      model.OverrideSummary,
		Overridden:   true,
		OverriddenAt: &at,
		SubmittedAt:  at,
		UpdatedAt:    at,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&report)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReportedDates returns which of dates have a genuine report. Override
// placeholders do not count.
func (r *dailyReportRepository) ReportedDates(ctx context.Context, userID uint, dates []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(dates) == 0 {
		return found, nil
	}
	var existing []string
	err := r.db.WithContext(ctx).Model(&model.DailyReport{}).
		Where("user_id = ? AND work_date IN ? AND overridden = ?", userID, dates, false).
		Pluck("work_date", &existing).Error
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		found[d] = true
	}
	return found, nil
}

func (r *dailyReportRepository) ListByUser(ctx context.Context, userID uint) ([]model.DailyReport, error) {
	var list []model.DailyReport
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("work_date desc").Find(&list).Error
	return list, err
}

func (r *dailyReportRepository) List(ctx context.Context, filter model.ReportFilter) ([]model.ReportRow, error) {
	q := r.db.WithContext(ctx).Table("daily_reports").
		Select("daily_reports.*, users.name AS user_name, users.role AS user_role").
		Joins("JOIN users ON users.id = daily_reports.user_id")

	if filter.From != "" {
		q = q.Where("daily_reports.work_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("daily_reports.work_date <= ?", filter.To)
	}
	if len(filter.UserIDs) > 0 {
		q = q.Where("daily_reports.user_id IN ?", filter.UserIDs)
	}
	if filter.OverriddenOnly {
		q = q.Where("daily_reports.overridden = ?", true)
	}

	if filter.OldestFirst {
		q = q.Order("daily_reports.work_date asc, daily_reports.submitted_at asc")
	} else {
		q = q.Order("daily_reports.work_date desc, daily_reports.submitted_at desc")
	}

	var rows []model.ReportRow
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *dailyReportRepository) ListByDate(ctx context.Context, date string) ([]model.DailyReport, error) {
	var list []model.DailyReport
	err := r.db.WithContext(ctx).Where("work_date = ?", date).Find(&list).Error
	return list, err
}
