package repository

import (
	"context"
	"time"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(ctx context.Context, session *model.AttendanceSession) error
	GetActive(ctx context.Context, userID uint) (*model.AttendanceSession, error)
	Close(ctx context.Context, id uint, at time.Time) (bool, error)
	CheckedOutWorkDates(ctx context.Context, userID uint) ([]string, error)
	ActiveWorkDates(ctx context.Context, userID uint) ([]string, error)
	ListSince(ctx context.Context, userID uint, fromDate string) ([]model.AttendanceSession, error)
	ListByDate(ctx context.Context, date string) ([]model.AttendanceSession, error)
	ListActive(ctx context.Context) ([]model.AttendanceSession, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

// Create fails with gorm.ErrDuplicatedKey when the user already has an open
// session (requires TranslateError on the gorm config).
func (r *attendanceRepository) Create(ctx context.Context, session *model.AttendanceSession) error {
	if session.CheckOut == nil && session.ActiveUserID == nil {
		uid := session.UserID
		session.ActiveUserID = &uid
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *attendanceRepository) GetActive(ctx context.Context, userID uint) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_out IS NULL", userID).
		Order("check_in desc").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Close sets the check-out time only if the session is still open. It reports
// false when another request closed it first.
func (r *attendanceRepository) Close(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("id = ? AND check_out IS NULL", id).
		Updates(map[string]interface{}{
			"check_out":      at,
			"active_user_id": gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *attendanceRepository) CheckedOutWorkDates(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("user_id = ? AND check_out IS NOT NULL", userID).
		Distinct("work_date").
		Order("work_date desc").
		Pluck("work_date", &dates).Error
	return dates, err
}

func (r *attendanceRepository) ActiveWorkDates(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&model.AttendanceSession{}).
		Where("user_id = ? AND check_out IS NULL", userID).
		Distinct("work_date").
		Pluck("work_date", &dates).Error
	return dates, err
}

func (r *attendanceRepository) ListSince(ctx context.Context, userID uint, fromDate string) ([]model.AttendanceSession, error) {
	var list []model.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date >= ?", userID, fromDate).
		Order("work_date desc, check_in desc").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date string) ([]model.AttendanceSession, error) {
	var list []model.AttendanceSession
	err := r.db.WithContext(ctx).Where("work_date = ?", date).Order("check_in").Find(&list).Error
	return list, err
}

func (r *attendanceRepository) ListActive(ctx context.Context) ([]model.AttendanceSession, error) {
	var list []model.AttendanceSession
	err := r.db.WithContext(ctx).Preload("User").Where("check_out IS NULL").Find(&list).Error
	return list, err
}
