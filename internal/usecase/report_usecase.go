package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"

	"gorm.io/gorm"
)

// PendingReportLimit caps ListPending.
const PendingReportLimit = 10

type ReportUsecase struct {
	reports    repository.DailyReportRepository
	attendance repository.AttendanceRepository
	dashboard  repository.DashboardRepository
	notifier   Notifier
	cache      Invalidator
	cal        Calendar
}

func NewReportUsecase(
	reports repository.DailyReportRepository,
	attendance repository.AttendanceRepository,
	dashboard repository.DashboardRepository,
	notifier Notifier,
	cache Invalidator,
	cal Calendar,
) *ReportUsecase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &ReportUsecase{
		reports:    reports,
		attendance: attendance,
		dashboard:  dashboard,
		notifier:   notifier,
		cache:      cache,
		cal:        cal,
	}
}

// Submit records a genuine report for workDate (today when empty). An existing
// row for the same date is updated and loses its override flag.
func (u *ReportUsecase) Submit(ctx context.Context, s model.Session, workDate, summary string, tasksCompleted int) (*model.DailyReport, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}

	date, err := u.resolveDate(workDate)
	if err != nil {
		return nil, err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, NewValidationError("summary", "summary is required")
	}
	if tasksCompleted < 0 {
		return nil, NewValidationError("tasks_completed", "must not be negative")
	}

	report, err := u.reports.Upsert(ctx, s.UserID, date, summary, tasksCompleted, u.cal.Time())
	if err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	u.cache.Invalidate()
	logger.Info("report.submitted", "user_id", s.UserID, "work_date", date, "tasks_completed", tasksCompleted)
	return report, nil
}

// Override inserts the placeholder report for (userID, workDate) unless a
// report already exists. Calling it again is a no-op.
func (u *ReportUsecase) Override(ctx context.Context, userID uint, workDate string) (bool, error) {
	created, err := u.reports.InsertOverride(ctx, userID, workDate, u.cal.Time())
	if err != nil {
		return false, fmt.Errorf("override report: %w", err)
	}
	if created {
		u.cache.Invalidate()
	}
	return created, nil
}

// ListPending returns past work dates (newest first, at most 10) on which the
// user checked out without a genuine report. Overridden days are included
// since the gate still treats them as unreported. Dates with a session still
// open are left out.
func (u *ReportUsecase) ListPending(ctx context.Context, s model.Session) ([]string, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}

	dates, err := u.attendance.CheckedOutWorkDates(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attendance dates: %w", err)
	}
	open, err := u.attendance.ActiveWorkDates(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("list open sessions: %w", err)
	}
	reported, err := u.reports.ReportedDates(ctx, s.UserID, dates)
	if err != nil {
		return nil, fmt.Errorf("list report dates: %w", err)
	}

	skip := make(map[string]bool, len(open))
	for _, d := range open {
		skip[d] = true
	}

	pending := make([]string, 0)
	for _, d := range dates {
		if reported[d] || skip[d] {
			continue
		}
		pending = append(pending, d)
		if len(pending) == PendingReportLimit {
			break
		}
	}
	return pending, nil
}

func (u *ReportUsecase) GetForDate(ctx context.Context, s model.Session, date string) (*model.DailyReport, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, NewValidationError("date", "must be YYYY-MM-DD")
	}

	report, err := u.reports.FindByUserDate(ctx, s.UserID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("no report for " + date)
	}
	return report, err
}

func (u *ReportUsecase) ListMine(ctx context.Context, s model.Session) ([]model.DailyReport, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	return u.reports.ListByUser(ctx, s.UserID)
}

// ListAll is the partner review listing, joined with author name and role.
func (u *ReportUsecase) ListAll(ctx context.Context, s model.Session, filter model.ReportFilter) ([]model.ReportRow, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	return u.reports.List(ctx, filter)
}

// RequestMissing emails every staff and article user who has no genuine
// report for today and returns how many were asked.
func (u *ReportUsecase) RequestMissing(ctx context.Context, s model.Session) (int, error) {
	if !s.IsPartner() {
		return 0, ErrForbidden
	}

	today := u.cal.Today()
	users, err := u.dashboard.UsersWithoutReport(ctx, today, model.RoleStaff, model.RoleArticle)
	if err != nil {
		return 0, fmt.Errorf("find users without report: %w", err)
	}

	body := fmt.Sprintf("Hello,\n\n%s has requested your daily work report for %s.\nPlease submit it before you check out.\n", s.Name, today)
	for _, user := range users {
		if err := u.notifier.Send(ctx, []string{user.Email}, "Daily report requested", body); err != nil {
			logger.Warn("report.request.send_failed", "user_id", user.ID, "err", err)
		}
	}

	logger.Info("report.request.sent", "partner_id", s.UserID, "count", len(users))
	return len(users), nil
}

func (u *ReportUsecase) resolveDate(workDate string) (string, error) {
	today := u.cal.Today()
	if workDate == "" {
		return today, nil
	}
	if _, err := time.Parse(DateLayout, workDate); err != nil {
		return "", NewValidationError("work_date", "must be YYYY-MM-DD")
	}
	// Layout is zero padded, so lexical order is date order.
	if workDate > today {
		return "", NewValidationError("work_date", "cannot be in the future")
	}
	return workDate, nil
}

func validateRange(from, to string) error {
	if from != "" {
		if _, err := time.Parse(DateLayout, from); err != nil {
			return NewValidationError("from", "must be YYYY-MM-DD")
		}
	}
	if to != "" {
		if _, err := time.Parse(DateLayout, to); err != nil {
			return NewValidationError("to", "must be YYYY-MM-DD")
		}
	}
	if from != "" && to != "" && from > to {
		return NewValidationError("from", "must not be after to")
	}
	return nil
}

// RemindCheckedIn emails users who attended today but have not reported yet.
// It runs from the scheduler, so there is no session.
func (u *ReportUsecase) RemindCheckedIn(ctx context.Context) (int, error) {
	today := u.cal.Today()
	users, err := u.dashboard.CheckedInWithoutReport(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("find users to remind: %w", err)
	}

	body := fmt.Sprintf("Hello,\n\nYou have not submitted your daily report for %s yet.\nCheckout stays blocked until it is in.\n", today)
	sent := 0
	for _, user := range users {
		if err := u.notifier.Send(ctx, []string{user.Email}, "Daily report reminder", body); err != nil {
			logger.Warn("report.reminder.send_failed", "user_id", user.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}
