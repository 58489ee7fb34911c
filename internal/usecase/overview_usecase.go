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

type StaffStatus struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	IsCheckedIn     bool       `json:"is_checked_in"`
	CheckInTime     *time.Time `json:"check_in_time"`
	CurrentActivity string     `json:"current_activity"`
	ActivityAt      *time.Time `json:"activity_at"`
}

type LiveStats struct {
	Present          int   `json:"present"`
	TasksCompleted   int64 `json:"tasks_completed"`
	ReportsSubmitted int64 `json:"reports_submitted"`
}

type LiveOverview struct {
	Date  string        `json:"date"`
	Staff []StaffStatus `json:"staff"`
	Stats LiveStats     `json:"stats"`
}

type TodayStats struct {
	Date             string `json:"date"`
	AverageCheckIn   string `json:"average_check_in"` // HH:MM, empty when nobody checked in
	ReportsSubmitted int64  `json:"reports_submitted"`
	TasksCompleted   int64  `json:"tasks_completed"`
	CheckedIn        int    `json:"checked_in"`
	Sessions         int    `json:"sessions"`
}

type StaffDetail struct {
	User          *model.User              `json:"user"`
	ActiveSession *model.AttendanceSession `json:"active_session"`
	Tasks         []model.Task             `json:"tasks"`
	Reports       []model.DailyReport      `json:"reports"`
}

const staffDetailReports = 10

type OverviewUsecase struct {
	users      repository.UserRepository
	attendance repository.AttendanceRepository
	activity   repository.ActivityLogRepository
	reports    repository.DailyReportRepository
	tasks      repository.TaskRepository
	dashboard  repository.DashboardRepository
	notifier   Notifier
	cal        Calendar
}

func NewOverviewUsecase(
	users repository.UserRepository,
	attendance repository.AttendanceRepository,
	activity repository.ActivityLogRepository,
	reports repository.DailyReportRepository,
	tasks repository.TaskRepository,
	dashboard repository.DashboardRepository,
	notifier Notifier,
	cal Calendar,
) *OverviewUsecase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OverviewUsecase{
		users:      users,
		attendance: attendance,
		activity:   activity,
		reports:    reports,
		tasks:      tasks,
		dashboard:  dashboard,
		notifier:   notifier,
		cal:        cal,
	}
}

// LiveOverview shows who is in right now and what they last reported doing today.
func (u *OverviewUsecase) LiveOverview(ctx context.Context, s model.Session) (*LiveOverview, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	today := u.cal.Today()
	start, _, err := u.cal.DayBounds(today)
	if err != nil {
		return nil, err
	}

	// 1. Staff and their open sessions
	staff, err := u.users.ListNonPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	active, err := u.attendance.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	open := make(map[uint]model.AttendanceSession, len(active))
	for _, a := range active {
		open[a.UserID] = a
	}

	// 2. Latest activity of today per user; the list is newest first
	logs, err := u.activity.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	latest := make(map[uint]model.ActivityLog)
	for _, l := range logs {
		if _, ok := latest[l.UserID]; !ok {
			latest[l.UserID] = l
		}
	}

	// 3. Assemble
	out := &LiveOverview{Date: today, Staff: make([]StaffStatus, 0, len(staff))}
	for _, user := range staff {
		st := StaffStatus{ID: user.ID, Name: user.Name, Role: user.Role, CurrentActivity: "Offline"}
		if sess, ok := open[user.ID]; ok {
			checkIn := sess.CheckIn
			st.IsCheckedIn = true
			st.CheckInTime = &checkIn
			st.CurrentActivity = "Checked In"
			out.Stats.Present++
		}
		if l, ok := latest[user.ID]; ok {
			at := l.Timestamp
			st.CurrentActivity = l.Activity
			st.ActivityAt = &at
		}
		out.Staff = append(out.Staff, st)
	}

	totals, err := u.dashboard.ReportTotals(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("report totals: %w", err)
	}
	out.Stats.ReportsSubmitted = totals.Reports
	out.Stats.TasksCompleted = totals.TasksCompleted
	return out, nil
}

func (u *OverviewUsecase) TodayStats(ctx context.Context, s model.Session) (*TodayStats, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	today := u.cal.Today()
	start, end, err := u.cal.DayBounds(today)
	if err != nil {
		return nil, err
	}

	sessions, err := u.attendance.ListByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	stats := &TodayStats{Date: today, Sessions: len(sessions)}

	// Average of minutes since midnight over the first check-in of each user.
	first := make(map[uint]time.Time)
	for _, sess := range sessions {
		if sess.IsActive() {
			stats.CheckedIn++
		}
		if t, ok := first[sess.UserID]; !ok || sess.CheckIn.Before(t) {
			first[sess.UserID] = sess.CheckIn
		}
	}
	if len(first) > 0 {
		var total time.Duration
		for _, t := range first {
			total += t.In(u.cal.location()).Sub(start)
		}
		avg := start.Add(total / time.Duration(len(first)))
		stats.AverageCheckIn = avg.Format("15:04")
	}

	totals, err := u.dashboard.ReportTotals(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("report totals: %w", err)
	}
	stats.ReportsSubmitted = totals.Reports

	completed, err := u.tasks.CountCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}
	stats.TasksCompleted = completed
	return stats, nil
}

func (u *OverviewUsecase) StaffList(ctx context.Context, s model.Session) ([]model.User, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	return u.users.ListNonPartners(ctx)
}

func (u *OverviewUsecase) StaffDetail(ctx context.Context, s model.Session, staffID uint) (*StaffDetail, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	user, err := u.users.GetByID(ctx, staffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("staff member")
	}
	if err != nil {
		return nil, err
	}

	detail := &StaffDetail{User: user}

	active, err := u.attendance.GetActive(ctx, staffID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("active session: %w", err)
	}
	detail.ActiveSession = active

	if detail.Tasks, err = u.tasks.ListByAssignee(ctx, staffID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	reports, err := u.reports.ListByUser(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if len(reports) > staffDetailReports {
		reports = reports[:staffDetailReports]
	}
	detail.Reports = reports
	return detail, nil
}

func (u *OverviewUsecase) StaffAttendance(ctx context.Context, s model.Session, staffID uint, days int) ([]model.AttendanceSession, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	if days <= 0 {
		days = 30
	}
	return u.attendance.ListSince(ctx, staffID, u.cal.DaysAgo(days))
}

// StaffActivity returns the timeline of one staff member for date (today when empty).
func (u *OverviewUsecase) StaffActivity(ctx context.Context, s model.Session, staffID uint, date string) ([]model.ActivityLog, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	if date == "" {
		date = u.cal.Today()
	}
	from, to, err := u.cal.DayBounds(date)
	if err != nil {
		return nil, NewValidationError("date", "must be YYYY-MM-DD")
	}
	return u.activity.ListBetween(ctx, staffID, from, to)
}

// Announce emails a message to every non-partner user and returns the number of recipients.
func (u *OverviewUsecase) Announce(ctx context.Context, s model.Session, title, message string) (int, error) {
	if !s.IsPartner() {
		return 0, ErrForbidden
	}

	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return 0, &ValidationError{Fields: map[string]string{
			"title":   "title and message are required",
			"message": "title and message are required",
		}}
	}

	staff, err := u.users.ListNonPartners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list staff: %w", err)
	}
	to := make([]string, 0, len(staff))
	for _, user := range staff {
		if user.Email != "" {
			to = append(to, user.Email)
		}
	}
	if len(to) == 0 {
		return 0, nil
	}

	body := fmt.Sprintf("%s\n\n- %s", message, s.Name)
	if err := u.notifier.Send(ctx, to, title, body); err != nil {
		return 0, fmt.Errorf("send announcement: %w", err)
	}

	logger.Info("announcement.sent", "partner_id", s.UserID, "recipients", len(to))
	return len(to), nil
}
