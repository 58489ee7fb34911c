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

const (
	activityCheckedIn  = "Checked In"
	activityCheckedOut = "Checked Out"
	maxActivityLength  = 500
)

type AttendanceState struct {
	IsCheckedIn    bool       `json:"is_checked_in"`
	CheckInTime    *time.Time `json:"check_in_time"`
	WorkDate       string     `json:"work_date,omitempty"`
	LastActivity   string     `json:"last_activity"`
	LastActivityAt *time.Time `json:"last_activity_at"`
}

type AttendanceUsecase struct {
	attendance repository.AttendanceRepository
	activity   repository.ActivityLogRepository
	ledger     *ReportUsecase
	gate       *CheckoutGate
	cache      Invalidator
	cal        Calendar
}

func NewAttendanceUsecase(
	attendance repository.AttendanceRepository,
	activity repository.ActivityLogRepository,
	ledger *ReportUsecase,
	gate *CheckoutGate,
	cache Invalidator,
	cal Calendar,
) *AttendanceUsecase {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &AttendanceUsecase{
		attendance: attendance,
		activity:   activity,
		ledger:     ledger,
		gate:       gate,
		cache:      cache,
		cal:        cal,
	}
}

func (u *AttendanceUsecase) CheckIn(ctx context.Context, s model.Session) (*model.AttendanceSession, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}

	// 1. Fast path for the common double check-in
	_, err := u.attendance.GetActive(ctx, s.UserID)
	if err == nil {
		return nil, conflict("already checked in")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find active session: %w", err)
	}

	// 2. Insert; the unique index settles concurrent check-ins
	now := u.cal.Time()
	session := model.AttendanceSession{
		UserID:   s.UserID,
		CheckIn:  now,
		WorkDate: now.Format(DateLayout),
		Status:   model.AttendancePresent,
	}
	if err := u.attendance.Create(ctx, &session); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("already checked in")
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	u.appendActivity(ctx, s.UserID, activityCheckedIn, now)
	u.cache.Invalidate()
	logger.Info("attendance.checkin", "user_id", s.UserID, "session_id", session.ID, "work_date", session.WorkDate)
	return &session, nil
}

// CheckOut closes the active session once the gate accepts the report state
// of the session's work date.
func (u *AttendanceUsecase) CheckOut(ctx context.Context, s model.Session) (*model.AttendanceSession, error) {
	active, err := u.activeSession(ctx, s)
	if err != nil {
		return nil, err
	}

	decision := u.gate.Evaluate(ctx, s.UserID, active.WorkDate)
	if !decision.CanCheckout {
		logger.Info("attendance.checkout.blocked", "user_id", s.UserID, "work_date", active.WorkDate, "state", decision.State)
		return nil, &CheckoutBlockedError{Decision: decision}
	}

	return u.close(ctx, s, active)
}

// OverrideCheckout records an overridden report for the active session's work
// date and closes the session without consulting the gate again. Other dates
// are untouched.
func (u *AttendanceUsecase) OverrideCheckout(ctx context.Context, s model.Session) (*model.AttendanceSession, error) {
	active, err := u.activeSession(ctx, s)
	if err != nil {
		return nil, err
	}

	created, err := u.ledger.Override(ctx, s.UserID, active.WorkDate)
	if err != nil {
		return nil, err
	}
	logger.Warn("attendance.checkout.override", "user_id", s.UserID, "work_date", active.WorkDate, "placeholder_created", created)

	return u.close(ctx, s, active)
}

// CanCheckout evaluates the gate for the open session's work date, or for
// today when the user is not checked in.
func (u *AttendanceUsecase) CanCheckout(ctx context.Context, s model.Session) (CheckoutDecision, error) {
	if s.UserID == 0 {
		return CheckoutDecision{NeedsReport: true}, ErrUnauthorized
	}

	date := u.cal.Today()
	active, err := u.attendance.GetActive(ctx, s.UserID)
	switch {
	case err == nil:
		date = active.WorkDate
	case !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error("attendance.can_checkout.lookup_failed", "user_id", s.UserID, "err", err)
		return CheckoutDecision{NeedsReport: true, State: model.ReportStateNone, WorkDate: date}, nil
	}

	return u.gate.Evaluate(ctx, s.UserID, date), nil
}

func (u *AttendanceUsecase) GetActiveSession(ctx context.Context, userID uint) (*model.AttendanceSession, error) {
	active, err := u.attendance.GetActive(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return active, err
}

func (u *AttendanceUsecase) State(ctx context.Context, s model.Session) (*AttendanceState, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}

	state := &AttendanceState{}
	active, err := u.GetActiveSession(ctx, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	if active != nil {
		state.IsCheckedIn = true
		state.CheckInTime = &active.CheckIn
		state.WorkDate = active.WorkDate
	}

	last, err := u.activity.Latest(ctx, s.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find last activity: %w", err)
	}
	if last != nil {
		state.LastActivity = last.Activity
		state.LastActivityAt = &last.Timestamp
	}
	return state, nil
}

// UpdateActivity appends a "what I'm doing now" entry.
func (u *AttendanceUsecase) UpdateActivity(ctx context.Context, s model.Session, text string) error {
	if s.UserID == 0 {
		return ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NewValidationError("activity", "activity is required")
	}
	if len(text) > maxActivityLength {
		return NewValidationError("activity", fmt.Sprintf("must be at most %d characters", maxActivityLength))
	}

	if err := u.activity.Append(ctx, s.UserID, text, u.cal.Time()); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	u.cache.Invalidate()
	return nil
}

func (u *AttendanceUsecase) History(ctx context.Context, s model.Session, days int) ([]model.AttendanceSession, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if days <= 0 {
		days = 7
	}
	return u.attendance.ListSince(ctx, s.UserID, u.cal.DaysAgo(days))
}

func (u *AttendanceUsecase) activeSession(ctx context.Context, s model.Session) (*model.AttendanceSession, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	active, err := u.attendance.GetActive(ctx, s.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("no active session to check out of")
	}
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return active, nil
}

func (u *AttendanceUsecase) close(ctx context.Context, s model.Session, active *model.AttendanceSession) (*model.AttendanceSession, error) {
	now := u.cal.Time()
	closed, err := u.attendance.Close(ctx, active.ID, now)
	if err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}
	if !closed {
		return nil, conflict("session was already checked out")
	}
	active.CheckOut = &now
	active.ActiveUserID = nil

	u.appendActivity(ctx, s.UserID, activityCheckedOut, now)
	u.cache.Invalidate()
	logger.Info("attendance.checkout", "user_id", s.UserID, "session_id", active.ID, "work_date", active.WorkDate)
	return active, nil
}

func (u *AttendanceUsecase) appendActivity(ctx context.Context, userID uint, text string, at time.Time) {
	if err := u.activity.Append(ctx, userID, text, at); err != nil {
		logger.Warn("activity.append_failed", "user_id", userID, "activity", text, "err", err)
	}
}
