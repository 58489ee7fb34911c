package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckInTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	session, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", session.WorkDate)
	assert.Equal(t, model.AttendancePresent, session.Status)

	_, err = f.attendance.CheckIn(ctx, s)
	assert.ErrorIs(t, err, ErrConflictBlocked)
}

func TestConcurrentCheckInsOpenOneSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	const workers = 20
	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
		errs      = make(chan error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.attendance.CheckIn(ctx, s)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrConflictBlocked):
				conflicts.Add(1)
			default:
				errs <- err
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected check-in error: %v", err)
	}
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	var open int64
	require.NoError(t, f.db.Model(&model.AttendanceSession{}).
		Where("user_id = ? AND check_out IS NULL", f.staff.ID).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestUniqueIndexAllowsOneOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	first := model.AttendanceSession{UserID: f.staff.ID, CheckIn: now, WorkDate: "2025-03-14"}
	require.NoError(t, f.attendanceRepo.Create(ctx, &first))

	second := model.AttendanceSession{UserID: f.staff.ID, CheckIn: now.Add(time.Minute), WorkDate: "2025-03-14"}
	err := f.attendanceRepo.Create(ctx, &second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Closed sessions do not occupy the slot.
	closed, err := f.attendanceRepo.Close(ctx, first.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, closed)
	third := model.AttendanceSession{UserID: f.staff.ID, CheckIn: now.Add(2 * time.Hour), WorkDate: "2025-03-14"}
	assert.NoError(t, f.attendanceRepo.Create(ctx, &third))
}

func TestCloseIsCompareAndSwap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.attendance.CheckIn(ctx, testutil.Session(f.staff))
	require.NoError(t, err)

	ok, err := f.attendanceRepo.Close(ctx, s.ID, f.clock.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.attendanceRepo.Close(ctx, s.ID, f.clock.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckOutWithoutReportIsBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	_, err = f.attendance.CheckOut(ctx, s)
	require.ErrorIs(t, err, ErrConflictBlocked)

	var blocked *CheckoutBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.True(t, blocked.Decision.NeedsReport)
	assert.False(t, blocked.Decision.CanCheckout)
	assert.Equal(t, model.ReportStateNone, blocked.Decision.State)
	assert.Equal(t, "2025-03-14", blocked.Decision.WorkDate)

	// The session stays open.
	active, err := f.attendance.GetActiveSession(ctx, f.staff.ID)
	require.NoError(t, err)
	assert.NotNil(t, active)
}

func TestCheckOutWithoutSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.attendance.CheckOut(context.Background(), testutil.Session(f.staff))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.attendance.OverrideCheckout(context.Background(), testutil.Session(f.staff))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitThenCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	_, err = f.reports.Submit(ctx, s, "", "Finished GST reconciliation", 3)
	require.NoError(t, err)

	decision, err := f.attendance.CanCheckout(ctx, s)
	require.NoError(t, err)
	assert.True(t, decision.CanCheckout)
	assert.Equal(t, model.ReportStateReported, decision.State)

	f.clock.Advance(8 * time.Hour)
	closed, err := f.attendance.CheckOut(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOut)
	assert.Equal(t, f.clock.Now(), *closed.CheckOut)

	active, err := f.attendance.GetActiveSession(ctx, f.staff.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	state, err := f.attendance.State(ctx, s)
	require.NoError(t, err)
	assert.False(t, state.IsCheckedIn)
	assert.Equal(t, "Checked Out", state.LastActivity)
}

func TestOverrideCheckoutClosesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	closed, err := f.attendance.OverrideCheckout(ctx, s)
	require.NoError(t, err)
	assert.NotNil(t, closed.CheckOut)

	report, err := f.reports.GetForDate(ctx, s, "2025-03-14")
	require.NoError(t, err)
	assert.True(t, report.Overridden)
	assert.Equal(t, model.OverrideSummary, report.Summary)
	assert.Equal(t, model.ReportStateOverridden, report.State())
	require.NotNil(t, report.OverriddenAt)

	// Second override for the same date writes nothing.
	created, err := f.reports.Override(ctx, f.staff.ID, "2025-03-14")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), f.reportCount(t, f.staff.ID, "2025-03-14"))
}

func TestOverriddenDayStillBlocksPlainCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)
	_, err = f.attendance.OverrideCheckout(ctx, s)
	require.NoError(t, err)

	// Back in the same day: the placeholder does not satisfy the gate.
	f.clock.Advance(time.Hour)
	_, err = f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	_, err = f.attendance.CheckOut(ctx, s)
	var blocked *CheckoutBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, model.ReportStateOverridden, blocked.Decision.State)

	// A real report clears the override.
	report, err := f.reports.Submit(ctx, s, "2025-03-14", "Audit notes for client A", 2)
	require.NoError(t, err)
	assert.False(t, report.Overridden)
	assert.Equal(t, model.ReportStateReported, report.State())
	assert.Equal(t, int64(1), f.reportCount(t, f.staff.ID, "2025-03-14"))

	_, err = f.attendance.CheckOut(ctx, s)
	assert.NoError(t, err)
}

func TestSessionAcrossMidnightUsesItsWorkDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	f.clock.T = time.Date(2025, 3, 14, 22, 0, 0, 0, testutil.IST)
	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	f.clock.Advance(4 * time.Hour) // 02:00 on the 15th
	decision, err := f.attendance.CanCheckout(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", decision.WorkDate)
	assert.False(t, decision.CanCheckout)

	_, err = f.reports.Submit(ctx, s, "2025-03-14", "Late closing of books", 1)
	require.NoError(t, err)

	_, err = f.attendance.CheckOut(ctx, s)
	assert.NoError(t, err)
}

func TestCanCheckoutWhenNotCheckedInUsesToday(t *testing.T) {
	f := newFixture(t)
	decision, err := f.attendance.CanCheckout(context.Background(), testutil.Session(f.staff))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", decision.WorkDate)
	assert.True(t, decision.NeedsReport)
}

func TestUpdateActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	err := f.attendance.UpdateActivity(ctx, s, "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "activity")

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, f.attendance.UpdateActivity(ctx, s, string(long)), ErrValidation)

	require.NoError(t, f.attendance.UpdateActivity(ctx, s, "Reviewing TDS returns"))
	state, err := f.attendance.State(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Reviewing TDS returns", state.LastActivity)
}

func TestHistoryDefaultsToAWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.closedSession(t, f.staff.ID, "2025-03-01")
	f.closedSession(t, f.staff.ID, "2025-03-10")
	f.closedSession(t, f.staff.ID, "2025-03-12")

	list, err := f.attendance.History(ctx, testutil.Session(f.staff), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03-12", list[0].WorkDate)
}

func TestAttendanceMutationsInvalidateCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)
	_, err = f.attendance.OverrideCheckout(ctx, s)
	require.NoError(t, err)

	// check-in, override placeholder, check-out
	assert.Equal(t, int64(3), f.cache.n.Load())
}

func TestUnauthenticatedSessionIsRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.attendance.CheckIn(context.Background(), model.Session{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
