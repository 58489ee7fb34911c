package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	cases := []struct {
		name    string
		date    string
		summary string
		count   int
		field   string
	}{
		{"empty summary", "", "   ", 1, "summary"},
		{"negative count", "", "ok", -1, "tasks_completed"},
		{"bad date", "14-03-2025", "ok", 1, "work_date"},
		{"future date", "2025-03-15", "ok", 1, "work_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reports.Submit(ctx, s, tc.date, tc.summary, tc.count)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&model.DailyReport{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitTwiceUpdatesTheSameRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	first, err := f.reports.Submit(ctx, s, "2025-03-13", "  draft  ", 1)
	require.NoError(t, err)
	assert.Equal(t, "draft", first.Summary)

	second, err := f.reports.Submit(ctx, s, "2025-03-13", "final", 4)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "final", second.Summary)
	assert.Equal(t, 4, second.TasksCompleted)
	assert.Equal(t, int64(1), f.reportCount(t, f.staff.ID, "2025-03-13"))
}

func TestGetForDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	_, err := f.reports.GetForDate(ctx, s, "2025-03-10")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.reports.GetForDate(ctx, s, "yesterday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	// Twelve finished days in February: one reported, one overridden.
	for day := 1; day <= 12; day++ {
		f.closedSession(t, f.staff.ID, fmt.Sprintf("2025-02-%02d", day))
	}
	_, err := f.reports.Submit(ctx, s, "2025-02-12", "done", 1)
	require.NoError(t, err)
	_, err = f.reports.Override(ctx, f.staff.ID, "2025-02-11")
	require.NoError(t, err)

	// Two sessions on the same day count once.
	f.closedSession(t, f.staff.ID, "2025-02-10")

	pending, err := f.reports.ListPending(ctx, s)
	require.NoError(t, err)
	require.Len(t, pending, PendingReportLimit)
	assert.Equal(t, "2025-02-11", pending[0], "overridden day still needs a report")
	assert.Equal(t, "2025-02-02", pending[9])
	assert.NotContains(t, pending, "2025-02-12")
	assert.NotContains(t, pending, "2025-02-01", "capped at ten")

	// Backfilling the overridden day clears it.
	_, err = f.reports.Submit(ctx, s, "2025-02-11", "backfilled", 3)
	require.NoError(t, err)
	pending, err = f.reports.ListPending(ctx, s)
	require.NoError(t, err)
	assert.NotContains(t, pending, "2025-02-11")
	assert.Equal(t, "2025-02-01", pending[9])
}

func TestListPendingSkipsOpenSessionDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := testutil.Session(f.staff)

	// Checked out earlier today, now back in.
	f.closedSession(t, f.staff.ID, "2025-03-14")
	f.closedSession(t, f.staff.ID, "2025-03-13")
	_, err := f.attendance.CheckIn(ctx, s)
	require.NoError(t, err)

	pending, err := f.reports.ListPending(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-13"}, pending)
}

func TestListPendingIsPerUser(t *testing.T) {
	f := newFixture(t)
	f.closedSession(t, f.article.ID, "2025-03-13")

	pending, err := f.reports.ListPending(context.Background(), testutil.Session(f.staff))
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListAllIsPartnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reports.Submit(ctx, testutil.Session(f.staff), "2025-03-12", "staff work", 2)
	require.NoError(t, err)
	_, err = f.reports.Submit(ctx, testutil.Session(f.article), "2025-03-13", "article work", 1)
	require.NoError(t, err)
	_, err = f.reports.Override(ctx, f.staff.ID, "2025-03-13")
	require.NoError(t, err)

	_, err = f.reports.ListAll(ctx, testutil.Session(f.staff), model.ReportFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, ErrUnauthorized)

	p := testutil.Session(f.partner)
	rows, err := f.reports.ListAll(ctx, p, model.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-03-13", rows[0].WorkDate)

	rows, err = f.reports.ListAll(ctx, p, model.ReportFilter{OverriddenOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.staff.Name, rows[0].UserName)

	rows, err = f.reports.ListAll(ctx, p, model.ReportFilter{UserIDs: []uint{f.article.ID}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.RoleArticle, rows[0].UserRole)

	rows, err = f.reports.ListAll(ctx, p, model.ReportFilter{From: "2025-03-13", To: "2025-03-13", OldestFirst: true})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.reports.ListAll(ctx, p, model.ReportFilter{From: "2025-03-14", To: "2025-03-01"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExportWorkbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reports.Submit(ctx, testutil.Session(f.staff), "2025-03-12", "Bank reconciliation", 5)
	require.NoError(t, err)

	_, err = f.reports.Export(ctx, testutil.Session(f.staff), model.ReportFilter{})
	assert.ErrorIs(t, err, ErrForbidden)

	data, err := f.reports.Export(ctx, testutil.Session(f.partner), model.ReportFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytesReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Daily Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2025-03-12", rows[1][0])
	assert.Equal(t, f.staff.Name, rows[1][1])
	assert.Equal(t, "Bank reconciliation", rows[1][3])
}

func TestRequestMissingEmailsUsersWithoutReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reports.Submit(ctx, testutil.Session(f.staff), "", "done", 1)
	require.NoError(t, err)

	_, err = f.reports.RequestMissing(ctx, testutil.Session(f.staff))
	assert.ErrorIs(t, err, ErrForbidden)

	n, err := f.reports.RequestMissing(ctx, testutil.Session(f.partner))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{f.article.Email}, f.notifier.sent[0].To)
}

func TestRemindCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.attendance.CheckIn(ctx, testutil.Session(f.staff))
	require.NoError(t, err)
	_, err = f.attendance.CheckIn(ctx, testutil.Session(f.article))
	require.NoError(t, err)
	_, err = f.reports.Submit(ctx, testutil.Session(f.article), "", "done", 1)
	require.NoError(t, err)

	sent, err := f.reports.RemindCheckedIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{f.staff.Email}, f.notifier.sent[0].To)
}

type failingReports struct {
	repository.DailyReportRepository
}

func (failingReports) FindByUserDate(context.Context, uint, string) (*model.DailyReport, error) {
	return nil, errors.New("connection reset")
}

func TestGateFailsClosed(t *testing.T) {
	gate := NewCheckoutGate(failingReports{})
	d := gate.Evaluate(context.Background(), 1, "2025-03-14")
	assert.False(t, d.CanCheckout)
	assert.True(t, d.NeedsReport)
	assert.Equal(t, model.ReportStateNone, d.State)
	assert.Equal(t, "2025-03-14", d.WorkDate)
}

func TestGateStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, model.ReportStateNone, f.gate.Evaluate(ctx, f.staff.ID, "2025-03-14").State)

	_, err := f.reports.Override(ctx, f.staff.ID, "2025-03-14")
	require.NoError(t, err)
	d := f.gate.Evaluate(ctx, f.staff.ID, "2025-03-14")
	assert.Equal(t, model.ReportStateOverridden, d.State)
	assert.False(t, d.CanCheckout)

	_, err = f.reports.Submit(ctx, testutil.Session(f.staff), "2025-03-14", "real", 0)
	require.NoError(t, err)
	d = f.gate.Evaluate(ctx, f.staff.ID, "2025-03-14")
	assert.Equal(t, model.ReportStateReported, d.State)
	assert.True(t, d.CanCheckout)
	assert.False(t, d.NeedsReport)
}
