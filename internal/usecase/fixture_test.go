package usecase

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/testutil"

	"gorm.io/gorm"
)

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) Send(_ context.Context, to []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type countingInvalidator struct{ n atomic.Int64 }

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

type fixture struct {
	db       *gorm.DB
	clock    *testutil.Clock
	cal      Calendar
	notifier *fakeNotifier
	cache    *countingInvalidator

	reports    *ReportUsecase
	attendance *AttendanceUsecase
	gate       *CheckoutGate

	attendanceRepo repository.AttendanceRepository
	reportRepo     repository.DailyReportRepository

	partner model.User
	staff   model.User
	article model.User
}

// newFixture starts the clock at 10:00 IST on 2025-03-14.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:       testutil.NewDB(t),
		clock:    testutil.NewClock(time.Date(2025, 3, 14, 10, 0, 0, 0, testutil.IST)),
		notifier: &fakeNotifier{},
		cache:    &countingInvalidator{},
	}
	f.cal = Calendar{Loc: testutil.IST, Now: f.clock.Now}

	f.attendanceRepo = repository.NewAttendanceRepository(f.db)
	f.reportRepo = repository.NewDailyReportRepository(f.db)
	f.gate = NewCheckoutGate(f.reportRepo)
	f.reports = NewReportUsecase(f.reportRepo, f.attendanceRepo, repository.NewDashboardRepository(f.db), f.notifier, f.cache, f.cal)
	f.attendance = NewAttendanceUsecase(f.attendanceRepo, repository.NewActivityLogRepository(f.db), f.reports, f.gate, f.cache, f.cal)

	f.partner = testutil.CreateUser(t, f.db, "partner", model.RolePartner)
	f.staff = testutil.CreateUser(t, f.db, "ravi", model.RoleStaff)
	f.article = testutil.CreateUser(t, f.db, "asha", model.RoleArticle)
	return f
}

// closedSession stores a finished session for userID on date.
func (f *fixture) closedSession(t *testing.T, userID uint, date string) {
	t.Helper()
	start, err := time.ParseInLocation(DateLayout, date, testutil.IST)
	if err != nil {
		t.Fatal(err)
	}
	in := start.Add(9 * time.Hour)
	out := start.Add(18 * time.Hour)
	err = f.attendanceRepo.Create(context.Background(), &model.AttendanceSession{
		UserID:   userID,
		CheckIn:  in,
		CheckOut: &out,
		WorkDate: date,
		Status:   model.AttendancePresent,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) reportCount(t *testing.T, userID uint, date string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.DailyReport{}).Where("user_id = ? AND work_date = ?", userID, date).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
