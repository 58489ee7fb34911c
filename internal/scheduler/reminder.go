package scheduler

import (
	"context"
	"fmt"
	"time"

	"mkc-office-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Reminder emails users who attended today but have not reported.
type Reminder interface {
	RemindCheckedIn(ctx context.Context) (int, error)
}

// ReportReminder runs Reminder on a standard five-field cron spec,
// e.g. "30 18 * * 1-6" for 18:30 Monday to Saturday.
type ReportReminder struct {
	cron     *cron.Cron
	reminder Reminder
	spec     string
	timeout  time.Duration
	jobID    cron.EntryID
}

func NewReportReminder(reminder Reminder, spec string, loc *time.Location) *ReportReminder {
	if loc == nil {
		loc = time.Local
	}
	return &ReportReminder{
		cron:     cron.New(cron.WithLocation(loc)),
		reminder: reminder,
		spec:     spec,
		timeout:  2 * time.Minute,
	}
}

// Start schedules the job. An empty spec leaves the reminder disabled.
func (r *ReportReminder) Start() error {
	if r.spec == "" {
		logger.Info("scheduler.reminder.disabled")
		return nil
	}

	var err error
	r.jobID, err = r.cron.AddFunc(r.spec, r.Run)
	if err != nil {
		return fmt.Errorf("schedule report reminder %q: %w", r.spec, err)
	}

	r.cron.Start()
	logger.Info("scheduler.reminder.started", "spec", r.spec, "next", r.cron.Entry(r.jobID).Next)
	return nil
}

// Stop waits for a running job to finish.
func (r *ReportReminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler.reminder.stopped")
}

func (r *ReportReminder) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	sent, err := r.reminder.RemindCheckedIn(ctx)
	if err != nil {
		logger.Error("scheduler.reminder.failed", "err", err)
		return
	}
	logger.Info("scheduler.reminder.done", "sent", sent)
}
