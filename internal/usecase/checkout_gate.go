package usecase

import (
	"context"
	"errors"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"

	"gorm.io/gorm"
)

// CheckoutDecision is the gate's answer for one (user, work date).
type CheckoutDecision struct {
	CanCheckout bool              `json:"can_checkout"`
	NeedsReport bool              `json:"needs_report"`
	State       model.ReportState `json:"state"`
	WorkDate    string            `json:"work_date"`
}

// CheckoutGate couples attendance to the report ledger: only a genuine report
// for the work date lets a plain checkout through.
//
//	no_report  -> deny, needs report
//	overridden -> deny (the override path closes the session itself)
//	reported   -> allow
type CheckoutGate struct {
	reports repository.DailyReportRepository
}

func NewCheckoutGate(reports repository.DailyReportRepository) *CheckoutGate {
	return &CheckoutGate{reports: reports}
}

// Evaluate never fails open: a lookup error yields a blocking decision.
func (g *CheckoutGate) Evaluate(ctx context.Context, userID uint, workDate string) CheckoutDecision {
	decision := CheckoutDecision{
		NeedsReport: true,
		State:       model.ReportStateNone,
		WorkDate:    workDate,
	}

	report, err := g.reports.FindByUserDate(ctx, userID, workDate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("checkout.gate.lookup_failed", "user_id", userID, "work_date", workDate, "err", err)
		}
		return decision
	}

	decision.State = report.State()
	if decision.State == model.ReportStateReported {
		decision.CanCheckout = true
		decision.NeedsReport = false
	}
	return decision
}
