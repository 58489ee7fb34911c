package model

import "time"

// OverrideSummary is stored as the summary of a report created by the
// checkout override. It is display text only; state comes from Overridden.
const OverrideSummary = "[Pending - Checkout Overridden]"

type ReportState string

const (
	ReportStateNone       ReportState = "no_report"
	ReportStateOverridden ReportState = "overridden"
	ReportStateReported   ReportState = "reported"
)

type DailyReport struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:uk_report_user_date,priority:1"`
	WorkDate       string     `json:"work_date" gorm:"size:10;not null;uniqueIndex:uk_report_user_date,priority:2"`
	Summary        string     `json:"summary" gorm:"type:text;not null"`
	TasksCompleted int        `json:"tasks_completed" gorm:"default:0"`
	Overridden     bool       `json:"overridden" gorm:"default:false"`
	OverriddenAt   *time.Time `json:"overridden_at"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// State of a stored row. A missing row is ReportStateNone.
func (r *DailyReport) State() ReportState {
	if r == nil {
		return ReportStateNone
	}
	if r.Overridden {
		return ReportStateOverridden
	}
	return ReportStateReported
}

// ReportRow is a report joined with its author for partner listings.
type ReportRow struct {
	DailyReport
	UserName string `json:"user_name"`
	UserRole string `json:"user_role"`
}

type ReportFilter struct {
	From           string
	To             string
	UserIDs        []uint
	OverriddenOnly bool
	OldestFirst    bool
}
