package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StaffUpcomingDays  = 90
	StaffUpcomingLimit = 5
)

// ComplianceView is an item with its decoded rule and next due date.
type ComplianceView struct {
	model.ComplianceItem
	Rule           model.FilingRule `json:"filing_rule"`
	NextFilingDate *string          `json:"next_filing_date"`
	DaysUntilDue   *int             `json:"days_until_due,omitempty"`
}

type ComplianceInput struct {
	Category    string
	Particular  string
	Description string
	Frequency   string
	Rule        model.FilingRule
}

// ComplianceUpdate holds the fields to change; nil means unchanged.
type ComplianceUpdate struct {
	Category    *string
	Particular  *string
	Description *string
	Frequency   *string
	Rule        *model.FilingRule
}

type ComplianceUsecase struct {
	repo repository.ComplianceRepository
	cal  Calendar
}

func NewComplianceUsecase(repo repository.ComplianceRepository, cal Calendar) *ComplianceUsecase {
	return &ComplianceUsecase{repo: repo, cal: cal}
}

// List returns active items, optionally restricted to one category ("" or ALL for every category).
func (u *ComplianceUsecase) List(ctx context.Context, s model.Session, category string) ([]ComplianceView, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if category == "ALL" {
		category = ""
	}

	items, err := u.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list compliance: %w", err)
	}

	today := u.today()
	views := make([]ComplianceView, 0, len(items))
	for _, item := range items {
		views = append(views, u.view(item, today))
	}
	return views, nil
}

// Upcoming returns active items due within the next days, soonest first.
func (u *ComplianceUsecase) Upcoming(ctx context.Context, s model.Session, days int) ([]ComplianceView, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if days <= 0 {
		days = 30
	}

	items, err := u.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list compliance: %w", err)
	}

	today := u.today()
	horizon := today.AddDate(0, 0, days)

	upcoming := make([]ComplianceView, 0)
	for _, item := range items {
		v := u.view(item, today)
		if v.NextFilingDate == nil {
			continue
		}
		next, _ := time.ParseInLocation(DateLayout, *v.NextFilingDate, u.cal.location())
		if next.After(horizon) {
			continue
		}
		n := daysBetween(today, next)
		v.DaysUntilDue = &n
		upcoming = append(upcoming, v)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return *upcoming[i].NextFilingDate < *upcoming[j].NextFilingDate
	})
	return upcoming, nil
}

// StaffUpcoming is the short list shown to staff: the next five filings within 90 days.
func (u *ComplianceUsecase) StaffUpcoming(ctx context.Context, s model.Session) ([]ComplianceView, error) {
	list, err := u.Upcoming(ctx, s, StaffUpcomingDays)
	if err != nil {
		return nil, err
	}
	if len(list) > StaffUpcomingLimit {
		list = list[:StaffUpcomingLimit]
	}
	return list, nil
}

func (u *ComplianceUsecase) Create(ctx context.Context, s model.Session, in ComplianceInput) (*model.ComplianceItem, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	in.Particular = strings.TrimSpace(in.Particular)
	if in.Particular == "" {
		return nil, NewValidationError("particular", "particular is required")
	}
	if err := validateCategory(in.Category); err != nil {
		return nil, err
	}
	if err := validateRule(in.Frequency, in.Rule); err != nil {
		return nil, err
	}

	raw, err := sonic.Marshal(in.Rule)
	if err != nil {
		return nil, err
	}

	item := model.ComplianceItem{
		Category:    in.Category,
		Particular:  in.Particular,
		Description: strings.TrimSpace(in.Description),
		Frequency:   in.Frequency,
		FilingDates: datatypes.JSON(raw),
		IsActive:    true,
	}
	if err := u.repo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("create compliance item: %w", err)
	}

	logger.Info("compliance.created", "id", item.ID, "partner_id", s.UserID)
	return &item, nil
}

func (u *ComplianceUsecase) Update(ctx context.Context, s model.Session, id uint, in ComplianceUpdate) (*model.ComplianceItem, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	current, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Category != nil {
		if err := validateCategory(*in.Category); err != nil {
			return nil, err
		}
		fields["category"] = *in.Category
	}
	if in.Particular != nil {
		p := strings.TrimSpace(*in.Particular)
		if p == "" {
			return nil, NewValidationError("particular", "particular is required")
		}
		fields["particular"] = p
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}

	// Frequency and rule are validated together against the resulting item.
	frequency := current.Frequency
	if in.Frequency != nil {
		frequency = *in.Frequency
		fields["frequency"] = frequency
	}
	if in.Frequency != nil || in.Rule != nil {
		rule, _ := decodeRule(current.FilingDates)
		if in.Rule != nil {
			rule = *in.Rule
		}
		if err := validateRule(frequency, rule); err != nil {
			return nil, err
		}
		raw, err := sonic.Marshal(rule)
		if err != nil {
			return nil, err
		}
		fields["filing_dates"] = datatypes.JSON(raw)
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = u.cal.Time()

	if err := u.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("compliance item")
		}
		return nil, fmt.Errorf("update compliance item: %w", err)
	}
	return u.find(ctx, id)
}

// ToggleActive archives an active item or restores an archived one.
func (u *ComplianceUsecase) ToggleActive(ctx context.Context, s model.Session, id uint) (*model.ComplianceItem, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	item, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.SetActive(ctx, id, !item.IsActive); err != nil {
		return nil, fmt.Errorf("toggle compliance item: %w", err)
	}
	item.IsActive = !item.IsActive
	return item, nil
}

func (u *ComplianceUsecase) find(ctx context.Context, id uint) (*model.ComplianceItem, error) {
	item, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("compliance item")
	}
	return item, err
}

func (u *ComplianceUsecase) today() time.Time {
	now := u.cal.Time()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.cal.location())
}

func (u *ComplianceUsecase) view(item model.ComplianceItem, today time.Time) ComplianceView {
	v := ComplianceView{ComplianceItem: item}
	rule, err := decodeRule(item.FilingDates)
	if err != nil {
		logger.Warn("compliance.rule.invalid", "id", item.ID, "err", err)
		return v
	}
	v.Rule = rule
	if next, ok := NextFilingDate(rule, item.Frequency, today); ok {
		d := next.Format(DateLayout)
		v.NextFilingDate = &d
	}
	return v
}

// NextFilingDate returns the first due date strictly after today. CUSTOM
// items and rules that do not parse have none.
func NextFilingDate(rule model.FilingRule, frequency string, today time.Time) (time.Time, bool) {
	y, m, d := today.Date()
	loc := today.Location()
	today = time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch frequency {
	case model.FrequencyMonthly:
		day, ok := rule.Day.Int()
		if !ok || day < 1 || day > 31 {
			return time.Time{}, false
		}
		next := clampedDate(y, m, day, loc)
		if !next.After(today) {
			next = clampedDate(y, m+1, day, loc)
		}
		return next, true

	case model.FrequencyQuarterly:
		var best time.Time
		for _, s := range rule.Dates {
			next, ok := nextAnnual(s, today)
			if !ok {
				continue
			}
			if best.IsZero() || next.Before(best) {
				best = next
			}
		}
		return best, !best.IsZero()

	case model.FrequencyAnnual:
		return nextAnnual(rule.Date, today)
	}
	return time.Time{}, false
}

var dayMonthPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\s*$`)

// parseDayMonth reads dates written like "15th June" or "31st October".
func parseDayMonth(s string) (int, time.Month, bool) {
	m := dayMonthPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	day, _ := strconv.Atoi(m[1])
	if day < 1 || day > 31 {
		return 0, 0, false
	}
	for month := time.January; month <= time.December; month++ {
		if strings.EqualFold(month.String(), m[2]) {
			return day, month, true
		}
	}
	return 0, 0, false
}

func nextAnnual(s string, today time.Time) (time.Time, bool) {
	day, month, ok := parseDayMonth(s)
	if !ok {
		return time.Time{}, false
	}
	next := clampedDate(today.Year(), month, day, today.Location())
	if !next.After(today) {
		next = clampedDate(today.Year()+1, month, day, today.Location())
	}
	return next, true
}

// clampedDate builds y-m-day, moving day back to the month's last day when it overflows.
func clampedDate(y int, m time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}

func decodeRule(raw datatypes.JSON) (model.FilingRule, error) {
	var rule model.FilingRule
	if len(raw) == 0 {
		return rule, nil
	}
	err := sonic.Unmarshal(raw, &rule)
	return rule, err
}

func validateCategory(c string) error {
	if c != model.CategoryDirectTax && c != model.CategoryIndirectTax {
		return NewValidationError("category", "must be DIRECT_TAX or INDIRECT_TAX")
	}
	return nil
}

func validateRule(frequency string, rule model.FilingRule) error {
	switch frequency {
	case model.FrequencyMonthly:
		day, ok := rule.Day.Int()
		if !ok || day < 1 || day > 31 {
			return NewValidationError("filing_dates.day", "must be a day of month between 1 and 31")
		}
	case model.FrequencyQuarterly:
		if len(rule.Dates) == 0 && rule.Note == "" {
			return NewValidationError("filing_dates.dates", "at least one date or a note is required")
		}
		for _, d := range rule.Dates {
			if _, _, ok := parseDayMonth(d); !ok {
				return NewValidationError("filing_dates.dates", fmt.Sprintf("cannot read %q, expected e.g. \"15th June\"", d))
			}
		}
	case model.FrequencyAnnual:
		if rule.Date == "" && rule.Note != "" {
			return nil
		}
		if _, _, ok := parseDayMonth(rule.Date); !ok {
			return NewValidationError("filing_dates.date", "expected a date like \"31st October\"")
		}
	case model.FrequencyCustom:
	default:
		return NewValidationError("frequency", "must be MONTHLY, QUARTERLY, ANNUAL or CUSTOM")
	}
	return nil
}
