package usecase

import (
	"context"
	"testing"
	"time"

	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/testutil"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, testutil.IST)
}

func TestNextFilingDate(t *testing.T) {
	cases := []struct {
		name      string
		rule      model.FilingRule
		frequency string
		today     time.Time
		want      string
	}{
		{"monthly later this month", model.FilingRule{Day: "20"}, model.FrequencyMonthly, day(2025, 3, 10), "2025-03-20"},
		{"monthly already passed", model.FilingRule{Day: "7"}, model.FrequencyMonthly, day(2025, 3, 10), "2025-04-07"},
		{"monthly due today rolls over", model.FilingRule{Day: "10"}, model.FrequencyMonthly, day(2025, 3, 10), "2025-04-10"},
		{"monthly clamps short month", model.FilingRule{Day: "31"}, model.FrequencyMonthly, day(2025, 2, 10), "2025-02-28"},
		{"monthly across year end", model.FilingRule{Day: "7"}, model.FrequencyMonthly, day(2025, 12, 20), "2026-01-07"},
		{"quarterly earliest upcoming", model.FilingRule{Dates: []string{"15th June", "15th September", "15th December", "15th March"}}, model.FrequencyQuarterly, day(2025, 3, 20), "2025-06-15"},
		{"quarterly wraps to next year", model.FilingRule{Dates: []string{"31st July", "31st October", "31st January", "31st May"}}, model.FrequencyQuarterly, day(2025, 11, 1), "2026-01-31"},
		{"annual this year", model.FilingRule{Date: "31st October"}, model.FrequencyAnnual, day(2025, 3, 10), "2025-10-31"},
		{"annual next year", model.FilingRule{Date: "31st May"}, model.FrequencyAnnual, day(2025, 6, 1), "2026-05-31"},
		{"annual case insensitive", model.FilingRule{Date: "2nd APRIL"}, model.FrequencyAnnual, day(2025, 1, 1), "2025-04-02"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextFilingDate(tc.rule, tc.frequency, tc.today)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Format(DateLayout))
		})
	}
}

func TestMonthlyDayAcceptsNumberOrString(t *testing.T) {
	today := day(2025, 3, 10)
	for _, raw := range []string{`{"day":7}`, `{"day":"7"}`, `{"day":" 7 "}`} {
		rule, err := decodeRule(datatypes.JSON(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, model.FilingDay("7"), rule.Day, raw)

		next, ok := NextFilingDate(rule, model.FrequencyMonthly, today)
		require.True(t, ok, raw)
		assert.Equal(t, "2025-04-07", next.Format(DateLayout), raw)
	}

	_, err := decodeRule(datatypes.JSON(`{"day":7.5}`))
	assert.Error(t, err)

	// Stored as a string either way.
	raw, err := sonic.Marshal(model.FilingRule{Day: "7"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"7"}`, string(raw))
}

func TestNextFilingDateNone(t *testing.T) {
	today := day(2025, 3, 10)
	for _, tc := range []struct {
		rule      model.FilingRule
		frequency string
	}{
		{model.FilingRule{Note: "At the time of foreign remittance"}, model.FrequencyCustom},
		{model.FilingRule{Note: "Last day of succeeding month"}, model.FrequencyQuarterly},
		{model.FilingRule{Day: "soon"}, model.FrequencyMonthly},
		{model.FilingRule{Date: "Diwali"}, model.FrequencyAnnual},
	} {
		_, ok := NextFilingDate(tc.rule, tc.frequency, today)
		assert.False(t, ok, "%+v", tc.rule)
	}
}

func newComplianceUsecase(t *testing.T) (*ComplianceUsecase, *fixture) {
	f := newFixture(t)
	return NewComplianceUsecase(repository.NewComplianceRepository(f.db), f.cal), f
}

func TestComplianceLifecycle(t *testing.T) {
	uc, f := newComplianceUsecase(t)
	ctx := context.Background()
	partner := testutil.Session(f.partner)

	_, err := uc.Create(ctx, testutil.Session(f.staff), ComplianceInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Create(ctx, partner, ComplianceInput{
		Category: model.CategoryIndirectTax, Particular: "GSTR-3B", Frequency: model.FrequencyMonthly,
		Rule: model.FilingRule{Day: "40"},
	})
	assert.ErrorIs(t, err, ErrValidation)

	tds, err := uc.Create(ctx, partner, ComplianceInput{
		Category: model.CategoryDirectTax, Particular: "Monthly TDS Deposit", Frequency: model.FrequencyMonthly,
		Rule: model.FilingRule{Day: "7"},
	})
	require.NoError(t, err)
	gst, err := uc.Create(ctx, partner, ComplianceInput{
		Category: model.CategoryIndirectTax, Particular: "GSTR-3B", Frequency: model.FrequencyMonthly,
		Rule: model.FilingRule{Day: "20"},
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, partner, ComplianceInput{
		Category: model.CategoryDirectTax, Particular: "Form 15CA", Frequency: model.FrequencyCustom,
		Rule: model.FilingRule{Note: "At the time of remittance"},
	})
	require.NoError(t, err)

	// Today is 2025-03-14: GSTR-3B on the 20th, TDS on 7 April.
	upcoming, err := uc.Upcoming(ctx, testutil.Session(f.staff), 30)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, gst.ID, upcoming[0].ID)
	assert.Equal(t, "2025-03-20", *upcoming[0].NextFilingDate)
	assert.Equal(t, 6, *upcoming[0].DaysUntilDue)
	assert.Equal(t, tds.ID, upcoming[1].ID)
	assert.Equal(t, 24, *upcoming[1].DaysUntilDue)

	upcoming, err = uc.Upcoming(ctx, testutil.Session(f.staff), 10)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	list, err := uc.List(ctx, testutil.Session(f.staff), model.CategoryDirectTax)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Archive TDS; it drops out of listings.
	item, err := uc.ToggleActive(ctx, partner, tds.ID)
	require.NoError(t, err)
	assert.False(t, item.IsActive)
	list, err = uc.List(ctx, partner, "ALL")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Move GSTR-3B to the 25th.
	rule := model.FilingRule{Day: "25"}
	updated, err := uc.Update(ctx, partner, gst.ID, ComplianceUpdate{Rule: &rule})
	require.NoError(t, err)
	got, err := decodeRule(updated.FilingDates)
	require.NoError(t, err)
	assert.Equal(t, model.FilingDay("25"), got.Day)

	_, err = uc.Update(ctx, partner, 9999, ComplianceUpdate{Rule: &rule})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffUpcomingTopFive(t *testing.T) {
	uc, f := newComplianceUsecase(t)
	ctx := context.Background()
	partner := testutil.Session(f.partner)

	for _, d := range []model.FilingDay{"15", "16", "17", "18", "19", "20", "21"} {
		_, err := uc.Create(ctx, partner, ComplianceInput{
			Category: model.CategoryIndirectTax, Particular: "Return due " + string(d), Frequency: model.FrequencyMonthly,
			Rule: model.FilingRule{Day: d},
		})
		require.NoError(t, err)
	}

	list, err := uc.StaffUpcoming(ctx, testutil.Session(f.staff))
	require.NoError(t, err)
	require.Len(t, list, StaffUpcomingLimit)
	assert.Equal(t, "2025-03-15", *list[0].NextFilingDate)
	assert.Equal(t, "2025-03-19", *list[4].NextFilingDate)
}
