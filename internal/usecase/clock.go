package usecase

import "time"

const DateLayout = "2006-01-02"

// Calendar resolves "now" and "today" in the office time zone.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Loc: loc, Now: time.Now}
}

func (c Calendar) location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

func (c Calendar) Time() time.Time {
	if c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

func (c Calendar) Today() string {
	return c.Time().Format(DateLayout)
}

// DayBounds returns [start, end) of the given YYYY-MM-DD date.
func (c Calendar) DayBounds(date string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, date, c.location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

func (c Calendar) DaysAgo(days int) string {
	return c.Time().AddDate(0, 0, -days).Format(DateLayout)
}
