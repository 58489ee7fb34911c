package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

const (
	CategoryDirectTax   = "DIRECT_TAX"
	CategoryIndirectTax = "INDIRECT_TAX"

	FrequencyMonthly   = "MONTHLY"
	FrequencyQuarterly = "QUARTERLY"
	FrequencyAnnual    = "ANNUAL"
	FrequencyCustom    = "CUSTOM"
)

// ComplianceItem is a recurring statutory filing obligation. FilingDates holds
// the recurrence rule, e.g. {"day":"7"}, {"dates":["15th June"]}, {"date":"31st October"}.
type ComplianceItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Category    string         `json:"category" gorm:"size:20;not null;index"`
	Particular  string         `json:"particular" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Frequency   string         `json:"frequency" gorm:"size:20;not null"`
	FilingDates datatypes.JSON `json:"filing_dates"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type FilingRule struct {
	Day         FilingDay `json:"day,omitempty"`
	Dates       []string  `json:"dates,omitempty"`
	Date        string    `json:"date,omitempty"`
	Conditional string    `json:"conditional,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// FilingDay is the day of month of a monthly rule. It decodes from either a
// JSON number (7) or a string ("7") and is stored as a string.
type FilingDay string

func (d *FilingDay) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*d = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := sonic.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = FilingDay(strings.TrimSpace(s))
		return nil
	}

	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("filing day must be a whole number, got %s", b)
	}
	*d = FilingDay(strconv.Itoa(n))
	return nil
}

// Int returns the day as a number; ok is false when it is not one.
func (d FilingDay) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(d)))
	return n, err == nil
}
