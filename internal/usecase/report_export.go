package usecase

import (
	"bytes"
	"context"
	"fmt"

	"mkc-office-backend/internal/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Daily Reports"

var exportHeaders = []string{"Date", "Staff", "Role", "Summary", "Tasks Completed", "Overridden", "Overridden At", "Submitted At"}

// Export renders the filtered partner listing as an .xlsx workbook.
func (u *ReportUsecase) Export(ctx context.Context, s model.Session, filter model.ReportFilter) ([]byte, error) {
	rows, err := u.ListAll(ctx, s, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle)

	for i, r := range rows {
		overriddenAt := ""
		if r.OverriddenAt != nil {
			overriddenAt = r.OverriddenAt.In(u.cal.location()).Format("2006-01-02 15:04")
		}
		overridden := "No"
		if r.Overridden {
			overridden = "Yes"
		}

		values := []interface{}{
			r.WorkDate,
			r.UserName,
			r.UserRole,
			r.Summary,
			r.TasksCompleted,
			overridden,
			overriddenAt,
			r.SubmittedAt.In(u.cal.location()).Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(exportSheet, "A", "C", 14)
	f.SetColWidth(exportSheet, "D", "D", 60)
	f.SetColWidth(exportSheet, "E", "H", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
