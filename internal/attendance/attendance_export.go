package attendance

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportMonthlySummary renders the monthly summary as an xlsx workbook
// and returns its bytes plus a suggested filename.
func (s *service) ExportMonthlySummary(ctx context.Context, actor rbac.Actor, month string) ([]byte, string, error) {
	rows, err := s.MonthlySummary(ctx, actor, month, "")
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Employee", "Present Days", "Late Days", "Absent Days", "Total Hours"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for i, row := range rows {
		values := []any{
			row.FirstName + " " + row.LastName,
			row.PresentDays,
			row.LateDays,
			row.AbsentDays,
			row.TotalHours,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("attendance export failed", zap.String("month", month), zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance-summary-%s.xlsx", month)
	s.logger.Info("attendance summary exported",
		zap.String("month", month),
		zap.Int("rows", len(rows)),
		zap.String("actor_id", actor.ID),
	)
	return buf.Bytes(), filename, nil
}
