package usecase

import (
	"bytes"
	"context"
	"fmt"

	"erp-backend/internal/access"
	"erp-backend/internal/apperr"

	"github.com/xuri/excelize/v2"
)

var balanceExportHeader = []interface{}{"Employee", "Department", "Leave type", "Year", "Total days", "Used days", "Remaining"}

// ExportBalances renders the leave balances visible to the caller as an XLSX
// workbook. HR-global leads and admins see everyone; other leads see their
// departments only.
func (u *LeaveUsecase) ExportBalances(ctx context.Context, actorID uint, year int) ([]byte, error) {
	ctx, span := startSpan(ctx, "leave.ExportBalances", actorID)
	defer span.End()

	a, err := loadActor(ctx, u.store, u.resolver, actorID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessAdminSection(a.Scope, access.SectionReports) {
		return nil, apperr.Forbidden("you cannot export leave balances")
	}
	if year == 0 {
		year = u.now().Year()
	}
	rows, err := u.store.Leaves.ListBalanceReport(ctx, access.DepartmentScope(a.Scope, access.DomainHR), year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Balances"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &balanceExportHeader); err != nil {
		return nil, err
	}
	for i, r := range rows {
		line := []interface{}{r.FullName, r.Department, r.LeaveType, r.Year, r.TotalDays, r.UsedDays, r.TotalDays - r.UsedDays}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &line); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperr.Internal("failed to render workbook", err)
	}
	return buf.Bytes(), nil
}
