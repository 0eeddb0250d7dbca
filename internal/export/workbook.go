// Package export writes entries to Excel workbooks and JSON backups and
// reads backups back.
package export

import (
	"fmt"
	"io"
	"time"

	"milkatm-backend/internal/aggregate"
	"milkatm-backend/internal/entry"
	"milkatm-backend/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	SheetEntries  = "Daily Entries"
	SheetSummary  = "Summary"
	SheetPayments = "Payment Methods"

	TotalsLabel = "TOTALS"

	sheetDateLayout = "02-Jan-2006"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func entryHeaders() []any {
	h := []any{"Date", "Machine", "Shift", "Total Milk (L)", "Distributed Milk (L)", "Leftover Milk (L)"}
	for _, m := range entry.Methods {
		h = append(h, m.Label()+" (L)", m.Label()+" (₹)")
	}
	return append(h, "Total Amount (₹)")
}

func entryCells(e entry.Entry) []any {
	machine := e.MachineName
	if machine == "" && e.MachineID != 0 {
		machine = fmt.Sprintf("#%d", e.MachineID)
	}
	row := []any{e.Date.Format(sheetDateLayout), machine, string(e.Shift), e.TotalMilkLoaded, e.DistributedMilk, e.LeftoverMilk}
	for _, m := range entry.Methods {
		row = append(row, e.Payments[m].Liters, e.Payments[m].Amount)
	}
	return append(row, e.TotalAmount)
}

func totalsCells(t report.Totals) []any {
	row := []any{TotalsLabel, "", "", t.TotalMilkLoaded, t.DistributedMilk, t.LeftoverMilk}
	for _, mt := range t.Methods.Methods {
		row = append(row, mt.Liters, mt.Amount)
	}
	return append(row, t.TotalAmount)
}

// Workbook builds the three-sheet export: one row per entry with a totals
// row, summary metrics, and per-method totals.
func Workbook(entries []entry.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetEntries); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetSummary, SheetPayments} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeEntries(f, entries, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, entries, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePayments(f, entries, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteWorkbook streams the workbook as xlsx.
func WriteWorkbook(w io.Writer, entries []entry.Entry) error {
	f, err := Workbook(entries)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEntries(f *excelize.File, entries []entry.Entry, bold int) error {
	headers := entryHeaders()
	if err := f.SetSheetRow(SheetEntries, "A1", &headers); err != nil {
		return err
	}
	for i, e := range entries {
		cells := entryCells(e)
		if err := f.SetSheetRow(SheetEntries, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		totalsRow := len(entries) + 2
		cells := totalsCells(report.BuildDailyRange(entries, time.Time{}, time.Time{}).Totals)
		if err := f.SetSheetRow(SheetEntries, fmt.Sprintf("A%d", totalsRow), &cells); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetEntries, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("%s%d", lastCol, totalsRow), bold); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetEntries, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetEntries, "A", "A", 14); err != nil {
		return err
	}
	return f.SetColWidth(SheetEntries, "B", lastCol, 18)
}

func writeSummary(f *excelize.File, entries []entry.Entry, bold int) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Entries", len(entries)},
		{"Total Milk Loaded (L)", entry.Round2(aggregate.SumField(entries, aggregate.TotalMilk))},
		{"Total Milk Distributed (L)", entry.Round2(aggregate.SumField(entries, aggregate.Distributed))},
		{"Total Leftover (L)", entry.Round2(aggregate.SumField(entries, aggregate.Leftover))},
		{"Total Revenue (₹)", entry.Round2(aggregate.SumField(entries, aggregate.TotalAmount))},
		{"Average Leftover per Entry (L)", entry.Round2(aggregate.AveragePerEntry(entries, aggregate.Leftover))},
	}
	for i := range rows {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 32)
}

func writePayments(f *excelize.File, entries []entry.Entry, bold int) error {
	totals := aggregate.TotalsByMethod(entries)
	header := []any{"Payment Method", "Liters (L)", "Total (₹)", "Share (%)"}
	if err := f.SetSheetRow(SheetPayments, "A1", &header); err != nil {
		return err
	}
	for i, mt := range totals.Methods {
		row := []any{mt.Label, mt.Liters, mt.Amount, mt.Percentage}
		if err := f.SetSheetRow(SheetPayments, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetPayments, "A1", "D1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetPayments, "A", "A", 20)
}

// FileName returns "<prefix>-YYYY-MM-DD.<ext>".
func FileName(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format(entry.DateLayout), ext)
}
