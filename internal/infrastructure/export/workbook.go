// Package export renders category budget reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/reports"
)

const (
	SheetCategories = "Categories"
	SheetSummary    = "Summary"
	SheetWarnings   = "Warnings"
)

var categoryHeader = []any{
	"Category", "Budget Source", "Budget",
	"Gross Qty", "Refunded Qty", "Net Qty",
	"Gross Value", "Refunded Value", "Net Value",
	"Average Price", "Orders", "Refunded Orders", "Refund Rate %",
	"Remaining Budget", "Utilization %",
}

// WriteCategoryReport writes report as a workbook with a Categories sheet,
// a Summary sheet and, when present, a Warnings sheet.
func WriteCategoryReport(w io.Writer, report *reports.CategoryReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetCategories); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeCategories(f, report); err != nil {
		return err
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}
	if len(report.Warnings) > 0 {
		if err := writeWarnings(f, report); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCategories(f *excelize.File, report *reports.CategoryReport) error {
	if err := setRow(f, SheetCategories, 1, categoryHeader); err != nil {
		return err
	}
	for i, c := range report.Categories {
		row := []any{
			c.Category, string(c.BudgetSource), money(c.Budget),
			c.GrossQuantity, c.RefundedQuantity, c.NetQuantity,
			money(c.GrossValue), money(c.RefundedValue), money(c.NetValue),
			money(c.AveragePrice), c.OrderCount, c.RefundedOrderCount, money(c.RefundRate),
			money(c.RemainingBudget), money(c.BudgetUtilization),
		}
		if err := setRow(f, SheetCategories, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(SheetCategories, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *reports.CategoryReport) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetSummary, err)
	}

	s := report.Summary
	location := ""
	if report.LocationID != nil {
		location = report.LocationID.String()
	}
	rows := [][]any{
		{"Period", report.Period.String()},
		{"Location", location},
		{"Budget Source", string(s.BudgetSource)},
		{"Total Orders", s.TotalOrders},
		{"Orders With Refunds", s.OrdersWithRefunds},
		{"Refund Rate %", money(s.RefundRate)},
		{"Gross Value", money(s.GrossValue)},
		{"Refunded Value", money(s.RefundedValue)},
		{"Net Value", money(s.NetValue)},
		{"Total Budget", money(s.TotalBudget)},
		{"Budgeted Net Value", money(s.BudgetedNetValue)},
		{"Budgeted Categories", s.CategoryCount},
		{"Unbudgeted Categories", s.UnbudgetedCategories},
		{"Generated At", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeWarnings(f *excelize.File, report *reports.CategoryReport) error {
	if _, err := f.NewSheet(SheetWarnings); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetWarnings, err)
	}
	if err := setRow(f, SheetWarnings, 1, []any{"Code", "Category", "Product", "Message"}); err != nil {
		return err
	}
	for i, w := range report.Warnings {
		if err := setRow(f, SheetWarnings, i+2, []any{w.Code, w.Category, w.ProductID, w.Message}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// money converts an amount to a spreadsheet number rounded to cents.
func money(m types.Money) float64 {
	return types.RoundMoney(m).InexactFloat64()
}
