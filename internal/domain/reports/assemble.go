package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"supplyspend/internal/core/id"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/domain/quality"
)

// Assemble composes the final report from the reconciled categories and the
// ledger-level totals.
func Assemble(
	resolved period.Resolved,
	locationID *id.ID,
	netting ledger.Netting,
	budgets budget.Result,
	rec Reconciliation,
	now time.Time,
) *CategoryReport {
	summary := Summary{
		TotalOrders:          netting.Totals.TotalOrders,
		OrdersWithRefunds:    netting.Totals.OrdersWithRefunds,
		GrossValue:           netting.Totals.GrossValue,
		RefundedValue:        netting.Totals.RefundedValue,
		NetValue:             netting.Totals.NetValue,
		RefundRate:           refundRate(netting.Totals.OrdersWithRefunds, netting.Totals.TotalOrders),
		TotalBudget:          decimal.Zero,
		BudgetedNetValue:     decimal.Zero,
		BudgetSource:         budgets.Source,
		CategoryCount:        len(rec.Categories),
		UnbudgetedCategories: len(rec.Unbudgeted),
	}
	for _, c := range rec.Categories {
		summary.TotalBudget = summary.TotalBudget.Add(c.Budget)
		summary.BudgetedNetValue = summary.BudgetedNetValue.Add(c.NetValue)
	}

	warnings := make([]quality.Warning, 0, len(budgets.Warnings)+len(netting.Warnings))
	warnings = append(warnings, budgets.Warnings...)
	warnings = append(warnings, netting.Warnings...)

	return &CategoryReport{
		Period:         resolved.Period,
		ExplicitPeriod: resolved.Explicit,
		LocationID:     locationID,
		Categories:     rec.Categories,
		Summary:        summary,
		Warnings:       warnings,
		GeneratedAt:    now,
	}
}
