// Package reports produces the budget-aware category spend report.
package reports

import (
	"time"

	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/domain/quality"
)

// --- Category Budget Report ---

// CategoryReportRequest selects the orders and the period of a report.
type CategoryReportRequest struct {
	// Filters (at least one required)
	CustomerID        *id.ID
	LocationID        *id.ID
	CompanyLocationID *id.ID

	// Period
	Month int
	Year  int

	// BudgetMonth (MM-YYYY) switches budgets to the census formula and wins over Month/Year.
	BudgetMonth string
}

// ReconciledCategory is one budgeted category with its netted order figures.
// Categories without orders carry zeroed order fields.
type ReconciledCategory struct {
	Category     string
	HasBudget    bool
	Budget       types.Money
	BudgetSource budget.Source

	GrossQuantity    int64
	RefundedQuantity int64
	NetQuantity      int64

	GrossValue    types.Money
	RefundedValue types.Money
	NetValue      types.Money

	AveragePrice       types.Money
	OrderCount         int
	RefundedOrderCount int
	RefundRate         types.Money

	// RemainingBudget is budget − net value; negative when over budget.
	RemainingBudget   types.Money
	BudgetUtilization types.Money

	Products []ledger.ProductRollup
}

// Summary holds order-level totals over every selected order.
type Summary struct {
	TotalOrders       int
	OrdersWithRefunds int
	GrossValue        types.Money
	RefundedValue     types.Money
	NetValue          types.Money
	RefundRate        types.Money

	TotalBudget          types.Money
	BudgetedNetValue     types.Money
	BudgetSource         budget.Source
	CategoryCount        int
	UnbudgetedCategories int
}

// CategoryReport is the assembled response.
type CategoryReport struct {
	Period         period.Period
	ExplicitPeriod bool
	LocationID     *id.ID
	Categories     []ReconciledCategory
	Summary        Summary
	Warnings       []quality.Warning
	GeneratedAt    time.Time
}
