package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/category"
	"supplyspend/internal/domain/ledger"
)

// Reconciliation is the budget-scoped view of the netted aggregates.
type Reconciliation struct {
	// Categories has exactly one element per budget entry, sorted by name.
	Categories []ReconciledCategory

	// Unbudgeted lists canonical categories with orders but no budget; they are not reported.
	Unbudgeted []string
}

// Reconcile merges aggregates (keyed by raw category label) with the budget
// map. Budgets define the reporting universe: every budgeted category is
// emitted, zero-filled when it has no orders, and aggregates outside the
// budget map are dropped.
func Reconcile(aggregates map[string]ledger.CategoryAggregate, budgets *category.Index[budget.Entry]) Reconciliation {
	raw := make([]string, 0, len(aggregates))
	for k := range aggregates {
		raw = append(raw, k)
	}
	sort.Strings(raw)

	canonical := category.NewIndex[ledger.CategoryAggregate]()
	for _, k := range raw {
		agg := aggregates[k]
		canonical.Upsert(k, func(existing ledger.CategoryAggregate, found bool) ledger.CategoryAggregate {
			if !found {
				agg.Category = category.Key(k)
				return agg
			}
			return existing.Merge(agg)
		})
	}

	if budgets == nil {
		budgets = category.NewIndex[budget.Entry]()
	}
	out := Reconciliation{Categories: make([]ReconciledCategory, 0, budgets.Len())}

	budgets.Each(func(key string, entry budget.Entry) {
		rc := ReconciledCategory{
			Category:      key,
			HasBudget:     true,
			Budget:        entry.Amount,
			BudgetSource:  entry.Source,
			GrossValue:    decimal.Zero,
			RefundedValue: decimal.Zero,
			NetValue:      decimal.Zero,
			AveragePrice:  decimal.Zero,
			RefundRate:    decimal.Zero,
			Products:      []ledger.ProductRollup{},
		}
		if agg, ok := canonical.Get(key); ok {
			rc.GrossQuantity = agg.GrossQuantity
			rc.RefundedQuantity = agg.RefundedQuantity
			rc.NetQuantity = agg.NetQuantity
			rc.GrossValue = agg.GrossValue
			rc.RefundedValue = agg.RefundedValue
			rc.NetValue = agg.NetValue
			rc.AveragePrice = agg.AveragePrice
			rc.OrderCount = agg.OrderCount
			rc.RefundedOrderCount = agg.RefundedOrderCount
			rc.RefundRate = refundRate(agg.RefundedOrderCount, agg.OrderCount)
			rc.Products = agg.Products
		}
		rc.RemainingBudget = rc.Budget.Sub(rc.NetValue)
		rc.BudgetUtilization = types.Percent(rc.NetValue, rc.Budget)
		out.Categories = append(out.Categories, rc)
	})

	for _, key := range canonical.Keys() {
		if !budgets.Has(key) {
			out.Unbudgeted = append(out.Unbudgeted, key)
		}
	}

	return out
}

// refundRate is refunded/total × 100, zero when there is nothing to divide by.
func refundRate(refunded, total int) types.Money {
	return types.Percent(decimal.NewFromInt(int64(refunded)), decimal.NewFromInt(int64(total)))
}
