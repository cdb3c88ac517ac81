package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/quality"
)

// ProductKey groups order lines for netting.
type ProductKey struct {
	ProductID id.ID
	VariantID id.ID
	Category  string
}

// ProductRollup is gross/refunded/net for one product variant in a category.
type ProductRollup struct {
	ProductID   id.ID
	VariantID   id.ID
	ProductName string
	SKU         string
	Vendor      string
	Category    string

	GrossQuantity    int64
	RefundedQuantity int64
	NetQuantity      int64

	GrossValue    types.Money
	RefundedValue types.Money
	NetValue      types.Money

	// AveragePrice is gross value / gross quantity; refunds do not move it.
	AveragePrice types.Money
	OrderCount   int
}

// CategoryAggregate sums the product rollups of one category.
type CategoryAggregate struct {
	Category string

	GrossQuantity    int64
	RefundedQuantity int64
	NetQuantity      int64

	GrossValue    types.Money
	RefundedValue types.Money
	NetValue      types.Money

	AveragePrice       types.Money
	OrderCount         int
	RefundedOrderCount int
	Products           []ProductRollup

	orders         map[id.ID]struct{}
	refundedOrders map[id.ID]struct{}
}

// Merge combines two aggregates, keeping order counts distinct.
func (a CategoryAggregate) Merge(b CategoryAggregate) CategoryAggregate {
	out := CategoryAggregate{
		Category:         a.Category,
		GrossQuantity:    a.GrossQuantity + b.GrossQuantity,
		RefundedQuantity: a.RefundedQuantity + b.RefundedQuantity,
		NetQuantity:      a.NetQuantity + b.NetQuantity,
		GrossValue:       a.GrossValue.Add(b.GrossValue),
		RefundedValue:    a.RefundedValue.Add(b.RefundedValue),
		NetValue:         a.NetValue.Add(b.NetValue),
		Products:         append(append([]ProductRollup{}, a.Products...), b.Products...),
		orders:           union(a.orders, b.orders),
		refundedOrders:   union(a.refundedOrders, b.refundedOrders),
	}
	if out.Category == "" {
		out.Category = b.Category
	}
	out.finalize()
	return out
}

func (a *CategoryAggregate) finalize() {
	a.OrderCount = len(a.orders)
	a.RefundedOrderCount = len(a.refundedOrders)
	a.AveragePrice = averagePrice(a.GrossValue, a.GrossQuantity)
	sortProducts(a.Products)
}

// Totals are ledger-level figures over every selected order.
type Totals struct {
	TotalOrders       int
	OrdersWithRefunds int
	GrossValue        types.Money
	RefundedValue     types.Money
	NetValue          types.Money
}

// Netting is the result of Net.
type Netting struct {
	// Categories is keyed by the category key carried on the order lines.
	Categories map[string]CategoryAggregate
	Totals     Totals
	Warnings   []quality.Warning
}

type productGroup struct {
	ProductRollup
	orders         map[id.ID]struct{}
	refundedOrders map[id.ID]struct{}
}

type lineRef struct {
	key     ProductKey
	orderID id.ID
}

// Net groups order lines by product, variant and category, subtracts matching
// refund lines and rolls the result up per category. Net figures are
// gross − refunded even when that is negative; each negative net is reported
// as a warning.
func Net(lines []OrderLine, refunds []RefundLine) Netting {
	groups := make(map[ProductKey]*productGroup)
	keys := make([]ProductKey, 0)
	byLine := make(map[id.ID]lineRef, len(lines))
	byProduct := make(map[[2]id.ID]ProductKey)
	orders := make(map[id.ID]struct{})

	for _, l := range lines {
		key := ProductKey{ProductID: l.ProductID, VariantID: l.VariantID, Category: l.CategoryKey}
		g, ok := groups[key]
		if !ok {
			g = &productGroup{
				ProductRollup: ProductRollup{
					ProductID:     l.ProductID,
					VariantID:     l.VariantID,
					ProductName:   l.ProductName,
					SKU:           l.SKU,
					Vendor:        l.Vendor,
					Category:      l.CategoryKey,
					GrossValue:    decimal.Zero,
					RefundedValue: decimal.Zero,
				},
				orders:         make(map[id.ID]struct{}),
				refundedOrders: make(map[id.ID]struct{}),
			}
			groups[key] = g
			keys = append(keys, key)
		}
		g.GrossQuantity += l.Quantity
		g.GrossValue = g.GrossValue.Add(l.LineValue())
		g.orders[l.OrderID] = struct{}{}
		orders[l.OrderID] = struct{}{}

		byLine[l.LineID] = lineRef{key: key, orderID: l.OrderID}
		pv := [2]id.ID{l.ProductID, l.VariantID}
		if _, seen := byProduct[pv]; !seen {
			byProduct[pv] = key
		}
	}

	var warnings []quality.Warning
	refundedOrders := make(map[id.ID]struct{})

	for _, r := range refunds {
		ref, ok := byLine[r.OrderLineID]
		if !ok {
			key, found := byProduct[[2]id.ID{r.ProductID, r.VariantID}]
			if !found {
				warnings = append(warnings, quality.UnmatchedRefund(r.RefundID.String(), r.OrderLineID.String()))
				continue
			}
			ref = lineRef{key: key, orderID: r.OrderID}
		}

		g := groups[ref.key]
		g.RefundedQuantity += r.Quantity
		g.RefundedValue = g.RefundedValue.Add(r.Subtotal)
		if _, selected := orders[ref.orderID]; selected {
			g.refundedOrders[ref.orderID] = struct{}{}
			refundedOrders[ref.orderID] = struct{}{}
		}
	}

	result := Netting{
		Categories: make(map[string]CategoryAggregate),
		Totals: Totals{
			TotalOrders:       len(orders),
			OrdersWithRefunds: len(refundedOrders),
			GrossValue:        decimal.Zero,
			RefundedValue:     decimal.Zero,
			NetValue:          decimal.Zero,
		},
	}

	for _, key := range keys {
		g := groups[key]
		g.NetQuantity = g.GrossQuantity - g.RefundedQuantity
		g.NetValue = g.GrossValue.Sub(g.RefundedValue)
		g.AveragePrice = averagePrice(g.GrossValue, g.GrossQuantity)
		g.OrderCount = len(g.orders)

		if g.NetQuantity < 0 {
			warnings = append(warnings, quality.NegativeNet(g.Category, g.ProductID.String(), "quantity", decimal.NewFromInt(g.NetQuantity)))
		}
		if g.NetValue.IsNegative() {
			warnings = append(warnings, quality.NegativeNet(g.Category, g.ProductID.String(), "value", g.NetValue))
		}

		agg, ok := result.Categories[key.Category]
		if !ok {
			agg = CategoryAggregate{
				Category:       key.Category,
				GrossValue:     decimal.Zero,
				RefundedValue:  decimal.Zero,
				NetValue:       decimal.Zero,
				orders:         make(map[id.ID]struct{}),
				refundedOrders: make(map[id.ID]struct{}),
			}
		}
		agg.GrossQuantity += g.GrossQuantity
		agg.RefundedQuantity += g.RefundedQuantity
		agg.NetQuantity += g.NetQuantity
		agg.GrossValue = agg.GrossValue.Add(g.GrossValue)
		agg.RefundedValue = agg.RefundedValue.Add(g.RefundedValue)
		agg.NetValue = agg.NetValue.Add(g.NetValue)
		agg.Products = append(agg.Products, g.ProductRollup)
		for o := range g.orders {
			agg.orders[o] = struct{}{}
		}
		for o := range g.refundedOrders {
			agg.refundedOrders[o] = struct{}{}
		}
		result.Categories[key.Category] = agg

		result.Totals.GrossValue = result.Totals.GrossValue.Add(g.GrossValue)
		result.Totals.RefundedValue = result.Totals.RefundedValue.Add(g.RefundedValue)
	}

	for k, agg := range result.Categories {
		agg.finalize()
		result.Categories[k] = agg
	}
	result.Totals.NetValue = result.Totals.GrossValue.Sub(result.Totals.RefundedValue)
	result.Warnings = warnings

	return result
}

func averagePrice(value types.Money, quantity int64) types.Money {
	return types.RoundMoney(types.Ratio(value, decimal.NewFromInt(quantity)))
}

func sortProducts(products []ProductRollup) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].ProductName != products[j].ProductName {
			return products[i].ProductName < products[j].ProductName
		}
		return products[i].SKU < products[j].SKU
	})
}

func union(a, b map[id.ID]struct{}) map[id.ID]struct{} {
	out := make(map[id.ID]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
