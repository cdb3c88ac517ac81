package reports

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/category"
	"supplyspend/internal/domain/ledger"
)

func budgetsOf(amounts map[string]string) *category.Index[budget.Entry] {
	ix := category.NewIndex[budget.Entry]()
	for name, amount := range amounts {
		ix.Put(name, budget.Entry{Category: category.Key(name), Amount: types.MustMoney(amount), Source: budget.SourceCensus})
	}
	return ix
}

func orderLine(category string, qty int64, price string) ledger.OrderLine {
	return ledger.OrderLine{
		OrderID:     uuid.New(),
		LineID:      uuid.New(),
		ProductID:   uuid.New(),
		ProductName: category + " item",
		CategoryKey: category,
		Quantity:    qty,
		UnitPrice:   types.MustMoney(price),
	}
}

func TestReconcile_BudgetsDefineUniverse(t *testing.T) {
	netting := ledger.Net([]ledger.OrderLine{
		orderLine("Incontinence", 10, "3"),
		orderLine("Linens", 50, "10"),
	}, nil)
	budgets := budgetsOf(map[string]string{"Wound Care": "300", "Incontinence": "100"})

	rec := Reconcile(netting.Categories, budgets)

	require.Len(t, rec.Categories, 2)
	assert.Equal(t, []string{"Linens"}, rec.Unbudgeted)

	inc := rec.Categories[0]
	assert.Equal(t, "Incontinence", inc.Category)
	assert.True(t, inc.HasBudget)
	assert.Equal(t, int64(10), inc.NetQuantity)
	assert.Equal(t, "30.00", inc.NetValue.StringFixed(2))
	assert.Equal(t, "70.00", inc.RemainingBudget.StringFixed(2))
	assert.Equal(t, "30.00", inc.BudgetUtilization.StringFixed(2))

	wc := rec.Categories[1]
	assert.Equal(t, "Wound Care", wc.Category)
	assert.True(t, wc.HasBudget)
	assert.Zero(t, wc.GrossQuantity)
	assert.Zero(t, wc.NetQuantity)
	assert.True(t, wc.NetValue.IsZero())
	assert.True(t, wc.GrossValue.IsZero())
	assert.Zero(t, wc.OrderCount)
	assert.True(t, wc.RefundRate.IsZero())
	assert.Equal(t, "300.00", wc.RemainingBudget.StringFixed(2))
	assert.Empty(t, wc.Products)
}

func TestReconcile_DecodesAggregateKeysOnce(t *testing.T) {
	netting := ledger.Net([]ledger.OrderLine{
		orderLine("Bath &amp; Body", 1, "5"),
		orderLine("Bath & Body", 2, "5"),
		orderLine(`Bath \u0026 Body`, 3, "5"),
	}, nil)
	budgets := budgetsOf(map[string]string{"Bath &amp;amp; Body": "40"})

	rec := Reconcile(netting.Categories, budgets)

	require.Len(t, rec.Categories, 1)
	c := rec.Categories[0]
	assert.Equal(t, "Bath & Body", c.Category)
	assert.Equal(t, int64(6), c.NetQuantity)
	assert.Equal(t, 3, c.OrderCount)
	assert.Len(t, c.Products, 3)
	assert.Equal(t, "10.00", c.RemainingBudget.StringFixed(2))
	assert.Equal(t, "75.00", c.BudgetUtilization.StringFixed(2))
	assert.Empty(t, rec.Unbudgeted)
}

func TestReconcile_CountEqualsBudgetKeys(t *testing.T) {
	lines := []ledger.OrderLine{
		orderLine("A", 1, "1"), orderLine("B", 1, "1"), orderLine("C", 1, "1"),
	}
	cases := []map[string]string{
		{},
		{"A": "1"},
		{"A": "1", "Z": "2"},
		{"X": "1", "Y": "1", "Z": "1", "A": "1", "B": "1"},
	}

	for _, amounts := range cases {
		budgets := budgetsOf(amounts)
		for _, subset := range [][]ledger.OrderLine{nil, lines[:1], lines} {
			rec := Reconcile(ledger.Net(subset, nil).Categories, budgets)
			assert.Len(t, rec.Categories, budgets.Len())
		}
	}
}

func TestReconcile_NilBudgets(t *testing.T) {
	rec := Reconcile(ledger.Net([]ledger.OrderLine{orderLine("A", 1, "1")}, nil).Categories, nil)
	assert.NotNil(t, rec.Categories)
	assert.Empty(t, rec.Categories)
	assert.Equal(t, []string{"A"}, rec.Unbudgeted)
}
