package reports

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyspend/internal/core/apperror"
	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/domain/quality"
)

// --- fakes ---

type fakeOrder struct {
	locationID  id.ID
	budgetMonth *string
	createdAt   time.Time
	lines       []ledger.OrderLine
	refunds     []ledger.RefundLine
}

type fakeLedger struct {
	orders     []fakeOrder
	linesErr   error
	refundsErr error
	calls      atomic.Int32
}

func (f *fakeLedger) selected(filter ledger.Filter) []fakeOrder {
	pred := period.PredicateFor(filter.Period)
	var out []fakeOrder
	for _, o := range f.orders {
		if filter.LocationID != nil && *filter.LocationID != o.locationID {
			continue
		}
		if pred.Matches(o.budgetMonth, o.createdAt) {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeLedger) OrderLines(_ context.Context, filter ledger.Filter) ([]ledger.OrderLine, error) {
	f.calls.Add(1)
	if f.linesErr != nil {
		return nil, f.linesErr
	}
	var lines []ledger.OrderLine
	for _, o := range f.selected(filter) {
		lines = append(lines, o.lines...)
	}
	return lines, nil
}

func (f *fakeLedger) RefundLines(_ context.Context, filter ledger.Filter) ([]ledger.RefundLine, error) {
	f.calls.Add(1)
	if f.refundsErr != nil {
		return nil, f.refundsErr
	}
	var refunds []ledger.RefundLine
	for _, o := range f.selected(filter) {
		refunds = append(refunds, o.refunds...)
	}
	return refunds, nil
}

type fakeDirectory struct {
	labels map[id.ID]string
	err    error
}

func (f *fakeDirectory) Labels(_ context.Context, productIDs []id.ID) (map[id.ID]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[id.ID]string, len(productIDs))
	for _, p := range productIDs {
		if l, ok := f.labels[p]; ok {
			out[p] = l
		}
	}
	return out, nil
}

type fakeBudgetStore struct {
	census map[string]types.Money
	rates  []budget.CategoryRate
	allocs []budget.Allocation
	err    error
	calls  int
}

func (f *fakeBudgetStore) Census(_ context.Context, _ id.ID, p period.Period) (budget.CensusReading, error) {
	f.calls++
	if f.err != nil {
		return budget.CensusReading{}, f.err
	}
	v, ok := f.census[p.String()]
	return budget.CensusReading{Amount: v, Found: ok}, nil
}

func (f *fakeBudgetStore) CategoryRates(context.Context, id.ID) ([]budget.CategoryRate, error) {
	return f.rates, f.err
}

func (f *fakeBudgetStore) Allocations(context.Context, id.ID) ([]budget.Allocation, error) {
	f.calls++
	return f.allocs, f.err
}

// --- fixtures ---

var fixedNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

type fixture struct {
	location id.ID
	woundID  id.ID
	linenID  id.ID
	ledger   *fakeLedger
	dir      *fakeDirectory
	store    *fakeBudgetStore
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		location: uuid.New(),
		woundID:  uuid.New(),
		linenID:  uuid.New(),
	}
	f.ledger = &fakeLedger{}
	f.dir = &fakeDirectory{labels: map[id.ID]string{
		f.woundID: "Wound Care",
		f.linenID: "Linens",
	}}
	f.store = &fakeBudgetStore{
		census: map[string]types.Money{"04-2025": decimal.NewFromInt(5)},
		rates:  []budget.CategoryRate{{Name: "Wound Care", PPDRate: types.MustMoney("2.0"), Active: true}},
		allocs: []budget.Allocation{{Name: "Wound Care", AllocatedAmount: types.MustMoney("250"), Active: true}},
	}
	f.svc = NewService(f.ledger, f.dir, budget.NewCalculator(f.store, budget.PolicySentinel),
		WithClock(func() time.Time { return fixedNow }),
		WithLookupTimeout(5*time.Second),
	)
	return f
}

func (f *fixture) order(product id.ID, tag *string, created time.Time, qty int64, price string) fakeOrder {
	orderID := uuid.New()
	return fakeOrder{
		locationID:  f.location,
		budgetMonth: tag,
		createdAt:   created,
		lines: []ledger.OrderLine{{
			OrderID:   orderID,
			LineID:    uuid.New(),
			ProductID: product,
			Quantity:  qty,
			UnitPrice: types.MustMoney(price),
		}},
	}
}

func tag(s string) *string { return &s }

// --- tests ---

func TestComputeCategoryReport_ZeroActivityBudgetAndOrphanCategory(t *testing.T) {
	f := newFixture()
	f.ledger.orders = []fakeOrder{
		f.order(f.linenID, tag("04-2025"), time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), 50, "10"),
	}

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID:  &f.location,
		BudgetMonth: "04-2025",
	})
	require.NoError(t, err)

	require.Len(t, report.Categories, 1)
	wc := report.Categories[0]
	assert.Equal(t, "Wound Care", wc.Category)
	assert.True(t, wc.HasBudget)
	assert.Equal(t, "300.00", wc.Budget.StringFixed(2))
	assert.Equal(t, budget.SourceCensus, wc.BudgetSource)
	assert.Zero(t, wc.GrossQuantity)
	assert.Zero(t, wc.NetQuantity)
	assert.True(t, wc.GrossValue.IsZero())
	assert.True(t, wc.NetValue.IsZero())

	assert.Equal(t, 1, report.Summary.TotalOrders)
	assert.Equal(t, "500.00", report.Summary.NetValue.StringFixed(2))
	assert.Equal(t, 1, report.Summary.UnbudgetedCategories)
	assert.Equal(t, "300.00", report.Summary.TotalBudget.StringFixed(2))
	assert.True(t, report.Summary.BudgetedNetValue.IsZero())
	assert.True(t, report.ExplicitPeriod)
	assert.Equal(t, f.location, *report.LocationID)
	assert.Equal(t, fixedNow, report.GeneratedAt)
}

func TestComputeCategoryReport_PeriodSelection(t *testing.T) {
	f := newFixture()
	f.ledger.orders = []fakeOrder{
		f.order(f.woundID, tag("03-2025"), time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), 1, "1"),
		f.order(f.woundID, nil, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 2, "1"),
		f.order(f.woundID, nil, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 4, "1"),
	}

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location,
		Month:      3,
		Year:       2025,
	})
	require.NoError(t, err)

	require.Len(t, report.Categories, 1)
	wc := report.Categories[0]
	assert.Equal(t, int64(3), wc.NetQuantity)
	assert.Equal(t, 2, wc.OrderCount)
	assert.Equal(t, budget.SourceStatic, wc.BudgetSource)
	assert.Equal(t, "250.00", wc.Budget.StringFixed(2))
	assert.False(t, report.ExplicitPeriod)
}

func TestComputeCategoryReport_RefundsNetAgainstOriginalPeriod(t *testing.T) {
	f := newFixture()
	o := f.order(f.woundID, tag("04-2025"), time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 10, "3")
	o.refunds = []ledger.RefundLine{{
		RefundID:    uuid.New(),
		OrderLineID: o.lines[0].LineID,
		OrderID:     o.lines[0].OrderID,
		ProductID:   f.woundID,
		Quantity:    4,
		Subtotal:    types.MustMoney("12"),
	}}
	quiet := f.order(f.woundID, tag("04-2025"), time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), 1, "3")
	f.ledger.orders = []fakeOrder{o, quiet}

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID:  &f.location,
		BudgetMonth: "04-2025",
	})
	require.NoError(t, err)

	wc := report.Categories[0]
	assert.Equal(t, int64(7), wc.NetQuantity)
	assert.Equal(t, "21.00", wc.NetValue.StringFixed(2))
	assert.Equal(t, "279.00", wc.RemainingBudget.StringFixed(2))
	assert.Equal(t, "50.00", wc.RefundRate.StringFixed(2))
	assert.Equal(t, 2, report.Summary.TotalOrders)
	assert.Equal(t, 1, report.Summary.OrdersWithRefunds)
	assert.Equal(t, "50.00", report.Summary.RefundRate.StringFixed(2))
}

func TestComputeCategoryReport_NoRefundsZeroRate(t *testing.T) {
	f := newFixture()
	for i := 0; i < 10; i++ {
		f.ledger.orders = append(f.ledger.orders,
			f.order(f.woundID, tag("04-2025"), time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 1, "1"))
	}

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID:  &f.location,
		BudgetMonth: "04-2025",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, report.Summary.TotalOrders)
	assert.True(t, report.Summary.RefundRate.IsZero())
}

func TestComputeCategoryReport_FailFastValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{Month: 4, Year: 2025})
	assert.True(t, apperror.HasCode(err, apperror.CodeMissingFilter))

	_, err = f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, Month: 13, Year: 2025,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPeriod))

	_, err = f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, Month: 1, Year: 2019,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPeriod))

	assert.Zero(t, f.ledger.calls.Load())
	assert.Zero(t, f.store.calls)
}

func TestComputeCategoryReport_LedgerFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.ledger.refundsErr = errors.New("connection refused")

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, Month: 4, Year: 2025,
	})
	assert.Nil(t, report)
	assert.True(t, apperror.HasCode(err, apperror.CodeUpstreamLookup))

	f.ledger.refundsErr = nil
	f.dir.err = errors.New("catalog unavailable")
	f.ledger.orders = []fakeOrder{f.order(f.woundID, nil, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 1, "1")}

	_, err = f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, Month: 4, Year: 2025,
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "category_directory", appErr.Details["lookup"])
}

func TestComputeCategoryReport_LedgerTimeout(t *testing.T) {
	f := newFixture()
	f.ledger.linesErr = context.DeadlineExceeded

	_, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, Month: 4, Year: 2025,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeTimeout))
}

func TestComputeCategoryReport_BudgetFailureDegrades(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("config store down")
	f.ledger.orders = []fakeOrder{f.order(f.woundID, nil, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 1, "1")}

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, BudgetMonth: "04-2025",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Categories)
	assert.Equal(t, 1, report.Summary.TotalOrders)
	assert.Equal(t, 1, report.Summary.UnbudgetedCategories)
}

func TestComputeCategoryReport_MissingCensusWarns(t *testing.T) {
	f := newFixture()
	f.store.census = nil

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		LocationID: &f.location, BudgetMonth: "04-2025",
	})
	require.NoError(t, err)

	require.Len(t, report.Categories, 1)
	assert.Equal(t, "60.00", report.Categories[0].Budget.StringFixed(2))
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, quality.CodeCensusDefaulted, report.Warnings[0].Code)
}

func TestComputeCategoryReport_CustomerOnlyHasNoBudget(t *testing.T) {
	f := newFixture()
	customer := uuid.New()

	report, err := f.svc.ComputeCategoryReport(context.Background(), CategoryReportRequest{
		CustomerID: &customer, Month: 4, Year: 2025,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Categories)
	assert.Nil(t, report.LocationID)
	assert.Zero(t, f.store.calls)
}
