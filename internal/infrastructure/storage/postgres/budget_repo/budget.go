// Package budget_repo reads per-location budget and census configuration.
package budget_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/budget"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/infrastructure/storage/postgres"
)

var (
	rateColumns = postgres.SelectList[budget.CategoryRate](map[string]string{
		"category_id": "pc.id",
		"name":        "pc.name",
		"ppd_rate":    "pc.ppd_rate",
		"is_active":   "pc.is_active",
	})

	allocationColumns = postgres.SelectList[budget.Allocation](map[string]string{
		"category_id":      "pc.id",
		"name":             "pc.name",
		"allocated_amount": "lc.allocated_amount",
		"is_active":        "pc.is_active",
	})
)

// BudgetRepo implements budget.Store.
type BudgetRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ budget.Store = (*BudgetRepo)(nil)

// NewBudgetRepo creates a new budget repository.
func NewBudgetRepo(txm *postgres.TxManager) *BudgetRepo {
	return &BudgetRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Census returns the census of a location for a budget month.
// A missing row is reported through CensusReading.Found, not as an error.
func (r *BudgetRepo) Census(ctx context.Context, locationID id.ID, p period.Period) (budget.CensusReading, error) {
	sql, args, err := r.censusQuery(locationID, p).ToSql()
	if err != nil {
		return budget.CensusReading{}, fmt.Errorf("build census query: %w", err)
	}

	var row struct {
		Amount types.Money `db:"census_amount"`
	}
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...)
	})
	if pgxscan.NotFound(err) {
		return budget.CensusReading{}, nil
	}
	if err != nil {
		return budget.CensusReading{}, fmt.Errorf("select census: %w", err)
	}
	return budget.CensusReading{Amount: row.Amount, Found: true}, nil
}

// CategoryRates returns the categories assigned to a location with their per-diem rates.
func (r *BudgetRepo) CategoryRates(ctx context.Context, locationID id.ID) ([]budget.CategoryRate, error) {
	sql, args, err := r.assignedQuery(rateColumns, locationID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category rates query: %w", err)
	}

	var rates []budget.CategoryRate
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rates, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select category rates: %w", err)
	}
	return rates, nil
}

// Allocations returns the static budget allocations of a location.
func (r *BudgetRepo) Allocations(ctx context.Context, locationID id.ID) ([]budget.Allocation, error) {
	sql, args, err := r.assignedQuery(allocationColumns, locationID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build allocations query: %w", err)
	}

	var allocations []budget.Allocation
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &allocations, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select allocations: %w", err)
	}
	return allocations, nil
}

func (r *BudgetRepo) censusQuery(locationID id.ID, p period.Period) squirrel.SelectBuilder {
	return r.builder.
		Select("census_amount").
		From("location_census").
		Where(squirrel.Eq{"location_id": locationID, "budget_month": p.String()}).
		Limit(1)
}

func (r *BudgetRepo) assignedQuery(columns []string, locationID id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(columns...).
		From("location_categories lc").
		Join("product_categories pc ON pc.id = lc.category_id").
		Where(squirrel.Eq{"lc.location_id": locationID}).
		OrderBy("pc.name", "pc.id")
}
