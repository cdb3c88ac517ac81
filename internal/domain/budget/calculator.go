// Package budget derives per-location category budgets, either from static
// allocations or from census × days in month × per-diem rate.
package budget

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/category"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/domain/quality"
	"supplyspend/pkg/logger"
)

// Source tells how a budget figure was derived.
type Source string

const (
	SourceStatic Source = "static"
	SourceCensus Source = "census_derived"
)

// MissingCensusPolicy decides what a census-derived budget uses when the
// location has no census row for the month.
type MissingCensusPolicy string

const (
	// PolicySentinel computes budgets with a census of 1 and flags it.
	PolicySentinel MissingCensusPolicy = "sentinel"
	// PolicyZero computes budgets with a census of 0 and flags it.
	PolicyZero MissingCensusPolicy = "zero"
	// PolicySkip produces no budget entries.
	PolicySkip MissingCensusPolicy = "skip"
)

// SentinelCensus is the census used under PolicySentinel.
var SentinelCensus = decimal.NewFromInt(1)

// ParsePolicy reads a policy name; empty means PolicySentinel.
func ParsePolicy(s string) (MissingCensusPolicy, error) {
	switch p := MissingCensusPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicySentinel, nil
	case PolicySentinel, PolicyZero, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing census policy %q", s)
	}
}

// Entry is the budget of one category at one location.
type Entry struct {
	Category   string
	LocationID id.ID
	Amount     types.Money
	Source     Source

	// Census inputs, zero for static entries.
	Census  types.Money
	Days    int
	PPDRate types.Money
}

// Result is the budget universe of a report: one entry per canonical category.
type Result struct {
	Entries  *category.Index[Entry]
	Source   Source
	Warnings []quality.Warning
}

func emptyResult(src Source) Result {
	return Result{Entries: category.NewIndex[Entry](), Source: src}
}

// add stores e under the canonical key of raw. Labels that decode to an
// existing key are summed into it.
func (r Result) add(ctx context.Context, raw string, e Entry) {
	r.Entries.Upsert(raw, func(existing Entry, found bool) Entry {
		if !found {
			return e
		}
		logger.Warn(ctx, "categories share a canonical name, budgets summed",
			"category", existing.Category,
			"label", raw,
			"location_id", e.LocationID,
		)
		existing.Amount = existing.Amount.Add(e.Amount)
		existing.PPDRate = existing.PPDRate.Add(e.PPDRate)
		return existing
	})
}

// Calculate returns census × days × ppd rounded to 2 decimal places.
func Calculate(census types.Money, days int, ppd types.Money) types.Money {
	return types.RoundMoney(census.Mul(decimal.NewFromInt(int64(days))).Mul(ppd))
}

// Calculator builds budget maps from the configuration store.
type Calculator struct {
	store  Store
	policy MissingCensusPolicy
}

// NewCalculator creates a calculator; an empty policy means PolicySentinel.
func NewCalculator(store Store, policy MissingCensusPolicy) *Calculator {
	if policy == "" {
		policy = PolicySentinel
	}
	return &Calculator{store: store, policy: policy}
}

// Policy returns the configured missing-census policy.
func (c *Calculator) Policy() MissingCensusPolicy {
	return c.policy
}

// Budgets returns the budget map for a location. With a budget month the
// figures are census-derived, otherwise static allocations are used.
// Lookup failures yield an empty map; they are logged, never returned.
func (c *Calculator) Budgets(ctx context.Context, locationID id.ID, budgetMonth *period.Period) Result {
	if budgetMonth == nil {
		return c.static(ctx, locationID)
	}
	return c.censusDerived(ctx, locationID, *budgetMonth)
}

func (c *Calculator) static(ctx context.Context, locationID id.ID) Result {
	res := emptyResult(SourceStatic)

	allocations, err := c.store.Allocations(ctx, locationID)
	if err != nil {
		logger.Error(ctx, "budget lookup failed",
			"lookup", "allocations",
			"location_id", locationID,
			"error", err,
		)
		return res
	}

	for _, a := range allocations {
		if !a.Active {
			continue
		}
		res.add(ctx, a.Name, Entry{
			Category:   category.Key(a.Name),
			LocationID: locationID,
			Amount:     types.RoundMoney(a.AllocatedAmount),
			Source:     SourceStatic,
		})
	}

	if res.Entries.Len() == 0 {
		logger.Info(ctx, "no budget configured", "location_id", locationID, "source", SourceStatic)
	}
	return res
}

func (c *Calculator) censusDerived(ctx context.Context, locationID id.ID, p period.Period) Result {
	res := emptyResult(SourceCensus)

	reading, err := c.store.Census(ctx, locationID, p)
	if err != nil {
		logger.Error(ctx, "budget lookup failed",
			"lookup", "census",
			"location_id", locationID,
			"budget_month", p.String(),
			"error", err,
		)
		return res
	}

	census := reading.Amount
	if !reading.Found {
		switch c.policy {
		case PolicySkip:
			logger.Warn(ctx, "census missing, no budgets derived",
				"location_id", locationID,
				"budget_month", p.String(),
				"policy", c.policy,
			)
			return res
		case PolicyZero:
			census = decimal.Zero
		default:
			census = SentinelCensus
		}
		logger.Warn(ctx, "census missing, using default",
			"location_id", locationID,
			"budget_month", p.String(),
			"policy", c.policy,
			"census", census.String(),
		)
		res.Warnings = append(res.Warnings, quality.CensusDefaulted(p.String(), census))
	}

	rates, err := c.store.CategoryRates(ctx, locationID)
	if err != nil {
		logger.Error(ctx, "budget lookup failed",
			"lookup", "category_rates",
			"location_id", locationID,
			"budget_month", p.String(),
			"error", err,
		)
		return emptyResult(SourceCensus)
	}

	days := p.Days()
	for _, r := range rates {
		if !r.Active {
			continue
		}
		res.add(ctx, r.Name, Entry{
			Category:   category.Key(r.Name),
			LocationID: locationID,
			Amount:     Calculate(census, days, r.PPDRate),
			Source:     SourceCensus,
			Census:     census,
			Days:       days,
			PPDRate:    r.PPDRate,
		})
	}

	if res.Entries.Len() == 0 {
		logger.Info(ctx, "no budget configured",
			"location_id", locationID,
			"budget_month", p.String(),
			"source", SourceCensus,
		)
	}
	return res
}
