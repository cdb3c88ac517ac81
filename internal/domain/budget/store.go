package budget

import (
	"context"

	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/period"
)

// CensusReading is an optional census figure: Found is false when the
// location has no census row for the month.
type CensusReading struct {
	Amount types.Money
	Found  bool
}

// CategoryRate is a category assigned to a location with its per-diem rate.
type CategoryRate struct {
	CategoryID id.ID       `db:"category_id"`
	Name       string      `db:"name"`
	PPDRate    types.Money `db:"ppd_rate"`
	Active     bool        `db:"is_active"`
}

// Allocation is a static budget amount for a category at a location.
type Allocation struct {
	CategoryID      id.ID       `db:"category_id"`
	Name            string      `db:"name"`
	AllocatedAmount types.Money `db:"allocated_amount"`
	Active          bool        `db:"is_active"`
}

// Store reads budget and census configuration.
type Store interface {
	Census(ctx context.Context, locationID id.ID, p period.Period) (CensusReading, error)
	CategoryRates(ctx context.Context, locationID id.ID) ([]CategoryRate, error)
	Allocations(ctx context.Context, locationID id.ID) ([]Allocation, error)
}
