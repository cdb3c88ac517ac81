// Package ledger holds the order/refund snapshot types read from the external
// ledger and nets gross order figures against refunds.
package ledger

import (
	"github.com/shopspring/decimal"

	"supplyspend/internal/core/apperror"
	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
	"supplyspend/internal/domain/period"
)

// OrderLine is one ordered product line.
type OrderLine struct {
	OrderID     id.ID       `db:"order_id"`
	LineID      id.ID       `db:"line_id"`
	ProductID   id.ID       `db:"product_id"`
	VariantID   id.ID       `db:"variant_id"`
	ProductName string      `db:"product_name"`
	SKU         string      `db:"sku"`
	Vendor      string      `db:"vendor"`
	Quantity    int64       `db:"quantity"`
	UnitPrice   types.Money `db:"unit_price"`

	// CategoryKey is resolved through the category directory, not stored on the line.
	CategoryKey string `db:"-"`
}

// LineValue is quantity × unit price.
func (l OrderLine) LineValue() types.Money {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// RefundLine is a (possibly partial) refund of an order line.
// Several refund lines may reference the same order line.
type RefundLine struct {
	RefundID    id.ID       `db:"refund_id"`
	OrderLineID id.ID       `db:"order_line_id"`
	OrderID     id.ID       `db:"order_id"`
	ProductID   id.ID       `db:"product_id"`
	VariantID   id.ID       `db:"variant_id"`
	Quantity    int64       `db:"quantity"`
	Subtotal    types.Money `db:"subtotal"`
}

// Filter is the typed selection handed to the ledger store.
// At least one of the identifying ids must be set.
type Filter struct {
	CustomerID        *id.ID
	LocationID        *id.ID
	CompanyLocationID *id.ID
	Period            period.Period
}

// FilterFields lists the identifying filter names accepted by Validate.
var FilterFields = []string{"customer_id", "location_id", "company_location_id"}

// Validate rejects a filter with no identifying id.
func (f Filter) Validate() error {
	if isSet(f.CustomerID) || isSet(f.LocationID) || isSet(f.CompanyLocationID) {
		return nil
	}
	return apperror.NewMissingFilter(FilterFields...)
}

// BudgetLocation is the location whose budgets frame the report:
// the location id, else the company location id.
func (f Filter) BudgetLocation() (id.ID, bool) {
	if isSet(f.LocationID) {
		return *f.LocationID, true
	}
	if isSet(f.CompanyLocationID) {
		return *f.CompanyLocationID, true
	}
	return id.Nil(), false
}

func isSet(v *id.ID) bool {
	return v != nil && !id.IsNil(*v)
}
