// Package ledger_repo reads order and refund snapshots from the orders schema.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"supplyspend/internal/core/id"
	"supplyspend/internal/domain/ledger"
	"supplyspend/internal/domain/period"
	"supplyspend/internal/infrastructure/storage/postgres"
)

// Variant ids are optional; the nil uuid keeps product+variant keys comparable.
const nilVariant = "COALESCE(ol.variant_id, '00000000-0000-0000-0000-000000000000'::uuid)"

var (
	orderLineColumns = postgres.SelectList[ledger.OrderLine](map[string]string{
		"order_id":     "o.id",
		"line_id":      "ol.id",
		"product_id":   "ol.product_id",
		"variant_id":   nilVariant,
		"product_name": "COALESCE(p.name, ol.name, '')",
		"sku":          "COALESCE(p.sku, '')",
		"vendor":       "COALESCE(p.vendor, '')",
		"quantity":     "ol.quantity",
		"unit_price":   "ol.unit_price",
	})

	refundLineColumns = postgres.SelectList[ledger.RefundLine](map[string]string{
		"refund_id":     "rl.refund_id",
		"order_line_id": "rl.order_line_id",
		"order_id":      "ol.order_id",
		"product_id":    "ol.product_id",
		"variant_id":    nilVariant,
		"quantity":      "rl.quantity",
		"subtotal":      "rl.subtotal",
	})
)

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// OrderLines returns every line of the orders selected by filter.
func (r *LedgerRepo) OrderLines(ctx context.Context, filter ledger.Filter) ([]ledger.OrderLine, error) {
	sql, args, err := r.orderLinesQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order lines query: %w", err)
	}

	var lines []ledger.OrderLine
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}
	return lines, nil
}

// RefundLines returns the refund lines of the selected orders.
// Refunds follow their order into its period whenever the refund itself was issued.
func (r *LedgerRepo) RefundLines(ctx context.Context, filter ledger.Filter) ([]ledger.RefundLine, error) {
	sql, args, err := r.refundLinesQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build refund lines query: %w", err)
	}

	var refunds []ledger.RefundLine
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &refunds, sql, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("select refund lines: %w", err)
	}
	return refunds, nil
}

func (r *LedgerRepo) orderLinesQuery(filter ledger.Filter) squirrel.SelectBuilder {
	q := r.builder.
		Select(orderLineColumns...).
		From("order_lines ol").
		Join("orders o ON o.id = ol.order_id").
		LeftJoin("products p ON p.id = ol.product_id")
	return applyOrderFilter(q, filter).OrderBy("o.created_at", "o.id", "ol.id")
}

func (r *LedgerRepo) refundLinesQuery(filter ledger.Filter) squirrel.SelectBuilder {
	q := r.builder.
		Select(refundLineColumns...).
		From("refund_lines rl").
		Join("order_lines ol ON ol.id = rl.order_line_id").
		Join("orders o ON o.id = ol.order_id")
	return applyOrderFilter(q, filter).OrderBy("rl.refund_id", "rl.id")
}

// applyOrderFilter restricts q to the orders of filter: every set id must match
// and the order must fall in the period.
func applyOrderFilter(q squirrel.SelectBuilder, filter ledger.Filter) squirrel.SelectBuilder {
	ids := []struct {
		column string
		value  *id.ID
	}{
		{"o.customer_id", filter.CustomerID},
		{"o.location_id", filter.LocationID},
		{"o.company_location_id", filter.CompanyLocationID},
	}
	for _, f := range ids {
		if f.value != nil && !id.IsNil(*f.value) {
			q = q.Where(squirrel.Eq{f.column: *f.value})
		}
	}
	return q.Where(periodPredicate(period.PredicateFor(filter.Period), "o.budget_month", "o.created_at"))
}

// periodPredicate renders pr over the given tag and timestamp columns.
func periodPredicate(pr period.Predicate, tagColumn, createdColumn string) squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.Eq{tagColumn: pr.Tag},
		squirrel.And{
			squirrel.Or{
				squirrel.Eq{tagColumn: nil},
				squirrel.Eq{tagColumn: ""},
			},
			squirrel.GtOrEq{createdColumn: pr.From},
			squirrel.Lt{createdColumn: pr.To},
		},
	}
}
