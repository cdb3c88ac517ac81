package ledger

import "context"

// Repository reads order and refund lines from the ledger.
type Repository interface {
	// OrderLines returns lines of orders selected by the filter's period predicate.
	OrderLines(ctx context.Context, filter Filter) ([]OrderLine, error)

	// RefundLines returns refund lines of the same orders, whenever the refund was issued.
	RefundLines(ctx context.Context, filter Filter) ([]RefundLine, error)
}
