package category

import (
	"context"

	"supplyspend/internal/core/id"
)

// Directory resolves products to their catalog category label.
// Labels may still be entity-encoded.
type Directory interface {
	Labels(ctx context.Context, productIDs []id.ID) (map[id.ID]string, error)
}

// Resolve returns the canonical category key for productID, falling back to
// Uncategorized when the directory has no label for it.
func Resolve(labels map[id.ID]string, productID id.ID) string {
	if label, ok := labels[productID]; ok {
		return Key(label)
	}
	return Uncategorized
}
