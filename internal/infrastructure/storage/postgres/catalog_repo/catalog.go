// Package catalog_repo resolves products to their catalog category labels.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"supplyspend/internal/core/id"
	"supplyspend/internal/domain/category"
	"supplyspend/internal/infrastructure/storage/postgres"
)

// maxIDsPerQuery bounds the IN list of one lookup.
const maxIDsPerQuery = 1000

type labelRow struct {
	ProductID id.ID  `db:"product_id"`
	Label     string `db:"label"`
}

var labelColumns = postgres.SelectList[labelRow](map[string]string{
	"product_id": "p.id",
	"label":      "pc.name",
})

// CatalogRepo implements category.Directory.
type CatalogRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ category.Directory = (*CatalogRepo)(nil)

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(txm *postgres.TxManager) *CatalogRepo {
	return &CatalogRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Labels returns the raw category label of each product that has one.
// Products without a category are absent from the map.
func (r *CatalogRepo) Labels(ctx context.Context, productIDs []id.ID) (map[id.ID]string, error) {
	labels := make(map[id.ID]string, len(productIDs))

	for start := 0; start < len(productIDs); start += maxIDsPerQuery {
		end := min(start+maxIDsPerQuery, len(productIDs))

		sql, args, err := r.labelsQuery(productIDs[start:end]).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build category labels query: %w", err)
		}

		var rows []labelRow
		err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
			return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...)
		})
		if err != nil {
			return nil, fmt.Errorf("select category labels: %w", err)
		}

		for _, row := range rows {
			labels[row.ProductID] = row.Label
		}
	}

	return labels, nil
}

func (r *CatalogRepo) labelsQuery(productIDs []id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(labelColumns...).
		From("products p").
		Join("product_categories pc ON pc.id = p.category_id").
		Where(squirrel.Eq{"p.id": productIDs})
}
