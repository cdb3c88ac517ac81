package budget_repo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyspend/internal/domain/period"
)

func TestCensusQuery(t *testing.T) {
	repo := NewBudgetRepo(nil)
	loc := uuid.New()

	sql, args, err := repo.censusQuery(loc, period.New(4, 2025)).ToSql()
	require.NoError(t, err)

	// squirrel.Eq renders keys in sorted order
	assert.Equal(t, "SELECT census_amount FROM location_census WHERE budget_month = $1 AND location_id = $2 LIMIT 1", sql)
	assert.Equal(t, []any{"04-2025", loc.String()}, args)
}

func TestAssignedQuery(t *testing.T) {
	repo := NewBudgetRepo(nil)
	loc := uuid.New()

	sql, args, err := repo.assignedQuery(allocationColumns, loc).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT pc.id AS category_id, pc.name AS name, lc.allocated_amount AS allocated_amount, pc.is_active AS is_active "+
			"FROM location_categories lc JOIN product_categories pc ON pc.id = lc.category_id "+
			"WHERE lc.location_id = $1 ORDER BY pc.name, pc.id",
		sql)
	assert.Equal(t, []any{loc.String()}, args)

	sql, _, err = repo.assignedQuery(rateColumns, loc).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "pc.ppd_rate AS ppd_rate")
}
