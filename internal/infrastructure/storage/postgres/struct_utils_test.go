package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockBase struct {
	ID string `db:"id"`
}

type mockRow struct {
	mockBase
	Code    string `db:"code"`
	Name    string `db:"name"`
	Derived string `db:"-"`
	Plain   string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	assert.Equal(t, []string{"id", "code", "name"}, ExtractDBColumns[mockRow]())
	assert.Equal(t, []string{"id", "code", "name"}, ExtractDBColumns[*mockRow]())
	assert.Nil(t, ExtractDBColumns[int]())
}

func TestSelectList(t *testing.T) {
	got := SelectList[mockRow](map[string]string{
		"id":   "r.id",
		"code": "code",
		"name": "COALESCE(r.name, '')",
	})
	assert.Equal(t, []string{"r.id AS id", "code", "COALESCE(r.name, '') AS name"}, got)

	assert.Panics(t, func() {
		SelectList[mockRow](map[string]string{"id": "r.id"})
	})
}
