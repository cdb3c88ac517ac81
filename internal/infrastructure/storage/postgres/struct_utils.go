package postgres

import (
	"fmt"
	"reflect"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// It handles embedded structs recursively and skips "-" tags.
//
// Usage:
//
//	columns := ExtractDBColumns[ledger.OrderLine]()
//	// Returns: ["order_id", "line_id", "product_id", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

// extractColumnsFromType recursively extracts column names from a type.
func extractColumnsFromType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}
	return cols
}

// SelectList renders "expr AS column" for every db column of T, in field order.
// It panics when exprs lacks a column, so a scan target and its query cannot drift
// apart silently; call it at package initialization.
func SelectList[T any](exprs map[string]string) []string {
	cols := ExtractDBColumns[T]()
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		expr, ok := exprs[col]
		if !ok {
			var zero T
			panic(fmt.Sprintf("postgres: no select expression for column %q of %T", col, zero))
		}
		if expr == col {
			out = append(out, col)
			continue
		}
		out = append(out, expr+" AS "+col)
	}
	return out
}
