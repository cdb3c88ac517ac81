// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"supplyspend/internal/core/id"
	"supplyspend/internal/core/types"
)

// ErrorResponse is the body rendered by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Money renders an amount with exactly two decimal places.
func Money(m types.Money) string {
	return m.StringFixed(types.MoneyPlaces)
}

// OptionalID renders a nullable id.
func OptionalID(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
