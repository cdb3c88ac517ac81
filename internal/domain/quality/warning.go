// Package quality carries non-fatal data-quality signals attached to reports.
package quality

import "fmt"

// Warning codes.
const (
	CodeNegativeNet     = "NEGATIVE_NET"
	CodeCensusDefaulted = "CENSUS_DEFAULTED"
	CodeUnmatchedRefund = "UNMATCHED_REFUND"
)

// Warning is a DataQualityWarning: the report is still produced, but a figure
// rests on questionable upstream data.
type Warning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Category  string `json:"category,omitempty"`
	ProductID string `json:"productId,omitempty"`
}

// NegativeNet flags a product whose refunds exceed what was ordered.
func NegativeNet(category, productID, field string, net fmt.Stringer) Warning {
	return Warning{
		Code:      CodeNegativeNet,
		Message:   fmt.Sprintf("net %s is negative (%s): refunds exceed ordered amount", field, net),
		Category:  category,
		ProductID: productID,
	}
}

// CensusDefaulted flags a census-derived budget computed without a census row.
func CensusDefaulted(budgetMonth string, census fmt.Stringer) Warning {
	return Warning{
		Code:    CodeCensusDefaulted,
		Message: fmt.Sprintf("no census configured for %s, budgets use census %s", budgetMonth, census),
	}
}

// UnmatchedRefund flags a refund line that references no selected order line.
func UnmatchedRefund(refundID, orderLineID string) Warning {
	return Warning{
		Code:    CodeUnmatchedRefund,
		Message: fmt.Sprintf("refund %s references order line %s outside the selection", refundID, orderLineID),
	}
}
