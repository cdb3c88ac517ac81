package period

import (
	"time"
)

// Input is what a caller asks for.
type Input struct {
	Month int
	Year  int

	// BudgetMonth is an optional explicit MM-YYYY tag; when set it decides the period.
	BudgetMonth string
}

// Resolved is a validated period plus whether it came from an explicit tag.
type Resolved struct {
	Period   Period
	Explicit bool
}

// Resolve validates the input against now and returns the reporting period.
// Month and year are validated whenever either is set, even if BudgetMonth
// decides the period; both may be omitted only alongside a BudgetMonth.
func Resolve(in Input, now time.Time) (Resolved, error) {
	requested := New(in.Month, in.Year)
	if in.BudgetMonth == "" || in.Month != 0 || in.Year != 0 {
		if err := requested.Validate(now); err != nil {
			return Resolved{}, err
		}
	}

	if in.BudgetMonth != "" {
		p, err := Parse(in.BudgetMonth)
		if err != nil {
			return Resolved{}, err
		}
		if err := p.Validate(now); err != nil {
			return Resolved{}, err
		}
		return Resolved{Period: p, Explicit: true}, nil
	}

	return Resolved{Period: requested}, nil
}

// Predicate selects orders for a period: an order tagged with the period's
// budget month, or an untagged order created inside the calendar month.
// The fallback only applies to untagged rows, so no row matches twice.
type Predicate struct {
	Tag  string
	From time.Time
	To   time.Time
}

// PredicateFor builds the selection predicate for p.
func PredicateFor(p Period) Predicate {
	return Predicate{Tag: p.String(), From: p.Start(), To: p.End()}
}

// Matches evaluates the predicate for one order.
func (pr Predicate) Matches(tag *string, createdAt time.Time) bool {
	if tag != nil && *tag != "" {
		return *tag == pr.Tag
	}
	return !createdAt.Before(pr.From) && createdAt.Before(pr.To)
}
