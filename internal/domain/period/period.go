// Package period resolves reporting months and the order-selection predicate
// for them.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"supplyspend/internal/core/apperror"
)

// MinYear is the earliest reportable year.
const MinYear = 2020

// Period is a calendar/budget month.
type Period struct {
	Month int
	Year  int
}

// New creates a Period without validation.
func New(month, year int) Period {
	return Period{Month: month, Year: year}
}

// Parse reads a budget month tag in MM-YYYY form.
func Parse(tag string) (Period, error) {
	tag = strings.TrimSpace(tag)
	mm, yyyy, ok := strings.Cut(tag, "-")
	if !ok || len(mm) != 2 || len(yyyy) != 4 {
		return Period{}, apperror.NewInvalidPeriod(fmt.Sprintf("budget month %q must be MM-YYYY", tag)).
			WithDetail("budget_month", tag)
	}
	month, err := strconv.Atoi(mm)
	if err != nil || !digits(mm) {
		return Period{}, apperror.NewInvalidPeriod(fmt.Sprintf("budget month %q has a non-numeric month", tag)).
			WithDetail("budget_month", tag)
	}
	year, err := strconv.Atoi(yyyy)
	if err != nil || !digits(yyyy) {
		return Period{}, apperror.NewInvalidPeriod(fmt.Sprintf("budget month %q has a non-numeric year", tag)).
			WithDetail("budget_month", tag)
	}
	return Period{Month: month, Year: year}, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders the period as a MM-YYYY tag.
func (p Period) String() string {
	return fmt.Sprintf("%02d-%04d", p.Month, p.Year)
}

// Start is the first instant of the month (UTC).
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month (UTC), exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the month.
func (p Period) Days() int {
	return p.End().AddDate(0, 0, -1).Day()
}

// Validate checks month is 1..12 and year is MinYear..now.Year()+1.
func (p Period) Validate(now time.Time) error {
	if p.Month < 1 || p.Month > 12 {
		return apperror.NewInvalidPeriod(fmt.Sprintf("month %d is outside 1..12", p.Month)).
			WithDetail("month", p.Month)
	}
	maxYear := now.Year() + 1
	if p.Year < MinYear || p.Year > maxYear {
		return apperror.NewInvalidPeriod(fmt.Sprintf("year %d is outside %d..%d", p.Year, MinYear, maxYear)).
			WithDetail("year", p.Year)
	}
	return nil
}
