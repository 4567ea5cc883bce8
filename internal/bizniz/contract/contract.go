// Package contract converts contract durations between a flat month count and a
// (years, months) pair, and derives the contract end and review dates from a start
// date. Every place that accepts a duration (API input, CLI forms, persistence)
// goes through these functions so the rollover rules live in one spot.
package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MonthsPerYear is the number of months folded into one year.
	MonthsPerYear = 12
	// ReviewLeadMonths is how long before the contract end the default review falls.
	ReviewLeadMonths = 3
	// DefaultLengthMonths is applied when a record is created without any duration.
	DefaultLengthMonths = 12
	// MaxLengthMonths bounds every duration accepted from callers (100 years).
	MaxLengthMonths = 100 * MonthsPerYear
)

var (
	ErrReviewBeforeStart = errors.New("review date must not be before start date")
	ErrReviewAfterEnd    = errors.New("review date cannot be after the end of contract")
)

// Duration is a contract length split into whole years and the remaining months.
// A normalized Duration always has 0 <= Months <= 11 and Years >= 0.
type Duration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// ToTotalMonths folds years and months into a month count. Negative years are
// treated as zero, excess months roll into years and a month deficit borrows from
// the years; a total that would go below zero floors at zero.
func ToTotalMonths(years, months int) int {
	if years < 0 {
		years = 0
	}
	total := years*MonthsPerYear + months
	if total < 0 {
		return 0
	}
	return total
}

// ToYearsAndMonths splits a month count into whole years and remaining months.
func ToYearsAndMonths(totalMonths int) (years, months int) {
	if totalMonths <= 0 {
		return 0, 0
	}
	return totalMonths / MonthsPerYear, totalMonths % MonthsPerYear
}

// Normalize applies the rollover/borrow policy to an arbitrary years/months pair.
func Normalize(years, months int) Duration {
	return FromTotal(ToTotalMonths(years, months))
}

// FromTotal builds a normalized Duration from a month count.
func FromTotal(totalMonths int) Duration {
	y, m := ToYearsAndMonths(totalMonths)
	return Duration{Years: y, Months: m}
}

// Total returns the duration as a month count.
func (d Duration) Total() int {
	return ToTotalMonths(d.Years, d.Months)
}

// StepMonths adds delta months (negative to subtract) using the same policy as
// direct entry: 0y11m + 1 becomes 1y0m, 1y0m - 1 becomes 0y11m, 0y0m - 1 stays 0y0m.
func (d Duration) StepMonths(delta int) Duration {
	return Normalize(d.Years, d.Months+delta)
}

// StepYears adds delta years, never going below zero years.
func (d Duration) StepYears(delta int) Duration {
	return Normalize(d.Years+delta, d.Months)
}

func (d Duration) String() string {
	return FormatLength(d.Total())
}

// FormatLength renders a month count for humans: "1 year and 2 months",
// "3 months", "2 years". Zero renders as "0 months".
func FormatLength(totalMonths int) string {
	years, months := ToYearsAndMonths(totalMonths)
	if years == 0 {
		return plural(months, "month")
	}

	parts := []string{plural(years, "year")}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	return strings.Join(parts, " and ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// EndDate is startDate plus totalMonths calendar months. Day overflow normalizes
// the way time.AddDate does, so Jan 31 + 1 month lands in early March.
func EndDate(startDate time.Time, totalMonths int) time.Time {
	return startDate.AddDate(0, totalMonths, 0)
}

// ReviewDate is the default review milestone: ReviewLeadMonths before EndDate.
func ReviewDate(startDate time.Time, totalMonths int) time.Time {
	return EndDate(startDate, totalMonths).AddDate(0, -ReviewLeadMonths, 0)
}

// CheckReviewDate verifies that an explicit review date lies within
// [startDate, EndDate(startDate, totalMonths)].
func CheckReviewDate(startDate time.Time, totalMonths int, review time.Time) error {
	if review.Before(startDate) {
		return ErrReviewBeforeStart
	}
	if review.After(EndDate(startDate, totalMonths)) {
		return ErrReviewAfterEnd
	}
	return nil
}
