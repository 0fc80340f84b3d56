// Package temporal provides the calendar arithmetic used by the
// planning and scheduling engine. All functions are pure and operate
// on civil dates; time-of-day and zone are preserved from the inputs
// but never influence month arithmetic.
package temporal

import (
	"time"

	"fincoach/internal/models"
)

// MonthsBetween returns the number of whole calendar months from d1 to
// d2 (floor). The result is negative when d2 precedes d1.
func MonthsBetween(d1, d2 time.Time) int {
	if d2.Before(d1) {
		return -MonthsBetween(d2, d1)
	}
	months := (d2.Year()-d1.Year())*12 + int(d2.Month()) - int(d1.Month())
	if d2.Day() < d1.Day() {
		months--
	}
	return months
}

// AddMonths adds n calendar months to t, clamping the day to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29), unlike
// time.AddDate which normalizes overflow into the following month.
func AddMonths(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(mod(total, 12) + 1)

	day := t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}

	h, m, s := t.Clock()
	return time.Date(year, month, day, h, m, s, t.Nanosecond(), t.Location())
}

// DaysBetween returns the number of civil days from d1 to d2, negative
// when d2 precedes d1. Partial days are truncated toward zero after
// both inputs are reduced to their calendar dates.
func DaysBetween(d1, d2 time.Time) int {
	a := time.Date(d1.Year(), d1.Month(), d1.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(d2.Year(), d2.Month(), d2.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// NextOccurrence returns the smallest occurrence of the schedule
// anchored at dueDate that falls on or after asOf. Monthly, quarterly
// and yearly schedules stay anchored to the original day of month,
// clamped to shorter months. For one-time schedules the second return
// value is false once the due date has passed: there is no future
// occurrence.
func NextOccurrence(dueDate time.Time, frequency models.ObligationFrequency, asOf time.Time) (time.Time, bool) {
	if !asOf.After(dueDate) {
		return dueDate, true
	}

	switch frequency {
	case models.FrequencyOneTime:
		return time.Time{}, false
	case models.FrequencyWeekly:
		days := DaysBetween(dueDate, asOf)
		k := (days + 6) / 7
		occ := dueDate.AddDate(0, 0, 7*k)
		if occ.Before(asOf) {
			occ = occ.AddDate(0, 0, 7)
		}
		return occ, true
	}

	step := 1
	switch frequency {
	case models.FrequencyQuarterly:
		step = 3
	case models.FrequencyYearly:
		step = 12
	}

	k := MonthsBetween(dueDate, asOf) / step
	occ := AddMonths(dueDate, k*step)
	for occ.Before(asOf) {
		k++
		occ = AddMonths(dueDate, k*step)
	}
	return occ, true
}

// PreviousOccurrence returns the greatest occurrence of the schedule
// anchored at dueDate that falls strictly before asOf. The second
// return value is false when asOf is not after the anchor: nothing
// precedes the schedule's start.
func PreviousOccurrence(dueDate time.Time, frequency models.ObligationFrequency, asOf time.Time) (time.Time, bool) {
	if !asOf.After(dueDate) {
		return time.Time{}, false
	}

	switch frequency {
	case models.FrequencyOneTime:
		return dueDate, true
	case models.FrequencyWeekly:
		days := DaysBetween(dueDate, asOf)
		occ := dueDate.AddDate(0, 0, 7*(days/7))
		if !occ.Before(asOf) {
			occ = occ.AddDate(0, 0, -7)
		}
		return occ, true
	}

	step := 1
	switch frequency {
	case models.FrequencyQuarterly:
		step = 3
	case models.FrequencyYearly:
		step = 12
	}

	k := MonthsBetween(dueDate, asOf)/step + 1
	occ := AddMonths(dueDate, k*step)
	for !occ.Before(asOf) {
		k--
		occ = AddMonths(dueDate, k*step)
	}
	return occ, true
}

// IsOverdue reports whether an occurrence lies strictly before asOf.
func IsOverdue(occurrence, asOf time.Time) bool {
	return occurrence.Before(asOf)
}

// RunwayDays returns the number of days the given balance covers at
// the given daily burn rate. A non-positive burn means the balance is
// never consumed; the result is capped at a year to keep it plottable.
func RunwayDays(balance, dailyBurn float64) int {
	const maxDays = 365
	if balance <= 0 {
		return 0
	}
	if dailyBurn <= 0 {
		return maxDays
	}
	days := int(balance / dailyBurn)
	if days > maxDays {
		return maxDays
	}
	return days
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
