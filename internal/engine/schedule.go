package engine

import (
	"time"

	"fincoach/internal/models"
	"fincoach/internal/money"
	"fincoach/internal/temporal"
)

// ObligationStatus describes one obligation's position on the calendar
// as of a given date. For a resolved one-time obligation (paid, no
// future occurrence) HasNextDue is false and the status carries no due
// information.
type ObligationStatus struct {
	Obligation   models.Obligation `json:"obligation"`
	NextDue      time.Time         `json:"next_due,omitempty"`
	HasNextDue   bool              `json:"has_next_due"`
	DaysUntilDue int               `json:"days_until_due"`
	Overdue      bool              `json:"overdue"`
}

// DefaultLookaheadDays is the standard burden window.
const DefaultLookaheadDays = 30

// ScheduleObligations computes, per obligation, the next pending
// occurrence, days-until-due and overdue flag as of asOf.
//
// The pending occurrence is the first occurrence not yet settled by
// LastPaidDate: with no payment recorded it is the original due date;
// after a payment it is the first occurrence beyond the one that
// payment settled. A pending occurrence before asOf is overdue with a
// negative DaysUntilDue. A one-time obligation past due and unpaid
// therefore stays overdue forever; once paid it resolves and never
// reappears.
func ScheduleObligations(obligations []models.Obligation, asOf time.Time) []ObligationStatus {
	statuses := make([]ObligationStatus, 0, len(obligations))
	for i := range obligations {
		statuses = append(statuses, scheduleOne(obligations[i], asOf))
	}
	return statuses
}

func scheduleOne(o models.Obligation, asOf time.Time) ObligationStatus {
	status := ObligationStatus{Obligation: o}

	// Never paid: the anchor occurrence itself is pending.
	pending, ok := o.DueDate, true
	if o.LastPaidDate != nil {
		pending, ok = nextUnsettled(o, *o.LastPaidDate)
	}
	if !ok {
		return status
	}

	status.NextDue = pending
	status.HasNextDue = true
	status.DaysUntilDue = temporal.DaysBetween(asOf, pending)
	status.Overdue = temporal.IsOverdue(pending, asOf)
	return status
}

// nextUnsettled returns the first occurrence still owed after a
// payment recorded on paid. The payment settles the occurrence nearest
// to it: the one just ahead of an early payment, or the one a late
// payment trails.
func nextUnsettled(o models.Obligation, paid time.Time) (time.Time, bool) {
	settled, ok := temporal.NextOccurrence(o.DueDate, o.Frequency, paid)
	if !ok {
		// One-time obligation paid past its due date: resolved.
		return time.Time{}, false
	}
	if prev, hasPrev := temporal.PreviousOccurrence(o.DueDate, o.Frequency, paid); hasPrev &&
		temporal.DaysBetween(prev, paid) < temporal.DaysBetween(paid, settled) {
		settled = prev
	}
	return temporal.NextOccurrence(o.DueDate, o.Frequency, settled.AddDate(0, 0, 1))
}

// UpcomingBurden sums the amounts of obligations whose pending
// occurrence falls within lookaheadDays of asOf. Overdue occurrences
// are included: that cash is demanded now.
func UpcomingBurden(statuses []ObligationStatus, lookaheadDays int) float64 {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	var burden float64
	for i := range statuses {
		s := &statuses[i]
		if !s.HasNextDue {
			continue
		}
		if s.DaysUntilDue <= lookaheadDays {
			burden += s.Obligation.Amount
		}
	}
	return money.Round(burden)
}
