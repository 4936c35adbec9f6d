package schengen

import (
	"time"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// RemainingDays is the allowance left on date. Negative means overstay.
func RemainingDays(date time.Time, trips []domain.Trip) int {
	return MaxStayDays - DaysUsedInWindow(date, trips)
}

// CurrentInterval returns the trip the traveller is on at date, if any.
func CurrentInterval(date time.Time, trips []domain.Trip) (domain.Trip, bool) {
	return ContainingInterval(date, trips)
}

// FindResetDate walks forward from date (or from the day after the current
// trip ends, when date falls inside one) and returns the first day with a
// strictly positive allowance. Zero remaining is still out of days. The
// search gives up after ResetHorizonDays days and reports false; that is a
// normal outcome for very dense or heavily overlapping histories.
func FindResetDate(date time.Time, trips []domain.Trip) (time.Time, bool) {
	check := domain.Day(date)
	if cur, ok := CurrentInterval(check, trips); ok {
		check = domain.AddDays(cur.EndDate, 1)
	}

	for i := 0; i < ResetHorizonDays; i++ {
		if RemainingDays(check, trips) > 0 {
			return check, true
		}
		check = domain.AddDays(check, 1)
	}
	return time.Time{}, false
}

// Reset is the outcome of the reset search made by Evaluate.
// Needed is false when the traveller is within the allowance and the search
// was skipped. Found is false when the search ran out of horizon; Date is
// meaningful only when Found is true.
type Reset struct {
	Needed bool
	Found  bool
	Date   time.Time
}

// Status is the traveller-facing summary for one date.
type Status struct {
	Date      time.Time
	DaysUsed  int
	Remaining int

	// CurrentTrip and RemainingAfterTrip are nil unless date is inside a trip.
	// RemainingAfterTrip is the allowance on the day after that trip ends.
	CurrentTrip        *domain.Trip
	RemainingAfterTrip *int

	Reset Reset

	TotalTrips int
	TotalDays  int

	// DoubleCountedDays is how many of DaysUsed come from trips overlapping
	// each other inside the window.
	DoubleCountedDays int
}

// Overstay reports whether the allowance is exceeded on Date.
func (s Status) Overstay() bool {
	return s.Remaining < 0
}

// Evaluate builds the full status for date. The reset search only runs when
// the traveller is over the limit on date or will be on the day after the
// current trip ends.
func Evaluate(date time.Time, trips []domain.Trip) Status {
	day := domain.Day(date)
	s := Status{
		Date:       day,
		DaysUsed:   DaysUsedInWindow(day, trips),
		TotalTrips: len(trips),
		TotalDays:  domain.TotalDays(trips),
	}
	s.Remaining = MaxStayDays - s.DaysUsed
	s.DoubleCountedDays = s.DaysUsed - DistinctDaysUsedInWindow(day, trips)

	if cur, ok := CurrentInterval(day, trips); ok {
		after := RemainingDays(domain.AddDays(cur.EndDate, 1), trips)
		s.CurrentTrip = &cur
		s.RemainingAfterTrip = &after
	}

	if s.Remaining < 0 || (s.RemainingAfterTrip != nil && *s.RemainingAfterTrip < 0) {
		s.Reset.Needed = true
		s.Reset.Date, s.Reset.Found = FindResetDate(day, trips)
	}
	return s
}
