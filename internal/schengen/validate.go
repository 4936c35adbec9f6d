package schengen

import (
	"time"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// IsValidTrip reports whether a prospective stay [start, end] can be added to
// trips without any of its days exceeding MaxStayDays. The prospective trip
// counts toward its own windows. trips is not modified.
func IsValidTrip(start, end time.Time, trips []domain.Trip) bool {
	_, violated := FirstViolation(start, end, trips)
	return !violated
}

// FirstViolation returns the first day of [start, end] whose trailing window
// would exceed MaxStayDays once the prospective trip is added. Reversed
// bounds are swapped.
func FirstViolation(start, end time.Time, trips []domain.Trip) (time.Time, bool) {
	r := NewInterval(start, end)
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}

	candidate := domain.Trip{StartDate: r.Start, EndDate: r.End}.Normalize()
	all := make([]domain.Trip, 0, len(trips)+1)
	all = append(all, trips...)
	all = append(all, candidate)

	for day := r.Start; !day.After(r.End); day = domain.AddDays(day, 1) {
		if DaysUsedInWindow(day, all) > MaxStayDays {
			return day, true
		}
	}
	return time.Time{}, false
}
