package schengen

import (
	"time"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// DayStatus is the per-day view behind a calendar cell.
type DayStatus struct {
	Date      time.Time
	DaysUsed  int
	Remaining int
	// Trip is the first trip containing Date, nil on days spent outside.
	Trip *domain.Trip
}

// Timeline evaluates every day from from to to inclusive. It returns nil when
// to is before from.
func Timeline(from, to time.Time, trips []domain.Trip) []DayStatus {
	r := NewInterval(from, to)
	if r.End.Before(r.Start) {
		return nil
	}

	out := make([]DayStatus, 0, r.Days())
	for day := r.Start; !day.After(r.End); day = domain.AddDays(day, 1) {
		ds := DayStatus{Date: day, DaysUsed: DaysUsedInWindow(day, trips)}
		ds.Remaining = MaxStayDays - ds.DaysUsed
		if t, ok := ContainingInterval(day, trips); ok {
			ds.Trip = &t
		}
		out = append(out, ds)
	}
	return out
}
