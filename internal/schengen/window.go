package schengen

import (
	"sort"
	"time"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// Window returns the trailing window anchored at date: [date-179, date].
func Window(date time.Time) Interval {
	end := domain.Day(date)
	return Interval{Start: domain.AddDays(end, -(WindowDays - 1)), End: end}
}

// DaysUsedInWindow sums, over every trip, the number of days the trip shares
// with the window ending at date. Overlapping trips are counted once each.
func DaysUsedInWindow(date time.Time, trips []domain.Trip) int {
	w := Window(date)
	total := 0
	for _, t := range trips {
		if o, ok := Overlap(TripInterval(t), w); ok {
			total += o.Days()
		}
	}
	return total
}

// DistinctDaysUsedInWindow counts the days inside the window that are covered
// by at least one trip. It equals DaysUsedInWindow when no trips overlap.
func DistinctDaysUsedInWindow(date time.Time, trips []domain.Trip) int {
	w := Window(date)

	parts := make([]Interval, 0, len(trips))
	for _, t := range trips {
		if o, ok := Overlap(TripInterval(t), w); ok {
			parts = append(parts, o)
		}
	}
	if len(parts) == 0 {
		return 0
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].Start.Before(parts[j].Start)
	})

	total := 0
	cur := parts[0]
	for _, p := range parts[1:] {
		// Adjacent days merge as well; they do not change the count either way.
		if !p.Start.After(domain.AddDays(cur.End, 1)) {
			if p.End.After(cur.End) {
				cur.End = p.End
			}
			continue
		}
		total += cur.Days()
		cur = p
	}
	return total + cur.Days()
}
