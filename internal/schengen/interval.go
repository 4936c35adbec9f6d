package schengen

import (
	"time"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// Interval is a closed range of calendar days.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns the interval [start, end] normalized to calendar days.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: domain.Day(start), End: domain.Day(end)}
}

// TripInterval returns the date range covered by t.
func TripInterval(t domain.Trip) Interval {
	return NewInterval(t.StartDate, t.EndDate)
}

// Days is the inclusive length of the interval.
func (i Interval) Days() int {
	return domain.DaysBetween(i.Start, i.End)
}

// Contains reports whether date lies in the interval, both ends inclusive.
func (i Interval) Contains(date time.Time) bool {
	d := domain.Day(date)
	return !d.Before(domain.Day(i.Start)) && !d.After(domain.Day(i.End))
}

// Overlap returns the intersection of a and b. Intervals that only touch
// (a.End == b.Start) share that one day.
func Overlap(a, b Interval) (Interval, bool) {
	a = NewInterval(a.Start, a.End)
	b = NewInterval(b.Start, b.End)
	if a.End.Before(b.Start) || b.End.Before(a.Start) {
		return Interval{}, false
	}

	out := a
	if b.Start.After(out.Start) {
		out.Start = b.Start
	}
	if b.End.Before(out.End) {
		out.End = b.End
	}
	return out, true
}

// ContainingInterval returns the first trip, in caller order, whose range
// contains date. When trips overlap the answer depends on that order; use
// ContainingIntervals to see every match.
func ContainingInterval(date time.Time, trips []domain.Trip) (domain.Trip, bool) {
	for _, t := range trips {
		if t.Contains(date) {
			return t, true
		}
	}
	return domain.Trip{}, false
}

// ContainingIntervals returns every trip whose range contains date, in caller order.
func ContainingIntervals(date time.Time, trips []domain.Trip) []domain.Trip {
	var out []domain.Trip
	for _, t := range trips {
		if t.Contains(date) {
			out = append(out, t)
		}
	}
	return out
}

// IntervalIntersectingRange returns the first trip whose range intersects
// [start, end], both ends inclusive.
func IntervalIntersectingRange(start, end time.Time, trips []domain.Trip) (domain.Trip, bool) {
	r := NewInterval(start, end)
	for _, t := range trips {
		if _, ok := Overlap(TripInterval(t), r); ok {
			return t, true
		}
	}
	return domain.Trip{}, false
}
