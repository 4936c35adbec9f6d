// Package schengen is the 90/180 short-stay compliance engine.
//
// Every function is a pure evaluation over a caller-supplied snapshot of
// trips: nothing is cached between calls and the input slice is never
// modified, so calls are safe to run concurrently. Dates are normalized to
// calendar days with domain.Day before any comparison.
//
// Trips are allowed to overlap. Window sums are additive per trip, so a day
// covered by two trips is counted twice; DistinctDaysUsedInWindow gives the
// union count for hosts that want to flag the difference. Lookups that return
// a single trip (ContainingInterval, IntervalIntersectingRange) return the
// first match in caller order.
package schengen

const (
	// MaxStayDays is the allowance inside any trailing window.
	MaxStayDays = 90
	// WindowDays is the length of the trailing window, query date included.
	WindowDays = 180
	// ResetHorizonDays bounds the forward search in FindResetDate.
	ResetHorizonDays = 365
)
