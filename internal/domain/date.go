package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used on every boundary (JSON, CSV, CLI, SQL).
const DateLayout = "2006-01-02"

// Day returns midnight UTC of t's calendar date, as seen in t's own location.
// Every date comparison in the application goes through Day first so that a
// time-of-day or zone offset can never move a stay onto a neighbouring day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after t (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the inclusive number of calendar days between a and b,
// regardless of order. DaysBetween(a, a) is 1.
func DaysBetween(a, b time.Time) int {
	// Unix seconds rather than Sub: a time.Duration saturates after ~292 years.
	diff := int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
	if diff < 0 {
		diff = -diff
	}
	return diff + 1
}

// ParseError is returned by ParseDate when the input is not a YYYY-MM-DD date.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDate parses a YYYY-MM-DD string into a normalized calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Err: err}
	}
	return Day(t), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}
