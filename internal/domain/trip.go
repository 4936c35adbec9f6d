// Package domain contains the core data types for the stay tracker.
// This package has no dependencies beyond google/uuid and is imported by every
// other internal package (schengen, repo, service, handler).
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Trip is one recorded stay inside the regulated zone: a closed, inclusive
// range of calendar days. Days is derived from the dates and is recomputed by
// Normalize on every write; nothing trusts a stored value.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize truncates both dates to calendar days, trims the optional labels
// and recomputes Days. It does not reorder reversed dates; callers validate that.
func (t Trip) Normalize() Trip {
	t.Name = strings.TrimSpace(t.Name)
	t.Icon = strings.TrimSpace(t.Icon)
	t.StartDate = Day(t.StartDate)
	t.EndDate = Day(t.EndDate)
	t.Days = DaysBetween(t.StartDate, t.EndDate)
	return t
}

// Contains reports whether date falls inside the trip, both ends inclusive.
func (t Trip) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(Day(t.StartDate)) && !d.After(Day(t.EndDate))
}

// TotalDays sums the length of every trip, ignoring any window.
func TotalDays(trips []Trip) int {
	total := 0
	for _, t := range trips {
		total += DaysBetween(t.StartDate, t.EndDate)
	}
	return total
}
