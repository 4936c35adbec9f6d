package domain

// ExportRow is one trip in the full-data export, flattened with the usage
// figures a traveller needs when reviewing past stays. Dates are
// "2006-01-02" strings so every encoder (JSON, CSV, iCalendar) shares them.
type ExportRow struct {
	TripID    string `json:"trip_id"`
	TripName  string `json:"trip_name,omitempty"`
	TripIcon  string `json:"trip_icon,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`

	// DaysUsedAtEnd is the trailing-window total on the trip's last day.
	DaysUsedAtEnd int `json:"days_used_at_end"`
	// RemainingAfter is the allowance left on the day after the trip ends.
	// Negative when the traveller is still over the limit.
	RemainingAfter int `json:"remaining_after"`
	// Overstay is true when some day of the trip exceeded the allowance.
	Overstay bool `json:"overstay"`
}
