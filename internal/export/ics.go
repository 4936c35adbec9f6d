package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// ProductID identifies this application in exported calendars.
const ProductID = "-//schengen-tracker//stays//EN"

// ICSOptions tunes the calendar written by WriteICS.
type ICSOptions struct {
	// Reset, when set, adds an all-day event on the date the allowance
	// becomes positive again.
	Reset *time.Time
	// Now stamps every event (DTSTAMP). Zero means time.Now.
	Now time.Time
}

// WriteICS writes one all-day VEVENT per row. DTEND is exclusive in
// iCalendar, so it is the day after the trip's last day.
func WriteICS(w io.Writer, rows []domain.ExportRow, opts ICSOptions) error {
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, r := range rows {
		start, err := domain.ParseDate(r.StartDate)
		if err != nil {
			return fmt.Errorf("export.WriteICS: trip %s: %w", r.TripID, err)
		}
		end, err := domain.ParseDate(r.EndDate)
		if err != nil {
			return fmt.Errorf("export.WriteICS: trip %s: %w", r.TripID, err)
		}

		ev := cal.AddEvent(r.TripID + "@schengen-tracker")
		ev.SetDtStampTime(stamp)
		ev.SetSummary(eventSummary(r))
		ev.SetDescription(fmt.Sprintf("%d days. %d used in the window on the last day, %d remaining after.",
			r.Days, r.DaysUsedAtEnd, r.RemainingAfter))
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(domain.AddDays(end, 1))
	}

	if opts.Reset != nil {
		day := domain.Day(*opts.Reset)
		ev := cal.AddEvent("reset-" + domain.FormatDate(day) + "@schengen-tracker")
		ev.SetDtStampTime(stamp)
		ev.SetSummary("Allowance available again")
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(domain.AddDays(day, 1))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("export.WriteICS: %w", err)
	}
	return nil
}

func eventSummary(r domain.ExportRow) string {
	label := r.TripName
	if label == "" {
		label = "Trip"
	}
	if r.TripIcon != "" {
		label = r.TripIcon + " " + label
	}
	if r.Overstay {
		label += " (overstay)"
	}
	return label
}
