// Package export encodes export rows as CSV and iCalendar documents.
// Both the HTTP API and the CLI write through these encoders so the two
// surfaces produce byte-identical files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_icon", "start_date", "end_date",
	"days", "days_used_at_end", "remaining_after", "overstay",
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(rowToCSVRecord(r)); err != nil {
			return fmt.Errorf("export.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	return nil
}

func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.TripName,
		r.TripIcon,
		r.StartDate,
		r.EndDate,
		strconv.Itoa(r.Days),
		strconv.Itoa(r.DaysUsedAtEnd),
		strconv.Itoa(r.RemainingAfter),
		strconv.FormatBool(r.Overstay),
	}
}
