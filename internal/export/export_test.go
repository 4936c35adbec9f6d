package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/export"
)

func sampleRows() []domain.ExportRow {
	return []domain.ExportRow{
		{
			TripID: "7f9c2a4e-0000-4000-8000-000000000001", TripName: "Alps", TripIcon: "🏔",
			StartDate: "2024-01-01", EndDate: "2024-01-10",
			Days: 10, DaysUsedAtEnd: 10, RemainingAfter: 80,
		},
		{
			TripID: "7f9c2a4e-0000-4000-8000-000000000002", TripName: "Long, winter",
			StartDate: "2024-02-01", EndDate: "2024-05-01",
			Days: 91, DaysUsedAtEnd: 101, RemainingAfter: -11, Overstay: true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "trip_id", records[0][0])
	assert.Equal(t, []string{
		"7f9c2a4e-0000-4000-8000-000000000002", "Long, winter", "", "2024-02-01", "2024-05-01",
		"91", "101", "-11", "true",
	}, records[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, nil))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	reset := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, export.WriteICS(&buf, sampleRows(), export.ICSOptions{Reset: &reset, Now: now}))

	out := buf.String()
	assert.Contains(t, out, "PRODID:"+export.ProductID)
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240101")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240111", "DTEND is exclusive")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240710")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	summaries := make([]string, 0, len(events))
	for _, ev := range events {
		summaries = append(summaries, ev.GetProperty(ical.ComponentPropertySummary).Value)
	}
	assert.Contains(t, summaries, "🏔 Alps")
	assert.Contains(t, summaries, "Allowance available again")
}

func TestWriteICS_BadDate(t *testing.T) {
	rows := []domain.ExportRow{{TripID: "x", StartDate: "2024-13-01", EndDate: "2024-01-02"}}

	err := export.WriteICS(&bytes.Buffer{}, rows, export.ICSOptions{})

	var pe *domain.ParseError
	assert.ErrorAs(t, err, &pe)
}
