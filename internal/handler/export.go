package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/export"
)

// GetExport implements GET /export.
// It returns one row per trip with its usage figures. Use ?format=csv or
// ?format=ics for file downloads; the default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "csv", "ics":
	default:
		writeError(w, http.StatusBadRequest, codeValidation, "format must be one of json, csv, ics")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, rows); err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		writeFile(w, "text/csv", "trips.csv", buf.Bytes())
	case "ics":
		opts := export.ICSOptions{}
		st, err := s.compliance.Status(r.Context(), s.compliance.Today())
		if err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		if st.Reset.Found {
			opts.Reset = &st.Reset.Date
		}
		var buf bytes.Buffer
		if err := export.WriteICS(&buf, rows, opts); err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		writeFile(w, "text/calendar", "trips.ics", buf.Bytes())
	default:
		out := make([]ExportRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, domainRowToExportRow(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeFile sends body as a download.
func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(body)
}

// domainRowToExportRow maps a domain.ExportRow to its API representation.
// Empty labels become nil pointers (omitempty in JSON).
func domainRowToExportRow(r domain.ExportRow) ExportRow {
	id, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripId:         id,
		StartDate:      mustParseDate(r.StartDate),
		EndDate:        mustParseDate(r.EndDate),
		Days:           r.Days,
		DaysUsedAtEnd:  r.DaysUsedAtEnd,
		RemainingAfter: r.RemainingAfter,
		Overstay:       r.Overstay,
	}
	if r.TripName != "" {
		row.TripName = &r.TripName
	}
	if r.TripIcon != "" {
		row.TripIcon = &r.TripIcon
	}
	return row
}

// mustParseDate parses a "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}
