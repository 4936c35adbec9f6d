package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
)

// GetStatus handles GET /status?date=. The date defaults to today.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date", s.compliance.Today())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	st, err := s.compliance.Status(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, statusToResponse(st))
}

// GetWindow handles GET /window?date=.
func (s *Server) GetWindow(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date", s.compliance.Today())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	usage, err := s.compliance.Window(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, WindowResponse{
		Date:         openapi_types.Date{Time: domain.Day(date)},
		WindowStart:  openapi_types.Date{Time: usage.Window.Start},
		WindowEnd:    openapi_types.Date{Time: usage.Window.End},
		DaysUsed:     usage.DaysUsed,
		DistinctDays: usage.DistinctDays,
		Remaining:    usage.Remaining,
	})
}

// GetReset handles GET /reset?date=.
func (s *Server) GetReset(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date", s.compliance.Today())
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	reset, found, err := s.compliance.ResetDate(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	resp := ResetResponse{From: openapi_types.Date{Time: domain.Day(date)}, Found: found}
	if found {
		resp.Date = &openapi_types.Date{Time: reset}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTimeline handles GET /timeline?from=&to=. Both default to today, so a
// bare request returns a single day.
func (s *Server) GetTimeline(w http.ResponseWriter, r *http.Request) {
	today := s.compliance.Today()
	from, err := queryDate(r, "from", today)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	to, err := queryDate(r, "to", from)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}

	days, err := s.compliance.Timeline(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	out := make([]TimelineDay, len(days))
	for i, d := range days {
		out[i] = TimelineDay{
			Date:      openapi_types.Date{Time: d.Date},
			DaysUsed:  d.DaysUsed,
			Remaining: d.Remaining,
		}
		if d.Trip != nil {
			id := d.Trip.ID
			out[i].TripId = &id
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ValidateTrip handles POST /trips/validate.
// A conflict is reported alongside the verdict; it does not flip Valid.
func (s *Server) ValidateTrip(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.StartDate == "" || body.EndDate == "" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "start_date and end_date are required")
		return
	}
	start, err := domain.ParseDate(body.StartDate)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	end, err := domain.ParseDate(body.EndDate)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	exclude := uuid.Nil
	if body.ExcludeId != "" {
		if exclude, err = uuid.Parse(body.ExcludeId); err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "exclude_id must be a UUID")
			return
		}
	}

	v, err := s.compliance.ValidateTrip(r.Context(), start, end, exclude)
	if err != nil {
		s.writeServiceError(w, r, err, "")
		return
	}
	resp := ValidateResponse{Valid: v.Valid}
	if v.FirstViolation != nil {
		resp.FirstViolation = &openapi_types.Date{Time: *v.FirstViolation}
	}
	if v.Conflict != nil {
		c := tripToResponse(*v.Conflict)
		resp.Conflict = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusToResponse(st schengen.Status) StatusResponse {
	resp := StatusResponse{
		Date:               openapi_types.Date{Time: st.Date},
		DaysUsed:           st.DaysUsed,
		Remaining:          st.Remaining,
		Overstay:           st.Overstay(),
		RemainingAfterTrip: st.RemainingAfterTrip,
		Reset:              ResetInfo{Needed: st.Reset.Needed, Found: st.Reset.Found},
		TotalTrips:         st.TotalTrips,
		TotalDays:          st.TotalDays,
		DoubleCountedDays:  st.DoubleCountedDays,
	}
	if st.CurrentTrip != nil {
		t := tripToResponse(*st.CurrentTrip)
		resp.CurrentTrip = &t
	}
	if st.Reset.Found {
		resp.Reset.Date = &openapi_types.Date{Time: st.Reset.Date}
	}
	return resp
}

// queryDate parses the named query parameter as a calendar date, returning
// fallback when it is absent. Malformed values return *domain.ParseError.
func queryDate(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Day(fallback), nil
	}
	return domain.ParseDate(raw)
}
