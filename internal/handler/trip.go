package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

const tripNotFound = "trip not found"

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip, err := requestToTrip(uuid.Nil, body)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      int(total),
			TotalPages: params.TotalPages(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	trip, err := requestToTrip(id, body)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a request body into a domain.Trip, keeping id.
// Missing dates are left zero for the service to reject; malformed ones
// return a *domain.ParseError.
func requestToTrip(id uuid.UUID, body TripRequest) (domain.Trip, error) {
	t := domain.Trip{ID: id, Name: body.Name, Icon: body.Icon}
	if body.StartDate != "" {
		d, err := domain.ParseDate(body.StartDate)
		if err != nil {
			return domain.Trip{}, err
		}
		t.StartDate = d
	}
	if body.EndDate != "" {
		d, err := domain.ParseDate(body.EndDate)
		if err != nil {
			return domain.Trip{}, err
		}
		t.EndDate = d
	}
	return t, nil
}

// tripToResponse converts a domain.Trip into its API representation.
func tripToResponse(t domain.Trip) Trip {
	resp := Trip{
		Id:        t.ID,
		StartDate: openapi_types.Date{Time: t.StartDate},
		EndDate:   openapi_types.Date{Time: t.EndDate},
		Days:      t.Days,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Name != "" {
		resp.Name = &t.Name
	}
	if t.Icon != "" {
		resp.Icon = &t.Icon
	}
	return resp
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns the named query parameter as an int, or nil when absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &queryError{name: name}
	}
	return &n, nil
}

type queryError struct{ name string }

func (e *queryError) Error() string { return e.name + " must be an integer" }
