package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// The types below mirror the schemas in api/openapi.yaml. Request bodies
// carry dates as strings so malformed values surface as invalid_date rather
// than a generic decode failure; responses use the openapi runtime types.

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorDetail is the machine-readable part of every error body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail under an "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// TripRequest is the body of POST /trips and PUT /trips/{id}.
type TripRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Trip is the API representation of a stored trip.
type Trip struct {
	Id        openapi_types.UUID `json:"id"`
	Name      *string            `json:"name,omitempty"`
	Icon      *string            `json:"icon,omitempty"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	Days      int                `json:"days"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Pagination describes the slice of a collection returned by a list call.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ResetInfo reports the outcome of the reset search. Date is set only when
// Found is true.
type ResetInfo struct {
	Needed bool                `json:"needed"`
	Found  bool                `json:"found"`
	Date   *openapi_types.Date `json:"date,omitempty"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Date               openapi_types.Date `json:"date"`
	DaysUsed           int                `json:"days_used"`
	Remaining          int                `json:"remaining"`
	Overstay           bool               `json:"overstay"`
	CurrentTrip        *Trip              `json:"current_trip,omitempty"`
	RemainingAfterTrip *int               `json:"remaining_after_trip,omitempty"`
	Reset              ResetInfo          `json:"reset"`
	TotalTrips         int                `json:"total_trips"`
	TotalDays          int                `json:"total_days"`
	DoubleCountedDays  int                `json:"double_counted_days"`
}

// WindowResponse is the body of GET /window.
type WindowResponse struct {
	Date         openapi_types.Date `json:"date"`
	WindowStart  openapi_types.Date `json:"window_start"`
	WindowEnd    openapi_types.Date `json:"window_end"`
	DaysUsed     int                `json:"days_used"`
	DistinctDays int                `json:"distinct_days"`
	Remaining    int                `json:"remaining"`
}

// ResetResponse is the body of GET /reset.
type ResetResponse struct {
	From  openapi_types.Date  `json:"from"`
	Found bool                `json:"found"`
	Date  *openapi_types.Date `json:"date,omitempty"`
}

// TimelineDay is one entry of GET /timeline.
type TimelineDay struct {
	Date      openapi_types.Date  `json:"date"`
	DaysUsed  int                 `json:"days_used"`
	Remaining int                 `json:"remaining"`
	TripId    *openapi_types.UUID `json:"trip_id,omitempty"`
}

// ValidateRequest is the body of POST /trips/validate.
type ValidateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	ExcludeId string `json:"exclude_id,omitempty"`
}

// ValidateResponse is the body returned by POST /trips/validate.
type ValidateResponse struct {
	Valid          bool                `json:"valid"`
	FirstViolation *openapi_types.Date `json:"first_violation,omitempty"`
	Conflict       *Trip               `json:"conflict,omitempty"`
}

// ExportRow is one element of GET /export?format=json.
type ExportRow struct {
	TripId         openapi_types.UUID `json:"trip_id"`
	TripName       *string            `json:"trip_name,omitempty"`
	TripIcon       *string            `json:"trip_icon,omitempty"`
	StartDate      openapi_types.Date `json:"start_date"`
	EndDate        openapi_types.Date `json:"end_date"`
	Days           int                `json:"days"`
	DaysUsedAtEnd  int                `json:"days_used_at_end"`
	RemainingAfter int                `json:"remaining_after"`
	Overstay       bool               `json:"overstay"`
}
