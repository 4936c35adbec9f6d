// Package handler implements the HTTP handlers for the stay tracker API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, compliance.go, export.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
	"github.com/pkordes/schengen-tracker/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ComplianceServicer answers the 90/180 questions.
type ComplianceServicer interface {
	Today() time.Time
	Status(ctx context.Context, date time.Time) (schengen.Status, error)
	Window(ctx context.Context, date time.Time) (service.WindowUsage, error)
	ResetDate(ctx context.Context, date time.Time) (time.Time, bool, error)
	Timeline(ctx context.Context, from, to time.Time) ([]schengen.DayStatus, error)
	ValidateTrip(ctx context.Context, start, end time.Time, exclude uuid.UUID) (service.Validation, error)
}

// ExportServicer produces the flat export rows.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	trips      TripServicer
	compliance ComplianceServicer
	export     ExportServicer
	log        *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, compliance ComplianceServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, compliance: compliance, export: export, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a router with every endpoint registered. Mount it under "/"
// after the cross-cutting middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Post("/validate", s.ValidateTrip)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Get("/status", s.GetStatus)
	r.Get("/window", s.GetWindow)
	r.Get("/reset", s.GetReset)
	r.Get("/timeline", s.GetTimeline)
	r.Get("/export", s.GetExport)

	return r
}
