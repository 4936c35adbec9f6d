package service

import (
	"context"
	"fmt"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
)

// ExportService assembles a flat export of every trip with its usage figures.
type ExportService struct {
	trips TripLister
}

// NewExportService constructs an ExportService backed by the provided lister.
func NewExportService(trips TripLister) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per trip in start-date order.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	// While a trip runs it adds one day to the window for every day that can
	// leave it, so usage never falls before the trip ends. Its last day is
	// therefore its peak and decides the overstay flag.
	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		used := schengen.DaysUsedInWindow(t.EndDate, trips)
		rows = append(rows, domain.ExportRow{
			TripID:         t.ID.String(),
			TripName:       t.Name,
			TripIcon:       t.Icon,
			StartDate:      domain.FormatDate(t.StartDate),
			EndDate:        domain.FormatDate(t.EndDate),
			Days:           domain.DaysBetween(t.StartDate, t.EndDate),
			DaysUsedAtEnd:  used,
			RemainingAfter: schengen.RemainingDays(domain.AddDays(t.EndDate, 1), trips),
			Overstay:       used > schengen.MaxStayDays,
		})
	}
	return rows, nil
}
