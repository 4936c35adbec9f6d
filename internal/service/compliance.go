package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
)

// maxTimelineDays bounds a single timeline request to roughly a year.
const maxTimelineDays = 366

// TripLister is the read-only view of the trip store the compliance and
// export services need. repo.TripRepo satisfies it.
type TripLister interface {
	List(ctx context.Context) ([]domain.Trip, error)
}

// WindowUsage describes the trailing window for one query date.
type WindowUsage struct {
	Window    schengen.Interval
	DaysUsed  int
	Remaining int
	// DistinctDays counts days covered by at least one trip. It is below
	// DaysUsed only when recorded trips overlap.
	DistinctDays int
}

// Validation is the outcome of checking a prospective trip.
type Validation struct {
	// Valid is the allowance verdict from the compliance engine.
	Valid bool
	// FirstViolation is the first day that would exceed the allowance.
	FirstViolation *time.Time
	// Conflict is the first recorded trip the range intersects, if any.
	// A conflict does not change Valid; it is reported so callers can refuse it.
	Conflict *domain.Trip
}

// ComplianceService answers 90/180 questions over a fresh snapshot of the
// stored trips on every call. It holds no state besides its clock.
type ComplianceService struct {
	trips TripLister
	now   func() time.Time
}

// NewComplianceService constructs a ComplianceService. now supplies "today"
// when a caller does not pass a date; nil means time.Now.
func NewComplianceService(trips TripLister, now func() time.Time) *ComplianceService {
	if now == nil {
		now = time.Now
	}
	return &ComplianceService{trips: trips, now: now}
}

// Today returns the service clock's current calendar date.
func (s *ComplianceService) Today() time.Time {
	return domain.Day(s.now())
}

// Status evaluates the traveller's status on date.
func (s *ComplianceService) Status(ctx context.Context, date time.Time) (schengen.Status, error) {
	trips, err := s.snapshot(ctx)
	if err != nil {
		return schengen.Status{}, fmt.Errorf("service.ComplianceService.Status: %w", err)
	}
	return schengen.Evaluate(date, trips), nil
}

// Window reports the usage of the trailing window ending on date.
func (s *ComplianceService) Window(ctx context.Context, date time.Time) (WindowUsage, error) {
	trips, err := s.snapshot(ctx)
	if err != nil {
		return WindowUsage{}, fmt.Errorf("service.ComplianceService.Window: %w", err)
	}
	used := schengen.DaysUsedInWindow(date, trips)
	return WindowUsage{
		Window:       schengen.Window(date),
		DaysUsed:     used,
		Remaining:    schengen.MaxStayDays - used,
		DistinctDays: schengen.DistinctDaysUsedInWindow(date, trips),
	}, nil
}

// ResetDate searches forward from date for the first day with allowance left.
// found is false when nothing turned up within the search horizon.
func (s *ComplianceService) ResetDate(ctx context.Context, date time.Time) (reset time.Time, found bool, err error) {
	trips, err := s.snapshot(ctx)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("service.ComplianceService.ResetDate: %w", err)
	}
	reset, found = schengen.FindResetDate(date, trips)
	return reset, found, nil
}

// Timeline returns the per-day status from from to to inclusive.
// Returns domain.ErrValidation for reversed or over-long ranges.
func (s *ComplianceService) Timeline(ctx context.Context, from, to time.Time) ([]schengen.DayStatus, error) {
	if domain.Day(to).Before(domain.Day(from)) {
		return nil, fmt.Errorf("service.ComplianceService.Timeline: %w: to must not be before from", domain.ErrValidation)
	}
	if n := domain.DaysBetween(from, to); n > maxTimelineDays {
		return nil, fmt.Errorf("service.ComplianceService.Timeline: %w: range of %d days exceeds %d",
			domain.ErrValidation, n, maxTimelineDays)
	}

	trips, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ComplianceService.Timeline: %w", err)
	}
	return schengen.Timeline(from, to, trips), nil
}

// ValidateTrip checks a prospective trip [start, end] against the stored
// trips. exclude removes one stored trip from the snapshot, for re-validating
// an edit; pass uuid.Nil to keep every trip.
func (s *ComplianceService) ValidateTrip(ctx context.Context, start, end time.Time, exclude uuid.UUID) (Validation, error) {
	if domain.Day(end).Before(domain.Day(start)) {
		return Validation{}, fmt.Errorf("service.ComplianceService.ValidateTrip: %w: end_date must not be before start_date", domain.ErrValidation)
	}

	all, err := s.snapshot(ctx)
	if err != nil {
		return Validation{}, fmt.Errorf("service.ComplianceService.ValidateTrip: %w", err)
	}
	trips := withoutTrip(all, exclude)

	v := Validation{Valid: schengen.IsValidTrip(start, end, trips)}
	if !v.Valid {
		if day, ok := schengen.FirstViolation(start, end, trips); ok {
			v.FirstViolation = &day
		}
	}
	if hit, ok := schengen.IntervalIntersectingRange(start, end, trips); ok {
		v.Conflict = &hit
	}
	return v, nil
}

func (s *ComplianceService) snapshot(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, err
	}
	return trips, nil
}
