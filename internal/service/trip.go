// Package service contains the business logic for the stay tracker.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, and all rule
// arithmetic is delegated to the schengen engine.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/repo"
	"github.com/pkordes/schengen-tracker/internal/schengen"
)

// maxLabelLen bounds trip names and icons.
const maxLabelLen = 200

// TripService implements business logic for Trip operations.
type TripService struct {
	repo        repo.TripRepo
	enforceRule bool
}

// TripOption configures a TripService.
type TripOption func(*TripService)

// WithRuleEnforcement makes Create and Update reject trips that would take
// any of their days past the 90-day allowance. Off by default so that past
// overstays can still be recorded.
func WithRuleEnforcement(on bool) TripOption {
	return func(s *TripService) { s.enforceRule = on }
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, opts ...TripOption) *TripService {
	s := &TripService{repo: r}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new trip.
// Returns domain.ErrValidation for malformed input, domain.ErrOverlap when the
// range intersects a recorded trip, and domain.ErrRuleViolation when rule
// enforcement is on and the trip would exceed the allowance.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := s.check(ctx, trip, uuid.Nil)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips ordered by start date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip. The trip's own
// stored range is left out of the overlap and allowance checks.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if _, err := s.repo.GetByID(ctx, trip.ID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip, err := s.check(ctx, trip, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	result, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Clear removes every trip and returns how many were removed.
func (s *TripService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.Clear: %w", err)
	}
	return n, nil
}

// Import creates each trip in order, applying the same checks as Create.
// It stops at the first failure and reports how many trips were stored.
func (s *TripService) Import(ctx context.Context, trips []domain.Trip) (int, error) {
	for i, trip := range trips {
		if _, err := s.Create(ctx, trip); err != nil {
			return i, fmt.Errorf("service.TripService.Import: trip %d: %w", i+1, err)
		}
	}
	return len(trips), nil
}

// check normalizes trip and runs the business rules against every stored
// trip except self.
func (s *TripService) check(ctx context.Context, trip domain.Trip, self uuid.UUID) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip = trip.Normalize()

	all, err := s.repo.List(ctx)
	if err != nil {
		return domain.Trip{}, err
	}
	others := withoutTrip(all, self)

	if hit, ok := schengen.IntervalIntersectingRange(trip.StartDate, trip.EndDate, others); ok {
		return domain.Trip{}, fmt.Errorf("%w: %s", domain.ErrOverlap, describeTrip(hit))
	}
	if s.enforceRule {
		if day, ok := schengen.FirstViolation(trip.StartDate, trip.EndDate, others); ok {
			return domain.Trip{}, fmt.Errorf("%w: allowance exceeded on %s",
				domain.ErrRuleViolation, domain.FormatDate(day))
		}
	}
	return trip, nil
}

// validateTrip enforces rules common to Create and Update.
//   - Both dates must be set.
//   - EndDate must not be before StartDate (a one-day trip is valid).
//   - Name and icon are optional but bounded.
func validateTrip(trip domain.Trip) error {
	if trip.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if trip.EndDate.IsZero() {
		return fmt.Errorf("%w: end_date is required", domain.ErrValidation)
	}
	if domain.Day(trip.EndDate).Before(domain.Day(trip.StartDate)) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if len(trip.Name) > maxLabelLen || len(trip.Icon) > maxLabelLen {
		return fmt.Errorf("%w: name and icon must be at most %d bytes", domain.ErrValidation, maxLabelLen)
	}
	return nil
}

// withoutTrip returns a copy of trips minus the one with id. uuid.Nil keeps all.
func withoutTrip(trips []domain.Trip, id uuid.UUID) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if id != uuid.Nil && t.ID == id {
			continue
		}
		out = append(out, t)
	}
	return out
}

func describeTrip(t domain.Trip) string {
	label := t.Name
	if label == "" {
		label = "trip"
	}
	return fmt.Sprintf("%s (%s to %s)", label, domain.FormatDate(t.StartDate), domain.FormatDate(t.EndDate))
}
