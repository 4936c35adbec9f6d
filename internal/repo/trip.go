// Package repo contains all trip storage logic.
// Each backend has its own file: Postgres via pgx for the API server, and
// SQLite via database/sql for the CLI's local store. No business logic lives
// here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not on a concrete backend.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with id,
	// created_at, and updated_at populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns every trip ordered by start_date, then created_at, ascending.
	// This is the snapshot order the compliance engine sees.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips in List order plus the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every trip and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

const pgTripColumns = `id, name, icon, start_date, end_date, days, created_at, updated_at`

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres-backed TripRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, icon, start_date, end_date, days)
		VALUES (@name, @icon, @start_date, @end_date, @days)
		RETURNING ` + pgTripColumns

	trip = trip.Normalize()
	args := pgx.NamedArgs{
		"name":       trip.Name,
		"icon":       trip.Icon,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"days":       trip.Days,
	}

	result, err := scanPgTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + pgTripColumns + ` FROM trips WHERE id = @id`

	result, err := scanPgTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + pgTripColumns + ` FROM trips ORDER BY start_date, created_at`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	trips, err := collectPgTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips`
	const q = `
		SELECT ` + pgTripColumns + `
		FROM trips
		ORDER BY start_date, created_at
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	trips, err := collectPgTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name       = @name,
		    icon       = @icon,
		    start_date = @start_date,
		    end_date   = @end_date,
		    days       = @days,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + pgTripColumns

	trip = trip.Normalize()
	args := pgx.NamedArgs{
		"id":         trip.ID,
		"name":       trip.Name,
		"icon":       trip.Icon,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"days":       trip.Days,
	}

	result, err := scanPgTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips`)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.DeleteAll: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func collectPgTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanPgTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanPgTrip maps a single row into a domain.Trip, converting the UUID and
// DATE columns.
func scanPgTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		start pgtype.Date
		end   pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &t.Icon, &start, &end, &t.Days, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = domain.Day(start.Time)
	t.EndDate = domain.Day(end.Time)
	return t, nil
}
