package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// OpenSQLite opens (creating if needed) the SQLite database at path with WAL
// journaling. The caller applies migrations and closes the handle.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// sqlDB is the subset of *sql.DB and *sql.Tx the SQLite repo needs.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const sqliteTripColumns = `id, name, icon, start_date, end_date, days, created_at, updated_at`

// sqliteTimeLayout is fixed width so created_at sorts chronologically as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteTripRepo is the SQLite implementation of TripRepo. IDs and
// timestamps are generated here because SQLite has no uuid or now() defaults.
type sqliteTripRepo struct {
	db  sqlDB
	now func() time.Time
}

// NewSQLiteTripRepo constructs a SQLite-backed TripRepo over a migrated database.
func NewSQLiteTripRepo(db sqlDB) TripRepo {
	return &sqliteTripRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *sqliteTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, name, icon, start_date, end_date, days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + sqliteTripColumns

	trip = trip.Normalize()
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	ts := r.now().Format(sqliteTimeLayout)

	row := r.db.QueryRowContext(ctx, q,
		trip.ID.String(), trip.Name, trip.Icon,
		domain.FormatDate(trip.StartDate), domain.FormatDate(trip.EndDate), trip.Days,
		ts, ts,
	)
	result, err := scanSQLiteTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SQLiteTripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + sqliteTripColumns + ` FROM trips WHERE id = ?`

	result, err := scanSQLiteTrip(r.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SQLiteTripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + sqliteTripColumns + ` FROM trips ORDER BY start_date, created_at`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteTripRepo.List: %w", err)
	}
	trips, err := collectSQLiteTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteTripRepo.List: %w", err)
	}
	return trips, nil
}

func (r *sqliteTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + sqliteTripColumns + `
		FROM trips
		ORDER BY start_date, created_at
		LIMIT ? OFFSET ?`

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.SQLiteTripRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SQLiteTripRepo.ListPaged: %w", err)
	}
	trips, err := collectSQLiteTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SQLiteTripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

func (r *sqliteTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name = ?, icon = ?, start_date = ?, end_date = ?, days = ?, updated_at = ?
		WHERE id = ?
		RETURNING ` + sqliteTripColumns

	trip = trip.Normalize()
	row := r.db.QueryRowContext(ctx, q,
		trip.Name, trip.Icon,
		domain.FormatDate(trip.StartDate), domain.FormatDate(trip.EndDate), trip.Days,
		r.now().Format(sqliteTimeLayout),
		trip.ID.String(),
	)
	result, err := scanSQLiteTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SQLiteTripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("repo.SQLiteTripRepo.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repo.SQLiteTripRepo.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("repo.SQLiteTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *sqliteTripRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips`)
	if err != nil {
		return 0, fmt.Errorf("repo.SQLiteTripRepo.DeleteAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repo.SQLiteTripRepo.DeleteAll: %w", err)
	}
	return n, nil
}

func collectSQLiteTrips(rows *sql.Rows) ([]domain.Trip, error) {
	defer func() { _ = rows.Close() }()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanSQLiteTrip(rows)
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

// scanSQLiteTrip maps a row of TEXT columns back into a domain.Trip.
func scanSQLiteTrip(s scanner) (domain.Trip, error) {
	var (
		t                    domain.Trip
		id, start, end       string
		createdAt, updatedAt string
	)

	err := s.Scan(&id, &t.Name, &t.Icon, &start, &end, &t.Days, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.Trip{}, fmt.Errorf("parse id: %w", err)
	}
	if t.StartDate, err = domain.ParseDate(start); err != nil {
		return domain.Trip{}, err
	}
	if t.EndDate, err = domain.ParseDate(end); err != nil {
		return domain.Trip{}, err
	}
	if t.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return domain.Trip{}, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return domain.Trip{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return t, nil
}
