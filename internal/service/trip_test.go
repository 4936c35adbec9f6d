package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/repo"
	"github.com/pkordes/schengen-tracker/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context) ([]domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
	deleteAll func(ctx context.Context) (int64, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) DeleteAll(ctx context.Context) (int64, error) {
	return m.deleteAll(ctx)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tripFixture(name string, start, end time.Time) domain.Trip {
	return domain.Trip{ID: uuid.New(), Name: name, StartDate: start, EndDate: end}.Normalize()
}

func validTrip() domain.Trip {
	return domain.Trip{
		Name:      "Summer Tour",
		StartDate: date(2025, time.June, 1),
		EndDate:   date(2025, time.June, 15),
	}
}

// echoRepo returns a repo that holds existing as its stored trips and echoes
// whatever Create/Update receive.
func echoRepo(existing ...domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		list:   func(_ context.Context) ([]domain.Trip, error) { return existing, nil },
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			for _, t := range existing {
				if t.ID == id {
					return t, nil
				}
			}
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Summer Tour", got.Name)
	assert.Equal(t, 15, got.Days)
}

func TestTripService_Create_NormalizesInput(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.Name = "  Lisbon  "
	trip.Icon = " 🇵🇹 "
	trip.StartDate = time.Date(2025, 6, 1, 17, 45, 0, 0, time.UTC)
	trip.Days = 999 // stale client value must be ignored

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, "Lisbon", got.Name)
	assert.Equal(t, "🇵🇹", got.Icon)
	assert.Equal(t, date(2025, time.June, 1), got.StartDate)
	assert.Equal(t, 15, got.Days)
}

func TestTripService_Create_NameIsOptional(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.Name = "   "

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Empty(t, got.Name)
}

func TestTripService_Create_ValidationErrors(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name   string
		mutate func(*domain.Trip)
	}{
		{"missing start", func(tr *domain.Trip) { tr.StartDate = time.Time{} }},
		{"missing end", func(tr *domain.Trip) { tr.EndDate = time.Time{} }},
		{"end before start", func(tr *domain.Trip) { tr.EndDate = tr.StartDate.AddDate(0, 0, -1) }},
		{"name too long", func(tr *domain.Trip) { tr.Name = string(long) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewTripService(echoRepo())
			trip := validTrip()
			tc.mutate(&trip)

			_, err := svc.Create(context.Background(), trip)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTripService_Create_OneDayTrip(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate

	got, err := svc.Create(context.Background(), trip)

	require.NoError(t, err)
	assert.Equal(t, 1, got.Days)
}

func TestTripService_Create_Overlap(t *testing.T) {
	existing := tripFixture("Rome", date(2025, time.May, 20), date(2025, time.June, 1))
	svc := service.NewTripService(echoRepo(existing))

	_, err := svc.Create(context.Background(), validTrip())

	require.ErrorIs(t, err, domain.ErrOverlap)
	assert.Contains(t, err.Error(), "Rome (2025-05-20 to 2025-06-01)")
}

func TestTripService_Create_AdjacentIsNotOverlap(t *testing.T) {
	existing := tripFixture("Rome", date(2025, time.May, 20), date(2025, time.May, 31))
	svc := service.NewTripService(echoRepo(existing))

	_, err := svc.Create(context.Background(), validTrip())

	assert.NoError(t, err)
}

func TestTripService_Create_RuleEnforcement(t *testing.T) {
	// 80 days Jan 1 - Mar 20; a 15-day trip from Apr 1 breaks the limit on Apr 11.
	existing := tripFixture("Winter", date(2024, time.January, 1), date(2024, time.March, 20))
	trip := domain.Trip{StartDate: date(2024, time.April, 1), EndDate: date(2024, time.April, 15)}

	t.Run("off by default", func(t *testing.T) {
		svc := service.NewTripService(echoRepo(existing))
		_, err := svc.Create(context.Background(), trip)
		assert.NoError(t, err)
	})

	t.Run("on", func(t *testing.T) {
		svc := service.NewTripService(echoRepo(existing), service.WithRuleEnforcement(true))
		_, err := svc.Create(context.Background(), trip)
		require.ErrorIs(t, err, domain.ErrRuleViolation)
		assert.Contains(t, err.Error(), "2024-04-11")
	})

	t.Run("on, within allowance", func(t *testing.T) {
		svc := service.NewTripService(echoRepo(existing), service.WithRuleEnforcement(true))
		short := domain.Trip{StartDate: date(2024, time.April, 1), EndDate: date(2024, time.April, 10)}
		_, err := svc.Create(context.Background(), short)
		assert.NoError(t, err)
	})
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db is down")
	r := echoRepo()
	r.create = func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
		return domain.Trip{}, repoErr
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), validTrip())

	assert.ErrorIs(t, err, repoErr)
}

func TestTripService_Create_ListError(t *testing.T) {
	repoErr := errors.New("db is down")
	r := echoRepo()
	r.list = func(_ context.Context) ([]domain.Trip, error) { return nil, repoErr }
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), validTrip())

	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID / List tests --------------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	want := tripFixture("Alps", date(2025, time.June, 1), date(2025, time.June, 3))
	svc := service.NewTripService(echoRepo(want))

	got, err := svc.GetByID(context.Background(), want.ID)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_List_Empty(t *testing.T) {
	// A nil slice from the repo must come back as an empty, non-nil slice.
	svc := service.NewTripService(echoRepo())

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_ListPaged(t *testing.T) {
	var gotParams domain.PaginationParams
	r := &mockTripRepo{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			gotParams = p
			return nil, 42, nil
		},
	}
	svc := service.NewTripService(r)

	page, limit := 3, 10
	trips, total, err := svc.ListPaged(context.Background(), domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Equal(t, int64(42), total)
	assert.Equal(t, 20, gotParams.Offset())
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_ExcludesItself(t *testing.T) {
	// Extending a trip overlaps its own stored range, which must not count.
	stored := tripFixture("Alps", date(2025, time.June, 1), date(2025, time.June, 10))
	svc := service.NewTripService(echoRepo(stored))

	edit := stored
	edit.EndDate = date(2025, time.June, 20)
	got, err := svc.Update(context.Background(), edit)

	require.NoError(t, err)
	assert.Equal(t, 20, got.Days)
}

func TestTripService_Update_OverlapWithOther(t *testing.T) {
	stored := tripFixture("Alps", date(2025, time.June, 1), date(2025, time.June, 10))
	other := tripFixture("Coast", date(2025, time.June, 15), date(2025, time.June, 25))
	svc := service.NewTripService(echoRepo(stored, other))

	edit := stored
	edit.EndDate = date(2025, time.June, 15)
	_, err := svc.Update(context.Background(), edit)

	assert.ErrorIs(t, err, domain.ErrOverlap)
}

func TestTripService_Update_NotFound(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.ID = uuid.New()
	_, err := svc.Update(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Update_EndDateBeforeStartDate(t *testing.T) {
	stored := tripFixture("Alps", date(2025, time.June, 1), date(2025, time.June, 10))
	svc := service.NewTripService(echoRepo(stored))

	edit := stored
	edit.EndDate = date(2025, time.May, 1)
	_, err := svc.Update(context.Background(), edit)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete / Clear / Import tests -----------------------------------------

func TestTripService_Delete_OK(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	})

	assert.NoError(t, svc.Delete(context.Background(), uuid.New()))
}

func TestTripService_Delete_NotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Clear(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		deleteAll: func(_ context.Context) (int64, error) { return 3, nil },
	})

	n, err := svc.Clear(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestTripService_Import(t *testing.T) {
	var stored []domain.Trip
	r := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) { return stored, nil },
		create: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			tr.ID = uuid.New()
			stored = append(stored, tr)
			return tr, nil
		},
	}
	svc := service.NewTripService(r)

	n, err := svc.Import(context.Background(), []domain.Trip{
		{StartDate: date(2024, time.January, 1), EndDate: date(2024, time.January, 10)},
		{StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 5)},
		{StartDate: date(2024, time.March, 5), EndDate: date(2024, time.March, 8)}, // overlaps the second
		{StartDate: date(2024, time.May, 1), EndDate: date(2024, time.May, 2)},
	})

	require.ErrorIs(t, err, domain.ErrOverlap)
	assert.Contains(t, err.Error(), "trip 3")
	assert.Equal(t, 2, n)
	assert.Len(t, stored, 2)
}
