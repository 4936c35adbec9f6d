package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/handler"
	"github.com/pkordes/schengen-tracker/internal/schengen"
	"github.com/pkordes/schengen-tracker/internal/service"
)

// mockComplianceServicer is a test double for handler.ComplianceServicer.
type mockComplianceServicer struct {
	today        time.Time
	status       func(ctx context.Context, date time.Time) (schengen.Status, error)
	window       func(ctx context.Context, date time.Time) (service.WindowUsage, error)
	resetDate    func(ctx context.Context, date time.Time) (time.Time, bool, error)
	timeline     func(ctx context.Context, from, to time.Time) ([]schengen.DayStatus, error)
	validateTrip func(ctx context.Context, start, end time.Time, exclude uuid.UUID) (service.Validation, error)
}

func (m *mockComplianceServicer) Today() time.Time { return m.today }
func (m *mockComplianceServicer) Status(ctx context.Context, date time.Time) (schengen.Status, error) {
	return m.status(ctx, date)
}
func (m *mockComplianceServicer) Window(ctx context.Context, date time.Time) (service.WindowUsage, error) {
	return m.window(ctx, date)
}
func (m *mockComplianceServicer) ResetDate(ctx context.Context, date time.Time) (time.Time, bool, error) {
	return m.resetDate(ctx, date)
}
func (m *mockComplianceServicer) Timeline(ctx context.Context, from, to time.Time) ([]schengen.DayStatus, error) {
	return m.timeline(ctx, from, to)
}
func (m *mockComplianceServicer) ValidateTrip(ctx context.Context, start, end time.Time, exclude uuid.UUID) (service.Validation, error) {
	return m.validateTrip(ctx, start, end, exclude)
}

// compile-time check: mockComplianceServicer must satisfy handler.ComplianceServicer.
var _ handler.ComplianceServicer = (*mockComplianceServicer)(nil)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newComplianceHTTPHandler(svc handler.ComplianceServicer) http.Handler {
	return handler.NewServer(nil, svc, nil, nil).Routes()
}

func TestGetStatus_DefaultsToToday(t *testing.T) {
	var gotDate time.Time
	trip := tripFixture()
	after := -3
	svc := &mockComplianceServicer{
		today: day(2025, time.June, 10),
		status: func(_ context.Context, date time.Time) (schengen.Status, error) {
			gotDate = date
			return schengen.Status{
				Date: date, DaysUsed: 92, Remaining: -2,
				CurrentTrip: &trip, RemainingAfterTrip: &after,
				Reset:      schengen.Reset{Needed: true, Found: true, Date: day(2025, time.July, 1)},
				TotalTrips: 4, TotalDays: 120,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, day(2025, time.June, 10), gotDate)

	var body handler.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Overstay)
	assert.Equal(t, -2, body.Remaining)
	require.NotNil(t, body.CurrentTrip)
	assert.Equal(t, trip.ID, body.CurrentTrip.Id)
	require.NotNil(t, body.RemainingAfterTrip)
	assert.Equal(t, -3, *body.RemainingAfterTrip)
	require.NotNil(t, body.Reset.Date)
	assert.Equal(t, "2025-07-01", body.Reset.Date.Format("2006-01-02"))
	assert.Equal(t, 4, body.TotalTrips)
}

func TestGetStatus_InvalidDate_Returns400(t *testing.T) {
	svc := &mockComplianceServicer{today: day(2025, time.June, 10)}

	req := httptest.NewRequest(http.MethodGet, "/status?date=10/06/2025", nil)
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_date", decodeError(t, rec).Code)
}

func TestGetWindow(t *testing.T) {
	svc := &mockComplianceServicer{
		window: func(_ context.Context, date time.Time) (service.WindowUsage, error) {
			return service.WindowUsage{
				Window:   schengen.Window(date),
				DaysUsed: 20, DistinctDays: 15, Remaining: 70,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/window?date=2024-07-10", nil)
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"date":"2024-07-10","window_start":"2024-01-13","window_end":"2024-07-10",
		"days_used":20,"distinct_days":15,"remaining":70
	}`, rec.Body.String())
}

func TestGetReset(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockComplianceServicer{
			resetDate: func(_ context.Context, _ time.Time) (time.Time, bool, error) {
				return day(2024, time.July, 10), true, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/reset?date=2024-04-01", nil)
		rec := httptest.NewRecorder()
		newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"from":"2024-04-01","found":true,"date":"2024-07-10"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockComplianceServicer{
			resetDate: func(_ context.Context, _ time.Time) (time.Time, bool, error) {
				return time.Time{}, false, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/reset?date=2024-04-01", nil)
		rec := httptest.NewRecorder()
		newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"from":"2024-04-01","found":false}`, rec.Body.String())
	})
}

func TestGetTimeline(t *testing.T) {
	trip := tripFixture()
	var gotFrom, gotTo time.Time
	svc := &mockComplianceServicer{
		timeline: func(_ context.Context, from, to time.Time) ([]schengen.DayStatus, error) {
			gotFrom, gotTo = from, to
			return []schengen.DayStatus{
				{Date: from, DaysUsed: 1, Remaining: 89, Trip: &trip},
				{Date: to, DaysUsed: 1, Remaining: 89},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/timeline?from=2025-06-15&to=2025-06-16", nil)
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, day(2025, time.June, 15), gotFrom)
	assert.Equal(t, day(2025, time.June, 16), gotTo)

	var body []handler.TimelineDay
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 2)
	require.NotNil(t, body[0].TripId)
	assert.Equal(t, trip.ID, *body[0].TripId)
	assert.Nil(t, body[1].TripId)
}

func TestGetTimeline_TooLong_Returns422(t *testing.T) {
	svc := &mockComplianceServicer{
		timeline: func(_ context.Context, _, _ time.Time) ([]schengen.DayStatus, error) {
			return nil, domain.ErrValidation
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/timeline?from=2024-01-01&to=2026-01-01", nil)
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestValidateTrip(t *testing.T) {
	conflict := tripFixture()
	exclude := uuid.New()
	var gotExclude uuid.UUID
	svc := &mockComplianceServicer{
		validateTrip: func(_ context.Context, start, end time.Time, ex uuid.UUID) (service.Validation, error) {
			gotExclude = ex
			first := day(2025, time.June, 11)
			return service.Validation{Valid: false, FirstViolation: &first, Conflict: &conflict}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips/validate", strings.NewReader(
		`{"start_date":"2025-06-01","end_date":"2025-06-20","exclude_id":"`+exclude.String()+`"}`))
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exclude, gotExclude)

	var body handler.ValidateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Valid)
	require.NotNil(t, body.FirstViolation)
	assert.Equal(t, "2025-06-11", body.FirstViolation.Format("2006-01-02"))
	require.NotNil(t, body.Conflict)
	assert.Equal(t, conflict.ID, body.Conflict.Id)
}

func TestValidateTrip_MissingDates_Returns422(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/trips/validate", strings.NewReader(`{"start_date":"2025-06-01"}`))
	rec := httptest.NewRecorder()
	newComplianceHTTPHandler(&mockComplianceServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}
