package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seatrota/internal/bookings/service"
	"seatrota/internal/bookings/validator"
	"seatrota/internal/schedule"
	apperrors "seatrota/pkg/errors"
	httputil "seatrota/pkg/http"
	"seatrota/pkg/logger"
	"seatrota/pkg/middleware"
	"seatrota/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock service for testing
type mockBookingService struct {
	bookSpareFunc  func(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	releaseFunc    func(ctx context.Context, userID string, date time.Time) (*model.Booking, error)
	seatStatusFunc func(ctx context.Context, date time.Time) ([]model.SeatStatus, error)
	myBookingsFunc func(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error)
	nextFunc       func(ctx context.Context, userID string) (*time.Time, error)
	today          time.Time
}

func (m *mockBookingService) BookSpareSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	return m.bookSpareFunc(ctx, userID, date)
}

func (m *mockBookingService) ReleaseSeat(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
	return m.releaseFunc(ctx, userID, date)
}

func (m *mockBookingService) GetSeatStatus(ctx context.Context, date time.Time) ([]model.SeatStatus, error) {
	return m.seatStatusFunc(ctx, date)
}

func (m *mockBookingService) GetBookingsForDate(ctx context.Context, date time.Time) (*service.DateBookings, error) {
	return &service.DateBookings{Date: date.Format(model.DateLayout)}, nil
}

func (m *mockBookingService) GetMyBookings(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error) {
	return m.myBookingsFunc(ctx, userID, filter)
}

func (m *mockBookingService) GetBatchScheduleInfo(date time.Time) schedule.Info {
	return schedule.DescribeDay(date)
}

func (m *mockBookingService) GetNextScheduledDate(ctx context.Context, userID string) (*time.Time, error) {
	return m.nextFunc(ctx, userID)
}

func (m *mockBookingService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return nil, apperrors.NotFound("User")
}

func (m *mockBookingService) Today() time.Time {
	return m.today
}

var caller = &model.User{ID: "u-1", BatchNumber: 1, SquatNumber: 3, Role: model.RoleUser, IsActive: true}

func newRouter(svc service.BookingService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewBookingHandler(svc, validator.NewBookingValidator(log), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string, user *model.User) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBookSpare(t *testing.T) {
	var gotUser string
	var gotDate time.Time
	svc := &mockBookingService{
		bookSpareFunc: func(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
			gotUser, gotDate = userID, date
			return &model.Booking{ID: "b-1", UserID: userID, Date: date, SeatNumber: 41, BookingType: model.BookingTypeSpare, Status: model.StatusActive}, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodPost, "/api/v1/bookings/spare", `{"date":"2026-03-05"}`, caller)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u-1", gotUser)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), gotDate)

	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 41, resp.Data.SeatNumber)
}

func TestBookSpare_BadRequests(t *testing.T) {
	called := false
	svc := &mockBookingService{
		bookSpareFunc: func(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
			called = true
			return nil, nil
		},
	}
	router := newRouter(svc)

	tests := []struct {
		name   string
		body   string
		user   *model.User
		status int
	}{
		{"anonymous", `{"date":"2026-03-05"}`, nil, http.StatusUnauthorized},
		{"missing date", `{}`, caller, http.StatusBadRequest},
		{"malformed date", `{"date":"05/03/2026"}`, caller, http.StatusBadRequest},
		{"impossible date", `{"date":"2026-02-30"}`, caller, http.StatusBadRequest},
		{"unknown field", `{"date":"2026-03-05","seat":41}`, caller, http.StatusBadRequest},
		{"not json", `date=2026-03-05`, caller, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodPost, "/api/v1/bookings/spare", tt.body, tt.user)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.False(t, called, "service must not be reached")
}

func TestBookSpare_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"rule violation", apperrors.RuleViolation("holiday", "Cannot book on a holiday"), http.StatusUnprocessableEntity, apperrors.CodeRuleViolation},
		{"capacity", apperrors.Capacity("All spare seats have been booked"), http.StatusConflict, apperrors.CodeCapacity},
		{"storage", apperrors.Unavailable("Failed to read bookings", errors.New("down")), http.StatusServiceUnavailable, apperrors.CodeUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				bookSpareFunc: func(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			w := serve(newRouter(svc), http.MethodPost, "/api/v1/bookings/spare", `{"date":"2026-03-05"}`, caller)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotContains(t, resp.Error, "boom")
		})
	}
}

func TestBookSpare_RuleNameInDetails(t *testing.T) {
	svc := &mockBookingService{
		bookSpareFunc: func(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
			return nil, apperrors.RuleViolation("scheduled_day", "Batch 1 is scheduled").WithDetails(map[string]any{"batch": 1})
		},
	}
	w := serve(newRouter(svc), http.MethodPost, "/api/v1/bookings/spare", `{"date":"2026-03-02"}`, caller)

	resp := decodeError(t, w)
	assert.Equal(t, "scheduled_day", resp.Details["rule"])
	assert.EqualValues(t, 1, resp.Details["batch"])
}

func TestRelease(t *testing.T) {
	svc := &mockBookingService{
		releaseFunc: func(ctx context.Context, userID string, date time.Time) (*model.Booking, error) {
			if date.Day() == 6 {
				return nil, apperrors.NotFound("Active booking for this date")
			}
			return &model.Booking{ID: "b-1", UserID: userID, Date: date, SeatNumber: 42, Status: model.StatusReleased}, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodPost, "/api/v1/bookings/release", `{"date":"2026-03-05"}`, caller)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"released"`)

	w = serve(router, http.MethodPost, "/api/v1/bookings/release", `{"date":"2026-03-06"}`, caller)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyBookings_ParsesFilter(t *testing.T) {
	var got model.BookingFilter
	svc := &mockBookingService{
		myBookingsFunc: func(ctx context.Context, userID string, filter model.BookingFilter) ([]*model.Booking, error) {
			got = filter
			return []*model.Booking{}, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/bookings/mine?from_date=2026-03-01&status=active", "", caller)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.From)
	assert.Equal(t, "2026-03-01", got.From.Format(model.DateLayout))
	assert.Nil(t, got.To)
	assert.Equal(t, model.StatusActive, got.Status)

	w = serve(router, http.MethodGet, "/api/v1/bookings/mine?to_date=tomorrow", "", caller)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatStatus(t *testing.T) {
	spare := model.BookingTypeSpare
	svc := &mockBookingService{
		seatStatusFunc: func(ctx context.Context, date time.Time) ([]model.SeatStatus, error) {
			return []model.SeatStatus{
				{SeatNumber: 41, Status: model.SeatOccupied, BookingType: &spare},
				{SeatNumber: 42, Status: model.SeatAvailable},
			}, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/bookings/seat-status/2026-03-05", "", caller)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"date":"2026-03-05"`)
	assert.Contains(t, body, `{"seat_number":42,"status":"available","booking_type":null}`)

	w = serve(router, http.MethodGet, "/api/v1/bookings/seat-status/not-a-date", "", caller)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleInfo(t *testing.T) {
	svc := &mockBookingService{today: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)}
	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/schedule/date/2026-03-03", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scheduled_batch":1`)

	w = serve(router, http.MethodGet, "/api/v1/schedule/date/today", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scheduled_batch":null`)
	assert.Contains(t, w.Body.String(), "No batch scheduled for this date")
}

func TestNextScheduledDate(t *testing.T) {
	next := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := &mockBookingService{
		nextFunc: func(ctx context.Context, userID string) (*time.Time, error) {
			return &next, nil
		},
	}

	w := serve(newRouter(svc), http.MethodGet, "/api/v1/schedule/next", "", caller)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"next_date":"2026-03-09"`)
	assert.Contains(t, w.Body.String(), `"batch_number":1`)
}
