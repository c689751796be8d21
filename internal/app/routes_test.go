package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoutes_Health(t *testing.T) {
	app := newTestApplication()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	app.Routes().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.HealthcheckResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "UP", resp.Status)
	assert.Equal(t, "test", resp.SystemInfo.Environment)
	assert.NotEmpty(t, resp.SystemInfo.Version)
}

func TestRoutes_UnknownRoute(t *testing.T) {
	app := newTestApplication()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/movies", nil)

	app.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, msgResourceNotFound, resp.Message)
	assert.NotEmpty(t, resp.RequestId)
}

func TestRoutes_RejectsRequestsOutsideContract(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
		body   string
	}{
		{
			name:   "non numeric room ID",
			method: http.MethodGet,
			url:    "/rooms/abc/seats",
		},
		{
			name:   "hold body with wrong types",
			method: http.MethodPost,
			url:    "/holds",
			body:   `{"showtimeId":"one","seatId":1}`,
		},
		{
			name:   "hold body without seat",
			method: http.MethodPost,
			url:    "/holds",
			body:   `{"showtimeId":1}`,
		},
		{
			name:   "order body without payment token",
			method: http.MethodPost,
			url:    "/orders",
			body:   `{"holdIds":["0b7e52f4-3f1c-4d5c-8f57-7d3b5f0c0a01"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservations := &mocks.MockReservationService{TTL: testHoldTTL}
			app := newTestApplication(func(a *Application) {
				a.reservations = reservations
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			app.Routes().ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			reservations.AssertNotCalled(t, "TryHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRoutes_SessionCarriesHolderIdentity(t *testing.T) {
	reservations := &mocks.MockReservationService{TTL: testHoldTTL}

	var holders []string
	reservations.On("TryHold", mock.Anything, testShowtimeID, testSeatID, mock.Anything).
		Run(func(args mock.Arguments) {
			holders = append(holders, args.String(3))
		}).
		Return(newTestHold(), nil)

	app := newTestApplication(func(a *Application) {
		a.reservations = reservations
	})
	handler := app.Routes()

	createHold := func(cookies ...*http.Cookie) *httptest.ResponseRecorder {
		body, err := json.Marshal(api.CreateHoldRequest{ShowtimeId: testShowtimeID, SeatId: testSeatID})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodPost, "/holds", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			r.AddCookie(c)
		}

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusCreated, w.Code)

		return w
	}

	first := createHold()

	var sessionCookie *http.Cookie
	for _, c := range first.Result().Cookies() {
		if c.Name == app.sessionManager.Cookie.Name {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "guest session cookie not issued")

	createHold(sessionCookie)
	createHold()

	require.Len(t, holders, 3)
	assert.NoError(t, uuid.Validate(holders[0]))
	assert.Equal(t, holders[0], holders[1], "same session must keep its holder")
	assert.NotEqual(t, holders[0], holders[2], "new session must get a new holder")
}

func TestRoutes_NotOwnerIsForbidden(t *testing.T) {
	reservations := &mocks.MockReservationService{TTL: testHoldTTL}
	reservations.On("Release", mock.Anything, testHoldID, mock.Anything).Return(domain.ErrNotOwner)

	app := newTestApplication(func(a *Application) {
		a.reservations = reservations
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/holds/"+testHoldID, nil)

	app.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	reservations.AssertExpectations(t)
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication()

	handler := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, msgServerError, resp.Message)
}
