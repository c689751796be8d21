package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	swagger, err := api.GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))

	assert.Equal(t, "Seat Reservation API", swagger.Info.Title)
}

// Every operation of the embedded document must be routed by the generated
// server, and nothing else.
func TestRoutesMatchSpec(t *testing.T) {
	swagger, err := api.GetSwagger()
	require.NoError(t, err)

	want := make(map[string]bool)
	for path, item := range swagger.Paths.Map() {
		for method := range item.Operations() {
			want[method+" "+path] = true
		}
	}

	router, ok := api.HandlerWithOptions(api.Unimplemented{}, api.ChiServerOptions{}).(chi.Routes)
	require.True(t, ok)

	got := make(map[string]bool)
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestPathParameterBinding(t *testing.T) {
	var bindErr error

	handler := api.HandlerWithOptions(api.Unimplemented{}, api.ChiServerOptions{
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			bindErr = err
			w.WriteHeader(http.StatusBadRequest)
		},
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rooms/abc/seats", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var paramErr *api.InvalidParamFormatError
	require.True(t, errors.As(bindErr, &paramErr))
	assert.Equal(t, "roomId", paramErr.ParamName)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rooms/1/seats", nil))

	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}
