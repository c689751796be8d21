package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-engine/api"
	"go.opentelemetry.io/otel/trace"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestLogger stores a logger tagged with the request's identifiers in the
// request context.
func (app *Application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attrs := []any{
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		}

		if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}

		ctx := context.WithValue(r.Context(), loggerContextKey, app.logger.With(attrs...))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

// ensureGuestUserSession gives every session a holder identity. Holds and
// orders belong to the holder, not to the cookie.
func (app *Application) ensureGuestUserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holderID := app.sessionManager.GetString(r.Context(), SessionKeyHolderID.String())

		if holderID == "" {
			holderID = uuid.NewString()
			app.sessionManager.Put(r.Context(), SessionKeyHolderID.String(), holderID)

			app.contextGetLogger(r).Debug("guest session created", "holder_id", holderID)
		}

		ctx := context.WithValue(r.Context(), SessionKeyHolderID, holderID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestRouter() (routers.Router, error) {
	swagger, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}

	// match on path only, whichever host serves the API
	swagger.Servers = nil

	return legacy.NewRouter(swagger)
}

// validateRequest rejects requests whose parameters or body do not match the
// OpenAPI contract. Unknown routes fall through to the router.
func (app *Application) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := app.requestRouter.FindRoute(r)
		if err != nil {
			if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
				app.contextGetLogger(r).Warn("openapi route lookup failed", "error", err)
			}

			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		err = openapi3filter.ValidateRequest(r.Context(), input)
		if err != nil {
			var reqErr *openapi3filter.RequestError
			if errors.As(err, &reqErr) {
				app.badRequestResponse(w, r, reqErr)
				return
			}

			app.serverErrorResponse(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
