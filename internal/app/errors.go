package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	appvalidator "github.com/metinatakli/seat-reservation-engine/internal/validator"
)

const (
	msgSeatUnavailable  = "seat no longer available"
	msgForbidden        = "The resource belongs to another session"
	msgPaymentDeclined  = "Payment was declined, please use another payment method"
	msgUpstreamFailure  = "A backing service is temporarily unavailable, please try again"
	msgValidationFailed = "Validation failed"
	msgServerError      = "The server encountered a problem and could not process your request"
	msgResourceNotFound = "The requested resource not found"
	msgMethodNotAllowed = "The method is not supported for this resource"
)

var notFoundErrors = []error{
	domain.ErrRoomNotFound,
	domain.ErrShowtimeNotFound,
	domain.ErrSeatNotFound,
	domain.ErrHoldNotFound,
	domain.ErrOrderNotFound,
	domain.ErrProductNotFound,
}

func (app *Application) logError(r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error())
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, msgServerError)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, msgResourceNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          msgValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrors)),
	}

	for _, fieldErr := range validationErrors {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// reservationErrorResponse maps engine and checkout errors to responses.
// logArgs are added to the warning logged for ownership violations.
func (app *Application) reservationErrorResponse(w http.ResponseWriter, r *http.Request, err error, logArgs ...any) {
	logger := app.contextGetLogger(r)

	switch {
	case errors.Is(err, domain.ErrNotOwner):
		logger.Warn("access to another session's resource rejected",
			append([]any{"holder_id", app.contextGetHolderID(r)}, logArgs...)...)
		app.errorResponse(w, r, http.StatusForbidden, msgForbidden)

	case errors.Is(err, domain.ErrExpired):
		app.editConflictResponseWithErr(w, r, domain.ErrExpired)

	case domain.IsConflict(err):
		app.errorResponse(w, r, http.StatusConflict, msgSeatUnavailable)

	case errors.Is(err, domain.ErrOrderCancelled):
		app.editConflictResponseWithErr(w, r, domain.ErrOrderCancelled)

	case errors.Is(err, domain.ErrPaymentDeclined):
		app.errorResponse(w, r, http.StatusPaymentRequired, msgPaymentDeclined)

	case errors.Is(err, domain.ErrUpstreamFailure):
		logger.Error("upstream dependency failed", append([]any{"error", err}, logArgs...)...)
		app.errorResponse(w, r, http.StatusServiceUnavailable, msgUpstreamFailure)

	case domain.IsNotFound(err):
		app.errorResponse(w, r, http.StatusNotFound, notFoundMessage(err))

	default:
		app.serverErrorResponse(w, r, err)
	}
}

// notFoundMessage strips the wrapping context from a lookup failure.
func notFoundMessage(err error) string {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return msgResourceNotFound
}
