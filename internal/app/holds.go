package app

import (
	"net/http"

	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

func (app *Application) CreateHold(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateHoldRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	holderID := app.contextGetHolderID(r)

	hold, err := app.reservations.TryHold(r.Context(), input.ShowtimeId, input.SeatId, holderID)
	if err != nil {
		if domain.IsConflict(err) {
			logger.Info("hold rejected", "showtime_id", input.ShowtimeId, "seat_id", input.SeatId, "reason", err)
		}

		app.reservationErrorResponse(w, r, err, "showtime_id", input.ShowtimeId, "seat_id", input.SeatId)
		return
	}

	logger.Info("hold granted", "hold_id", hold.ID, "showtime_id", hold.ShowtimeID, "seat_id", hold.SeatID)

	err = app.writeJSON(w, http.StatusCreated, app.toApiHold(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetHold(w http.ResponseWriter, r *http.Request, holdId string) {
	hold, err := app.reservations.GetHold(r.Context(), holdId, app.contextGetHolderID(r))
	if err != nil {
		app.reservationErrorResponse(w, r, err, "hold_id", holdId)
		return
	}

	err = app.writeJSON(w, http.StatusOK, app.toApiHold(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHold(w http.ResponseWriter, r *http.Request, holdId string) {
	err := app.reservations.Release(r.Context(), holdId, app.contextGetHolderID(r))
	if err != nil {
		app.reservationErrorResponse(w, r, err, "hold_id", holdId)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) RenewHold(w http.ResponseWriter, r *http.Request, holdId string) {
	hold, err := app.reservations.Renew(r.Context(), holdId, app.contextGetHolderID(r))
	if err != nil {
		app.reservationErrorResponse(w, r, err, "hold_id", holdId)
		return
	}

	err = app.writeJSON(w, http.StatusOK, app.toApiHold(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) toApiHold(hold *domain.Hold) api.HoldResponse {
	return api.HoldResponse{
		HoldId:     hold.ID,
		ShowtimeId: hold.ShowtimeID,
		SeatId:     hold.SeatID,
		CreatedAt:  hold.CreatedAt,
		ExpiresAt:  hold.ExpiresAt,
		TtlSeconds: int(app.reservations.HoldTTL().Seconds()),
	}
}
