package app

import (
	"fmt"
	"net/http"

	"github.com/metinatakli/seat-reservation-engine/api"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

func (app *Application) GetRoomSeats(w http.ResponseWriter, r *http.Request, roomId int) {
	if roomId < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("room ID must be greater than zero"))
		return
	}

	seats, err := app.inventory.GetSeatsForRoom(r.Context(), roomId)
	if err != nil {
		app.reservationErrorResponse(w, r, err)
		return
	}

	resp := api.RoomSeatsResponse{
		RoomId: roomId,
		Seats:  make([]api.Seat, len(seats)),
	}

	for i, seat := range seats {
		resp.Seats[i] = api.Seat{
			Id:         seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			Label:      seat.Label(),
			Category:   api.SeatCategory(seat.Category),
			X:          seat.X,
			Y:          seat.Y,
			ExtraPrice: seat.ExtraPrice,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtimeAvailability(w http.ResponseWriter, r *http.Request, showtimeId int) {
	if showtimeId < 1 {
		app.badRequestResponse(w, r, fmt.Errorf("showtime ID must be greater than zero"))
		return
	}

	availability, err := app.inventory.GetAvailability(r.Context(), showtimeId)
	if err != nil {
		app.reservationErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiAvailability(availability), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiAvailability(a *domain.Availability) api.AvailabilityResponse {
	resp := api.AvailabilityResponse{
		ShowtimeId:     a.Showtime.ID,
		RoomId:         a.Showtime.RoomID,
		MovieTitle:     a.Showtime.MovieTitle,
		StartTime:      a.Showtime.StartTime,
		BasePrice:      a.Showtime.BasePrice,
		AsOf:           a.AsOf,
		MaxStalenessMs: int(a.MaxStaleness.Milliseconds()),
		Summary: api.AvailabilitySummary{
			Open: a.Count(domain.SeatStatusOpen),
			Held: a.Count(domain.SeatStatusHeld),
			Sold: a.Count(domain.SeatStatusSold),
		},
		Seats: make([]api.SeatAvailability, len(a.Seats)),
	}

	for i, s := range a.Seats {
		resp.Seats[i] = api.SeatAvailability{
			SeatId:   s.Seat.ID,
			Row:      s.Seat.Row,
			Number:   s.Seat.Number,
			Label:    s.Seat.Label(),
			Category: api.SeatCategory(s.Seat.Category),
			Status:   api.SeatStatus(s.State.Status()),
		}
	}

	return resp
}
