package domain

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrHoldNotFound     = errors.New("hold not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")

	ErrAlreadyHeld    = errors.New("seat is already held")
	ErrAlreadySold    = errors.New("seat is already sold")
	ErrShowtimeClosed = errors.New("showtime is no longer open for sale")

	ErrExpired  = errors.New("your seats were released, please reselect")
	ErrNotOwner = errors.New("hold belongs to another session")

	ErrPaymentDeclined = errors.New("payment was declined")
	ErrUpstreamFailure = errors.New("upstream service unavailable")

	ErrOrderCancelled = errors.New("order is already cancelled")
)

// IsConflict reports whether err means the seat can no longer be taken by the caller.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyHeld) ||
		errors.Is(err, ErrAlreadySold) ||
		errors.Is(err, ErrShowtimeClosed)
}

// IsNotFound reports whether err is a permanent lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrShowtimeNotFound) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrHoldNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
