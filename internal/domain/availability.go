package domain

import "time"

type SeatAvailability struct {
	Seat  Seat
	State SeatState
}

// Availability is a snapshot of every seat of a showtime's room. MaxStaleness
// bounds how far behind the ledger AsOf may be.
type Availability struct {
	Showtime     Showtime
	Seats        []SeatAvailability
	AsOf         time.Time
	MaxStaleness time.Duration
}

func (a Availability) Count(status SeatStatus) int {
	n := 0
	for _, s := range a.Seats {
		if s.State.Status() == status {
			n++
		}
	}

	return n
}
