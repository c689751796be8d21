package domain

import (
	"context"
	"fmt"
	"time"
)

type SeatStatus string

const (
	SeatStatusOpen SeatStatus = "open"
	SeatStatusHeld SeatStatus = "held"
	SeatStatusSold SeatStatus = "sold"
)

// SeatKey identifies one seat of one showtime in the ledger.
type SeatKey struct {
	ShowtimeID int
	SeatID     int
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%d:%d", k.ShowtimeID, k.SeatID)
}

// ParseSeatKey is the inverse of SeatKey.String.
func ParseSeatKey(s string) (SeatKey, error) {
	var k SeatKey

	_, err := fmt.Sscanf(s, "%d:%d", &k.ShowtimeID, &k.SeatID)
	if err != nil {
		return SeatKey{}, fmt.Errorf("invalid seat key %q: %w", s, err)
	}

	return k, nil
}

// SeatState is a closed set: Open, Held and Sold are its only implementations.
type SeatState interface {
	Status() SeatStatus
	seatState()
}

type Open struct{}

type Held struct {
	HoldID    string
	HolderID  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Sold keeps the ID of the hold it was promoted from so a late release of that
// hold can be told apart from an unknown one.
type Sold struct {
	OrderID string
	HoldID  string
	SoldAt  time.Time
}

func (Open) Status() SeatStatus { return SeatStatusOpen }
func (Held) Status() SeatStatus { return SeatStatusHeld }
func (Sold) Status() SeatStatus { return SeatStatusSold }

func (Open) seatState() {}
func (Held) seatState() {}
func (Sold) seatState() {}

// ExpiredAt reports whether the hold is no longer valid at t. A hold is valid
// strictly before ExpiresAt.
func (h Held) ExpiredAt(t time.Time) bool {
	return !t.Before(h.ExpiresAt)
}

// SeatRecord is the ledger's view of a key. A key that was never written is
// Open at version 0; every successful transition increments Version.
type SeatRecord struct {
	Key     SeatKey
	State   SeatState
	Version int64
}

// Effective collapses a lapsed hold to Open so readers never report a seat as
// held after its TTL, even before the sweeper has run.
func (r SeatRecord) Effective(now time.Time) SeatState {
	if held, ok := r.State.(Held); ok && held.ExpiredAt(now) {
		return Open{}
	}

	return r.State
}

// HoldID returns the hold that currently references the key, if any.
func (r SeatRecord) HoldID() string {
	switch s := r.State.(type) {
	case Held:
		return s.HoldID
	case Sold:
		return s.HoldID
	}

	return ""
}

func (r SeatRecord) Hold() (*Hold, bool) {
	held, ok := r.State.(Held)
	if !ok {
		return nil, false
	}

	return &Hold{
		ID:         held.HoldID,
		ShowtimeID: r.Key.ShowtimeID,
		SeatID:     r.Key.SeatID,
		HolderID:   held.HolderID,
		CreatedAt:  held.CreatedAt,
		ExpiresAt:  held.ExpiresAt,
	}, true
}

// Transition moves Key to Next only if the stored version still equals
// ExpectedVersion.
type Transition struct {
	Key             SeatKey
	ExpectedVersion int64
	Next            SeatState
}

type Ledger interface {
	Get(ctx context.Context, key SeatKey) (SeatRecord, error)
	GetByHoldID(ctx context.Context, holdID string) (SeatRecord, error)
	ListByShowtime(ctx context.Context, showtimeID int) ([]SeatRecord, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]SeatRecord, error)

	// CompareAndSet applies t atomically and reports whether the version check passed.
	CompareAndSet(ctx context.Context, t Transition) (bool, error)

	// CompareAndSetBatch applies all transitions or none of them. Keys must be distinct.
	CompareAndSetBatch(ctx context.Context, ts []Transition) (bool, error)
}
