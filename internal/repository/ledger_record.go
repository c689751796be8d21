package repository

import (
	"fmt"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

// ledgerRecord is the flattened storage form of a seat state. Postgres scans it
// column by column and Redis stores it as JSON.
type ledgerRecord struct {
	Status    domain.SeatStatus `json:"status"`
	HoldID    *string           `json:"holdId,omitempty"`
	HolderID  *string           `json:"holderId,omitempty"`
	HeldAt    *time.Time        `json:"heldAt,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	OrderID   *string           `json:"orderId,omitempty"`
	SoldAt    *time.Time        `json:"soldAt,omitempty"`
	Version   int64             `json:"version"`
}

func newLedgerRecord(state domain.SeatState, version int64) ledgerRecord {
	rec := ledgerRecord{Status: state.Status(), Version: version}

	switch s := state.(type) {
	case domain.Held:
		rec.HoldID = &s.HoldID
		rec.HolderID = &s.HolderID
		rec.HeldAt = &s.CreatedAt
		rec.ExpiresAt = &s.ExpiresAt
	case domain.Sold:
		rec.OrderID = &s.OrderID
		if s.HoldID != "" {
			rec.HoldID = &s.HoldID
		}
		rec.SoldAt = &s.SoldAt
	case domain.Open:
	}

	return rec
}

func (r ledgerRecord) state() (domain.SeatState, error) {
	switch r.Status {
	case domain.SeatStatusOpen:
		return domain.Open{}, nil
	case domain.SeatStatusHeld:
		if r.HoldID == nil || r.HolderID == nil || r.ExpiresAt == nil {
			return nil, fmt.Errorf("held record is missing hold fields")
		}

		return domain.Held{
			HoldID:    *r.HoldID,
			HolderID:  *r.HolderID,
			CreatedAt: deref(r.HeldAt),
			ExpiresAt: *r.ExpiresAt,
		}, nil
	case domain.SeatStatusSold:
		if r.OrderID == nil {
			return nil, fmt.Errorf("sold record is missing order id")
		}

		return domain.Sold{
			OrderID: *r.OrderID,
			HoldID:  deref(r.HoldID),
			SoldAt:  deref(r.SoldAt),
		}, nil
	}

	return nil, fmt.Errorf("unknown seat status %q", r.Status)
}

func (r ledgerRecord) toSeatRecord(key domain.SeatKey) (domain.SeatRecord, error) {
	state, err := r.state()
	if err != nil {
		return domain.SeatRecord{}, fmt.Errorf("seat %s: %w", key, err)
	}

	return domain.SeatRecord{Key: key, State: state, Version: r.Version}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
