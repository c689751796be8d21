package domain

import (
	"context"
	"time"
)

type Hold struct {
	ID         string
	ShowtimeID int
	SeatID     int
	HolderID   string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

func (h Hold) Key() SeatKey {
	return SeatKey{ShowtimeID: h.ShowtimeID, SeatID: h.SeatID}
}

func (h Hold) ExpiredAt(t time.Time) bool {
	return !t.Before(h.ExpiresAt)
}

type SeatEventType string

const (
	SeatEventHeld     SeatEventType = "seat.held"
	SeatEventRenewed  SeatEventType = "seat.renewed"
	SeatEventReleased SeatEventType = "seat.released"
	SeatEventExpired  SeatEventType = "seat.expired"
	SeatEventSold     SeatEventType = "seat.sold"
	SeatEventRevoked  SeatEventType = "seat.revoked"
)

// SeatEvent is emitted after every successful ledger transition.
type SeatEvent struct {
	Type       SeatEventType `json:"type"`
	ShowtimeID int           `json:"showtimeId"`
	SeatID     int           `json:"seatId"`
	HoldID     string        `json:"holdId,omitempty"`
	OrderID    string        `json:"orderId,omitempty"`
	Version    int64         `json:"version"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event SeatEvent) error
	Close() error
}
