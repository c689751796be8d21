package app

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type ReservationService interface {
	TryHold(ctx context.Context, showtimeID, seatID int, holderID string) (*domain.Hold, error)
	GetHold(ctx context.Context, holdID, holderID string) (*domain.Hold, error)
	Release(ctx context.Context, holdID, holderID string) error
	Renew(ctx context.Context, holdID, holderID string) (*domain.Hold, error)
	HoldTTL() time.Duration
}

type InventoryService interface {
	GetSeatsForRoom(ctx context.Context, roomID int) ([]domain.Seat, error)
	GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error)
}

type CheckoutService interface {
	ConfirmOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error)
}
