package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type MockSeatCatalog struct {
	GetSeatsForRoomFunc func(ctx context.Context, roomID int) ([]domain.Seat, error)
	GetSeatFunc         func(ctx context.Context, roomID, seatID int) (*domain.Seat, error)
}

func (m *MockSeatCatalog) GetSeatsForRoom(ctx context.Context, roomID int) ([]domain.Seat, error) {
	return m.GetSeatsForRoomFunc(ctx, roomID)
}

func (m *MockSeatCatalog) GetSeat(ctx context.Context, roomID, seatID int) (*domain.Seat, error) {
	return m.GetSeatFunc(ctx, roomID, seatID)
}

// NewStaticSeatCatalog serves a fixed seat list per room.
func NewStaticSeatCatalog(rooms map[int][]domain.Seat) *MockSeatCatalog {
	return &MockSeatCatalog{
		GetSeatsForRoomFunc: func(ctx context.Context, roomID int) ([]domain.Seat, error) {
			seats, ok := rooms[roomID]
			if !ok {
				return nil, domain.ErrRoomNotFound
			}

			return seats, nil
		},
		GetSeatFunc: func(ctx context.Context, roomID, seatID int) (*domain.Seat, error) {
			for _, seat := range rooms[roomID] {
				if seat.ID == seatID {
					return &seat, nil
				}
			}

			return nil, domain.ErrSeatNotFound
		},
	}
}
