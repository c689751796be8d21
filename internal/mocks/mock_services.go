package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockReservationService struct {
	mock.Mock
	TTL time.Duration
}

func (m *MockReservationService) TryHold(ctx context.Context, showtimeID, seatID int, holderID string) (*domain.Hold, error) {
	args := m.Called(ctx, showtimeID, seatID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationService) GetHold(ctx context.Context, holdID, holderID string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationService) Release(ctx context.Context, holdID, holderID string) error {
	args := m.Called(ctx, holdID, holderID)
	return args.Error(0)
}

func (m *MockReservationService) Renew(ctx context.Context, holdID, holderID string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockReservationService) HoldTTL() time.Duration {
	return m.TTL
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetSeatsForRoom(ctx context.Context, roomID int) ([]domain.Seat, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockInventoryService) GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) ConfirmOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCheckoutService) GetOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockCheckoutService) CancelOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
