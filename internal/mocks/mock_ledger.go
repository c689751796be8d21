package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Get(ctx context.Context, key domain.SeatKey) (domain.SeatRecord, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.SeatRecord), args.Error(1)
}

func (m *MockLedger) GetByHoldID(ctx context.Context, holdID string) (domain.SeatRecord, error) {
	args := m.Called(ctx, holdID)
	return args.Get(0).(domain.SeatRecord), args.Error(1)
}

func (m *MockLedger) ListByShowtime(ctx context.Context, showtimeID int) ([]domain.SeatRecord, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatRecord), args.Error(1)
}

func (m *MockLedger) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatRecord, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatRecord), args.Error(1)
}

func (m *MockLedger) CompareAndSet(ctx context.Context, t domain.Transition) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) CompareAndSetBatch(ctx context.Context, ts []domain.Transition) (bool, error) {
	args := m.Called(ctx, ts)
	return args.Bool(0), args.Error(1)
}
