package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type MockProductRepo struct {
	GetByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, error)
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	return m.GetByIDsFunc(ctx, ids)
}
