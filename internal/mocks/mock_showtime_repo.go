package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type MockShowtimeRepo struct {
	GetByIDFunc func(ctx context.Context, id int) (*domain.Showtime, error)
}

func (m *MockShowtimeRepo) GetByID(ctx context.Context, id int) (*domain.Showtime, error) {
	return m.GetByIDFunc(ctx, id)
}

func NewStaticShowtimeRepo(showtimes ...domain.Showtime) *MockShowtimeRepo {
	return &MockShowtimeRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*domain.Showtime, error) {
			for _, s := range showtimes {
				if s.ID == id {
					return &s, nil
				}
			}

			return nil, domain.ErrShowtimeNotFound
		},
	}
}
