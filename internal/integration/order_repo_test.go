package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderRepositoryTestSuite struct {
	BaseSuite
	repo *repository.PostgresOrderRepository
}

func TestOrderRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(OrderRepositoryTestSuite))
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	resetState(s.T(), s.app)
	s.repo = repository.NewPostgresOrderRepository(s.app.DB)
}

func newStoredOrder(holder string, seatIDs ...int) *domain.Order {
	order := &domain.Order{
		ID:         uuid.NewString(),
		HolderID:   holder,
		Currency:   "USD",
		PaymentRef: "pi_test",
		Status:     domain.OrderStatusConfirmed,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	for _, id := range seatIDs {
		order.Seats = append(order.Seats, domain.OrderSeat{
			ShowtimeID: 1,
			SeatID:     id,
			Row:        "A",
			Number:     id,
			Category:   domain.SeatCategoryStandard,
			Price:      decimal.RequireFromString("10.00"),
		})
	}

	order.Total = domain.CalculateTotal(order.Seats, order.Items)

	return order
}

func (s *OrderRepositoryTestSuite) TestCreateReplayOfStoredOrderSucceeds() {
	ctx := context.Background()
	order := newStoredOrder("alice", 1)

	s.Require().NoError(s.repo.Create(ctx, order))
	s.Require().NoError(s.repo.Create(ctx, order))

	stored, err := s.repo.GetByID(ctx, order.ID)
	s.Require().NoError(err)
	s.Len(stored.Seats, 1)
}

func (s *OrderRepositoryTestSuite) TestCreateRejectsSeatOfLiveOrder() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, newStoredOrder("alice", 1)))

	err := s.repo.Create(ctx, newStoredOrder("bob", 1))
	s.ErrorIs(err, domain.ErrAlreadySold)
}

func (s *OrderRepositoryTestSuite) TestCancelAndReinstate() {
	ctx := context.Background()
	order := newStoredOrder("alice", 1, 2)

	s.Require().NoError(s.repo.Create(ctx, order))
	s.Require().NoError(s.repo.MarkCancelled(ctx, order.ID, time.Now()))
	s.ErrorIs(s.repo.MarkCancelled(ctx, order.ID, time.Now()), domain.ErrOrderCancelled)

	s.Require().NoError(s.repo.Reinstate(ctx, order.ID))

	stored, err := s.repo.GetByID(ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusConfirmed, stored.Status)
	s.Nil(stored.CancelledAt)

	err = s.repo.Create(ctx, newStoredOrder("bob", 2))
	s.ErrorIs(err, domain.ErrAlreadySold, "reinstated seats are live again")

	s.ErrorIs(s.repo.Reinstate(ctx, order.ID), domain.ErrOrderNotFound)
	s.ErrorIs(s.repo.MarkCancelled(ctx, "missing", time.Now()), domain.ErrOrderNotFound)
}
