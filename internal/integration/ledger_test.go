package integration_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/repository"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	BaseSuite
}

func TestLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(LedgerTestSuite))
}

// ledgers returns every durable backend over a clean state. Keys must use
// showtime 1 and seats 1-4, which the seed data provides.
func (s *LedgerTestSuite) ledgers() map[string]domain.Ledger {
	resetState(s.T(), s.app)
	s.Require().NoError(s.app.Redis.FlushDB(context.Background()).Err())

	return map[string]domain.Ledger{
		"postgres": repository.NewPostgresLedger(s.app.DB),
		"redis":    repository.NewRedisLedger(s.app.Redis),
	}
}

func (s *LedgerTestSuite) TestCompareAndSet() {
	ctx := context.Background()
	key := domain.SeatKey{ShowtimeID: 1, SeatID: 1}
	expiresAt := time.Now().Add(time.Minute).Truncate(time.Millisecond)

	for name, ledger := range s.ledgers() {
		s.Run(name, func() {
			record, err := ledger.Get(ctx, key)
			s.Require().NoError(err)
			s.Equal(domain.SeatStatusOpen, record.State.Status())
			s.Equal(int64(0), record.Version)

			held := domain.Held{HoldID: name + "-h1", HolderID: "alice", CreatedAt: time.Now(), ExpiresAt: expiresAt}

			ok, err := ledger.CompareAndSet(ctx, domain.Transition{Key: key, ExpectedVersion: 0, Next: held})
			s.Require().NoError(err)
			s.True(ok)

			ok, err = ledger.CompareAndSet(ctx, domain.Transition{Key: key, ExpectedVersion: 0, Next: held})
			s.Require().NoError(err)
			s.False(ok, "stale version must be rejected")

			record, err = ledger.GetByHoldID(ctx, held.HoldID)
			s.Require().NoError(err)
			s.Equal(int64(1), record.Version)
			s.Equal(key, record.Key)

			got, isHeld := record.State.(domain.Held)
			s.Require().True(isHeld)
			s.Equal("alice", got.HolderID)
			s.True(expiresAt.Equal(got.ExpiresAt))

			ok, err = ledger.CompareAndSet(ctx, domain.Transition{
				Key:             key,
				ExpectedVersion: 1,
				Next:            domain.Sold{OrderID: "o-1", HoldID: held.HoldID, SoldAt: time.Now()},
			})
			s.Require().NoError(err)
			s.True(ok)

			record, err = ledger.GetByHoldID(ctx, held.HoldID)
			s.Require().NoError(err)
			s.Equal(domain.SeatStatusSold, record.State.Status(), "sold seats stay reachable by hold ID")

			ok, err = ledger.CompareAndSet(ctx, domain.Transition{Key: key, ExpectedVersion: 2, Next: domain.Open{}})
			s.Require().NoError(err)
			s.True(ok)

			_, err = ledger.GetByHoldID(ctx, held.HoldID)
			s.ErrorIs(err, domain.ErrHoldNotFound)
		})
	}
}

func (s *LedgerTestSuite) TestCompareAndSetBatchIsAllOrNothing() {
	ctx := context.Background()
	a := domain.SeatKey{ShowtimeID: 1, SeatID: 1}
	b := domain.SeatKey{ShowtimeID: 1, SeatID: 2}
	expiresAt := time.Now().Add(time.Minute)

	for name, ledger := range s.ledgers() {
		s.Run(name, func() {
			ok, err := ledger.CompareAndSet(ctx, domain.Transition{
				Key:  b,
				Next: domain.Held{HoldID: name + "-hb", HolderID: "bob", ExpiresAt: expiresAt},
			})
			s.Require().NoError(err)
			s.Require().True(ok)

			ok, err = ledger.CompareAndSetBatch(ctx, []domain.Transition{
				{Key: a, ExpectedVersion: 0, Next: domain.Held{HoldID: name + "-ha", HolderID: "alice", ExpiresAt: expiresAt}},
				{Key: b, ExpectedVersion: 0, Next: domain.Held{HoldID: name + "-hb2", HolderID: "alice", ExpiresAt: expiresAt}},
			})
			s.Require().NoError(err)
			s.False(ok)

			record, err := ledger.Get(ctx, a)
			s.Require().NoError(err)
			s.Equal(domain.SeatStatusOpen, record.State.Status(), "no partial batch may be applied")
			s.Equal(int64(0), record.Version)

			records, err := ledger.ListByShowtime(ctx, 1)
			s.Require().NoError(err)
			s.Len(records, 1)
		})
	}
}

func (s *LedgerTestSuite) TestListExpired() {
	ctx := context.Background()
	now := time.Now()

	for name, ledger := range s.ledgers() {
		s.Run(name, func() {
			for seatID, offset := range map[int]time.Duration{1: -time.Minute, 2: -time.Second, 3: time.Minute} {
				ok, err := ledger.CompareAndSet(ctx, domain.Transition{
					Key:  domain.SeatKey{ShowtimeID: 1, SeatID: seatID},
					Next: domain.Held{HoldID: name + "-exp-" + string(rune('0'+seatID)), HolderID: "x", ExpiresAt: now.Add(offset)},
				})
				s.Require().NoError(err)
				s.Require().True(ok)
			}

			records, err := ledger.ListExpired(ctx, now, 10)
			s.Require().NoError(err)
			s.Require().Len(records, 2)
			s.Equal(1, records[0].Key.SeatID, "oldest expiry first")
			s.Equal(2, records[1].Key.SeatID)

			records, err = ledger.ListExpired(ctx, now, 1)
			s.Require().NoError(err)
			s.Len(records, 1)
		})
	}
}

func (s *LedgerTestSuite) TestConcurrentCompareAndSetHasOneWinner() {
	ctx := context.Background()
	key := domain.SeatKey{ShowtimeID: 1, SeatID: 4}
	expiresAt := time.Now().Add(time.Minute)

	for name, ledger := range s.ledgers() {
		s.Run(name, func() {
			var (
				wins   atomic.Int32
				failed atomic.Int32
				wg     sync.WaitGroup
			)

			for i := range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()

					ok, err := ledger.CompareAndSet(ctx, domain.Transition{
						Key:  key,
						Next: domain.Held{HoldID: name + "-race-" + string(rune('a'+i)), HolderID: "x", ExpiresAt: expiresAt},
					})
					if err != nil {
						failed.Add(1)
						return
					}
					if ok {
						wins.Add(1)
					}
				}()
			}

			wg.Wait()

			s.Equal(int32(0), failed.Load())
			s.Equal(int32(1), wins.Load())
		})
	}
}
