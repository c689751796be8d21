package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_ExpiresLapsedHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.TryHold(ctx, showtimeID, seatA1, "alice")
	require.NoError(t, err)

	sweeper := reservation.NewSweeper(f.engine, 10*time.Millisecond, discardLogger())
	sweeper.Start(ctx)
	defer sweeper.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, domain.SeatStatusHeld, f.state(t, seatA1).Status(), "hold is still valid")

	f.clock.Advance(holdTTL)

	require.Eventually(t, func() bool {
		return f.state(t, seatA1).Status() == domain.SeatStatusOpen
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, f.publisher.Types(), domain.SeatEventExpired)
}

func TestSweeper_StopsWithContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := reservation.NewSweeper(f.engine, time.Hour, discardLogger())
	sweeper.Start(ctx)
	sweeper.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	f := newFixture(t)

	sweeper := reservation.NewSweeper(f.engine, 0, discardLogger())
	sweeper.Stop()
	sweeper.Stop()
}
