package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaxCacheTTL caps how stale an availability snapshot served from cache can be.
const MaxCacheTTL = 2 * time.Second

type availabilitySnapshot struct {
	showtime  domain.Showtime
	seats     []domain.Seat
	records   map[int]domain.SeatRecord
	fetchedAt time.Time
}

// Inventory answers seat map reads. With a non zero cache TTL it keeps one
// snapshot per showtime, dropped on every transition this instance makes, so a
// caller always sees its own writes.
type Inventory struct {
	engine   *Engine
	cacheTTL time.Duration

	mu          sync.Mutex
	cache       map[int]availabilitySnapshot
	generations map[int]uint64
}

func NewInventory(engine *Engine, cacheTTL time.Duration) *Inventory {
	if cacheTTL < 0 {
		cacheTTL = 0
	}

	if cacheTTL > MaxCacheTTL {
		cacheTTL = MaxCacheTTL
	}

	inv := &Inventory{
		engine:      engine,
		cacheTTL:    cacheTTL,
		cache:       make(map[int]availabilitySnapshot),
		generations: make(map[int]uint64),
	}

	engine.subscribe(inv.invalidate)

	return inv
}

func (inv *Inventory) invalidate(key domain.SeatKey) {
	if inv.cacheTTL == 0 {
		return
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	delete(inv.cache, key.ShowtimeID)
	inv.generations[key.ShowtimeID]++
}

// GetSeatsForRoom returns the room's seats ordered by row label then number.
func (inv *Inventory) GetSeatsForRoom(ctx context.Context, roomID int) ([]domain.Seat, error) {
	return inv.engine.catalog.GetSeatsForRoom(ctx, roomID)
}

// GetAvailability returns every seat of the showtime's room with its state.
// Holds whose TTL has passed are reported open even if no sweep has run yet.
func (inv *Inventory) GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error) {
	ctx, span := inv.engine.tracer.Start(ctx, "Inventory.GetAvailability", trace.WithAttributes(
		attribute.Int("showtime.id", showtimeID),
	))
	defer span.End()

	now := inv.engine.now()

	snapshot, generation, cached := inv.cached(showtimeID, now)
	span.SetAttributes(attribute.Bool("cache.hit", cached))

	if !cached {
		var err error

		snapshot, err = inv.load(ctx, showtimeID, now)
		if err != nil {
			return nil, inv.engine.fail(ctx, span, err)
		}

		inv.store(showtimeID, generation, snapshot)
	}

	availability := &domain.Availability{
		Showtime:     snapshot.showtime,
		Seats:        make([]domain.SeatAvailability, len(snapshot.seats)),
		AsOf:         snapshot.fetchedAt,
		MaxStaleness: inv.cacheTTL,
	}

	for i, seat := range snapshot.seats {
		var state domain.SeatState = domain.Open{}

		if record, ok := snapshot.records[seat.ID]; ok {
			state = record.Effective(now)
		}

		availability.Seats[i] = domain.SeatAvailability{Seat: seat, State: state}
	}

	return availability, nil
}

func (inv *Inventory) load(ctx context.Context, showtimeID int, now time.Time) (availabilitySnapshot, error) {
	showtime, err := inv.engine.showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return availabilitySnapshot{}, err
	}

	seats, err := inv.engine.catalog.GetSeatsForRoom(ctx, showtime.RoomID)
	if err != nil {
		return availabilitySnapshot{}, fmt.Errorf("load seats of room %d: %w", showtime.RoomID, err)
	}

	records, err := inv.engine.ledger.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return availabilitySnapshot{}, ledgerFailure(fmt.Sprintf("load seat states of showtime %d", showtimeID), err)
	}

	bySeat := make(map[int]domain.SeatRecord, len(records))
	for _, record := range records {
		bySeat[record.Key.SeatID] = record
	}

	return availabilitySnapshot{
		showtime:  *showtime,
		seats:     seats,
		records:   bySeat,
		fetchedAt: now,
	}, nil
}

// cached also returns the invalidation generation seen, so a snapshot loaded
// across a concurrent transition is not stored.
func (inv *Inventory) cached(showtimeID int, now time.Time) (availabilitySnapshot, uint64, bool) {
	if inv.cacheTTL == 0 {
		return availabilitySnapshot{}, 0, false
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	generation := inv.generations[showtimeID]

	snapshot, ok := inv.cache[showtimeID]
	if !ok || now.Sub(snapshot.fetchedAt) >= inv.cacheTTL {
		return availabilitySnapshot{}, generation, false
	}

	return snapshot, generation, true
}

func (inv *Inventory) store(showtimeID int, generation uint64, snapshot availabilitySnapshot) {
	if inv.cacheTTL == 0 {
		return
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.generations[showtimeID] != generation {
		return
	}

	inv.cache[showtimeID] = snapshot
}
