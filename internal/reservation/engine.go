package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/metinatakli/seat-reservation-engine/internal/reservation"

	DefaultHoldTTL        = 5 * time.Minute
	DefaultSweepBatchSize = 500

	// maxAttempts bounds how often an operation re-reads a key whose version
	// moved under it. Only the owner can move a held key, so contention is rare.
	maxAttempts = 3
)

var errContended = errors.New("seat was modified concurrently")

type Config struct {
	HoldTTL        time.Duration
	SweepBatchSize int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine owns every seat state transition. All mutations go through a single
// compare-and-set on the ledger, so no lock is held across I/O.
type Engine struct {
	ledger    domain.Ledger
	catalog   domain.SeatCatalog
	showtimes domain.ShowtimeRepository
	publisher domain.EventPublisher
	logger    *slog.Logger

	holdTTL        time.Duration
	sweepBatchSize int
	now            func() time.Time
	newID          func() string

	tracer  trace.Tracer
	metrics *engineMetrics

	mu        sync.RWMutex
	observers []func(domain.SeatKey)
}

type engineMetrics struct {
	holdsGranted  metric.Int64Counter
	holdsRejected metric.Int64Counter
	holdsReleased metric.Int64Counter
	holdsExpired  metric.Int64Counter
	seatsSold     metric.Int64Counter
}

func newEngineMetrics(meter metric.Meter) (*engineMetrics, error) {
	granted, err1 := meter.Int64Counter("reservation.holds.granted",
		metric.WithDescription("Holds granted"))
	rejected, err2 := meter.Int64Counter("reservation.holds.rejected",
		metric.WithDescription("Hold attempts rejected, by reason"))
	released, err3 := meter.Int64Counter("reservation.holds.released",
		metric.WithDescription("Holds released by their owner"))
	expired, err4 := meter.Int64Counter("reservation.holds.expired",
		metric.WithDescription("Holds returned to open after their TTL"))
	sold, err5 := meter.Int64Counter("reservation.seats.sold",
		metric.WithDescription("Seats promoted from held to sold"))

	if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
		return nil, fmt.Errorf("create engine metrics: %w", err)
	}

	return &engineMetrics{
		holdsGranted:  granted,
		holdsRejected: rejected,
		holdsReleased: released,
		holdsExpired:  expired,
		seatsSold:     sold,
	}, nil
}

func NewEngine(
	cfg Config,
	ledger domain.Ledger,
	catalog domain.SeatCatalog,
	showtimes domain.ShowtimeRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger) (*Engine, error) {

	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = DefaultHoldTTL
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = DefaultSweepBatchSize
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m, err := newEngineMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return &Engine{
		ledger:         ledger,
		catalog:        catalog,
		showtimes:      showtimes,
		publisher:      publisher,
		logger:         logger,
		holdTTL:        cfg.HoldTTL,
		sweepBatchSize: cfg.SweepBatchSize,
		now:            cfg.Now,
		newID:          uuid.NewString,
		tracer:         otel.Tracer(instrumentationName),
		metrics:        m,
	}, nil
}

func (e *Engine) HoldTTL() time.Duration {
	return e.holdTTL
}

// subscribe registers fn to run after every successful transition.
func (e *Engine) subscribe(fn func(domain.SeatKey)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.observers = append(e.observers, fn)
}

// TryHold takes the seat for holderID if it is open or its previous hold has
// lapsed. A holder asking again for a seat it already holds gets its existing
// hold back.
func (e *Engine) TryHold(ctx context.Context, showtimeID, seatID int, holderID string) (*domain.Hold, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.TryHold", trace.WithAttributes(
		attribute.Int("showtime.id", showtimeID),
		attribute.Int("seat.id", seatID),
	))
	defer span.End()

	showtime, err := e.showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return nil, e.rejectOrFail(ctx, span, err)
	}

	now := e.now()

	if !showtime.OpenForSale(now) {
		return nil, e.reject(ctx, span, domain.ErrShowtimeClosed)
	}

	_, err = e.catalog.GetSeat(ctx, showtime.RoomID, seatID)
	if err != nil {
		return nil, e.rejectOrFail(ctx, span, err)
	}

	key := domain.SeatKey{ShowtimeID: showtimeID, SeatID: seatID}

	record, err := e.ledger.Get(ctx, key)
	if err != nil {
		return nil, e.fail(ctx, span, ledgerFailure("read seat "+key.String(), err))
	}

	if hold, err := holdConflict(record, holderID, now); hold != nil || err != nil {
		if err != nil {
			return nil, e.reject(ctx, span, err)
		}

		return hold, nil
	}

	next := domain.Held{
		HoldID:    e.newID(),
		HolderID:  holderID,
		CreatedAt: now,
		ExpiresAt: now.Add(e.holdTTL),
	}

	ok, err := e.ledger.CompareAndSet(ctx, domain.Transition{Key: key, ExpectedVersion: record.Version, Next: next})
	if err != nil {
		return nil, e.fail(ctx, span, ledgerFailure("hold seat "+key.String(), err))
	}

	if !ok {
		current, err := e.ledger.Get(ctx, key)
		if err != nil {
			return nil, e.fail(ctx, span, ledgerFailure("read seat "+key.String(), err))
		}

		hold, err := holdConflict(current, holderID, now)
		if hold != nil {
			return hold, nil
		}

		if err == nil {
			// The winner already released; the caller still lost the race.
			err = domain.ErrAlreadyHeld
		}

		return nil, e.reject(ctx, span, err)
	}

	hold := &domain.Hold{
		ID:         next.HoldID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		HolderID:   holderID,
		CreatedAt:  next.CreatedAt,
		ExpiresAt:  next.ExpiresAt,
	}

	e.metrics.holdsGranted.Add(ctx, 1)
	e.transitioned(ctx, domain.SeatEventHeld, key, record.Version+1, hold.ID, "")

	span.SetAttributes(attribute.String("hold.id", hold.ID))

	return hold, nil
}

// holdConflict reports why record blocks a new hold for holderID, or returns
// the holder's own valid hold. Both results are nil when the seat is free.
func holdConflict(record domain.SeatRecord, holderID string, now time.Time) (*domain.Hold, error) {
	switch s := record.State.(type) {
	case domain.Sold:
		return nil, domain.ErrAlreadySold
	case domain.Held:
		if s.ExpiredAt(now) {
			return nil, nil
		}

		if s.HolderID == holderID {
			hold, _ := record.Hold()
			return hold, nil
		}

		return nil, domain.ErrAlreadyHeld
	case domain.Open:
	}

	return nil, nil
}

// GetHold returns a still valid hold owned by holderID.
func (e *Engine) GetHold(ctx context.Context, holdID, holderID string) (*domain.Hold, error) {
	record, err := e.ledger.GetByHoldID(ctx, holdID)
	if err != nil {
		return nil, ledgerFailure("read hold "+holdID, err)
	}

	hold, ok := record.Hold()
	if !ok || hold.ExpiredAt(e.now()) {
		return nil, domain.ErrHoldNotFound
	}

	if hold.HolderID != holderID {
		return nil, domain.ErrNotOwner
	}

	return hold, nil
}

// Release returns a held seat to open. Releasing a hold that is already gone
// succeeds; releasing one that was promoted fails with ErrAlreadySold.
func (e *Engine) Release(ctx context.Context, holdID, holderID string) error {
	ctx, span := e.tracer.Start(ctx, "Engine.Release", trace.WithAttributes(attribute.String("hold.id", holdID)))
	defer span.End()

	for range maxAttempts {
		record, err := e.ledger.GetByHoldID(ctx, holdID)
		if err != nil {
			if errors.Is(err, domain.ErrHoldNotFound) {
				return nil
			}

			return e.fail(ctx, span, ledgerFailure("read hold "+holdID, err))
		}

		var held domain.Held

		switch s := record.State.(type) {
		case domain.Sold:
			return e.fail(ctx, span, domain.ErrAlreadySold)
		case domain.Open:
			return nil
		case domain.Held:
			held = s
		}

		if held.HolderID != holderID {
			return e.fail(ctx, span, domain.ErrNotOwner)
		}

		ok, err := e.ledger.CompareAndSet(ctx, domain.Transition{
			Key:             record.Key,
			ExpectedVersion: record.Version,
			Next:            domain.Open{},
		})
		if err != nil {
			return e.fail(ctx, span, ledgerFailure("release seat "+record.Key.String(), err))
		}

		if ok {
			if held.ExpiredAt(e.now()) {
				e.metrics.holdsExpired.Add(ctx, 1)
				e.transitioned(ctx, domain.SeatEventExpired, record.Key, record.Version+1, holdID, "")
			} else {
				e.metrics.holdsReleased.Add(ctx, 1)
				e.transitioned(ctx, domain.SeatEventReleased, record.Key, record.Version+1, holdID, "")
			}

			return nil
		}
	}

	return e.fail(ctx, span, fmt.Errorf("release hold %s: %w", holdID, errContended))
}

// Renew pushes the expiry of a valid hold to now plus the hold TTL.
func (e *Engine) Renew(ctx context.Context, holdID, holderID string) (*domain.Hold, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Renew", trace.WithAttributes(attribute.String("hold.id", holdID)))
	defer span.End()

	for range maxAttempts {
		record, err := e.ledger.GetByHoldID(ctx, holdID)
		if err != nil {
			if errors.Is(err, domain.ErrHoldNotFound) {
				return nil, e.fail(ctx, span, domain.ErrExpired)
			}

			return nil, e.fail(ctx, span, ledgerFailure("read hold "+holdID, err))
		}

		var held domain.Held

		switch s := record.State.(type) {
		case domain.Sold:
			return nil, e.fail(ctx, span, domain.ErrAlreadySold)
		case domain.Open:
			return nil, e.fail(ctx, span, domain.ErrExpired)
		case domain.Held:
			held = s
		}

		if held.HolderID != holderID {
			return nil, e.fail(ctx, span, domain.ErrNotOwner)
		}

		now := e.now()
		if held.ExpiredAt(now) {
			return nil, e.fail(ctx, span, domain.ErrExpired)
		}

		held.ExpiresAt = now.Add(e.holdTTL)

		ok, err := e.ledger.CompareAndSet(ctx, domain.Transition{
			Key:             record.Key,
			ExpectedVersion: record.Version,
			Next:            held,
		})
		if err != nil {
			return nil, e.fail(ctx, span, ledgerFailure("renew seat "+record.Key.String(), err))
		}

		if ok {
			e.transitioned(ctx, domain.SeatEventRenewed, record.Key, record.Version+1, holdID, "")

			hold, _ := domain.SeatRecord{Key: record.Key, State: held}.Hold()

			return hold, nil
		}
	}

	return nil, e.fail(ctx, span, fmt.Errorf("renew hold %s: %w", holdID, errContended))
}

// ExpireSweep returns every hold whose TTL passed at now to open and reports
// how many it moved. Keys changed concurrently by a release, promotion or
// another sweeper are skipped.
func (e *Engine) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.ExpireSweep")
	defer span.End()

	var (
		swept int
		errs  []error
	)

	for {
		records, err := e.ledger.ListExpired(ctx, now, e.sweepBatchSize)
		if err != nil {
			return swept, e.fail(ctx, span, ledgerFailure("list expired holds", err))
		}

		progress := 0

		for _, record := range records {
			held, ok := record.State.(domain.Held)
			if !ok || !held.ExpiredAt(now) {
				continue
			}

			ok, err := e.ledger.CompareAndSet(ctx, domain.Transition{
				Key:             record.Key,
				ExpectedVersion: record.Version,
				Next:            domain.Open{},
			})
			if err != nil {
				e.logger.Error("failed to expire hold", "error", err, "hold_id", held.HoldID, "seat", record.Key.String())
				errs = append(errs, ledgerFailure("expire seat "+record.Key.String(), err))
				continue
			}

			if !ok {
				continue
			}

			progress++

			e.metrics.holdsExpired.Add(ctx, 1)
			e.transitioned(ctx, domain.SeatEventExpired, record.Key, record.Version+1, held.HoldID, "")
		}

		swept += progress

		if len(records) < e.sweepBatchSize || progress == 0 {
			break
		}
	}

	span.SetAttributes(attribute.Int("holds.expired", swept))

	return swept, errors.Join(errs...)
}

// Promote sells the seat of a single hold.
func (e *Engine) Promote(ctx context.Context, holdID, holderID, orderID string) error {
	return e.PromoteAll(ctx, []string{holdID}, holderID, orderID)
}

// PromoteAll sells every seat of holdIDs in one batch compare-and-set. Either
// all holds are still valid at the moment of the write and all seats become
// sold, or nothing changes.
func (e *Engine) PromoteAll(ctx context.Context, holdIDs []string, holderID, orderID string) error {
	ctx, span := e.tracer.Start(ctx, "Engine.PromoteAll", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.Int("holds.count", len(holdIDs)),
	))
	defer span.End()

	holdIDs = uniqueStrings(holdIDs)
	if len(holdIDs) == 0 {
		return e.fail(ctx, span, domain.ErrExpired)
	}

	for range maxAttempts {
		now := e.now()

		records, err := e.validHolds(ctx, holdIDs, holderID, now)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadySold) && e.soldUnder(ctx, holdIDs, orderID) {
				return nil
			}

			return e.fail(ctx, span, err)
		}

		transitions := make([]domain.Transition, len(records))
		for i, record := range records {
			transitions[i] = domain.Transition{
				Key:             record.Key,
				ExpectedVersion: record.Version,
				Next: domain.Sold{
					OrderID: orderID,
					HoldID:  record.HoldID(),
					SoldAt:  now,
				},
			}
		}

		ok, err := e.ledger.CompareAndSetBatch(ctx, transitions)
		if err != nil {
			return e.fail(ctx, span, ledgerFailure("promote holds", err))
		}

		if ok {
			for _, record := range records {
				e.metrics.seatsSold.Add(ctx, 1)
				e.transitioned(ctx, domain.SeatEventSold, record.Key, record.Version+1, record.HoldID(), orderID)
			}

			return nil
		}
	}

	return e.fail(ctx, span, domain.ErrExpired)
}

// soldUnder reports whether every hold of holdIDs was already promoted under
// orderID. That is the case when a batch write landed but its reply was lost.
func (e *Engine) soldUnder(ctx context.Context, holdIDs []string, orderID string) bool {
	for _, holdID := range holdIDs {
		record, err := e.ledger.GetByHoldID(ctx, holdID)
		if err != nil {
			return false
		}

		sold, ok := record.State.(domain.Sold)
		if !ok || sold.OrderID != orderID {
			return false
		}
	}

	return true
}

// validHolds loads holdIDs and checks that every one is held by holderID and
// not yet expired at now. A missing hold counts as expired.
func (e *Engine) validHolds(ctx context.Context, holdIDs []string, holderID string, now time.Time) ([]domain.SeatRecord, error) {
	records := make([]domain.SeatRecord, 0, len(holdIDs))

	for _, holdID := range holdIDs {
		record, err := e.ledger.GetByHoldID(ctx, holdID)
		if err != nil {
			if errors.Is(err, domain.ErrHoldNotFound) {
				return nil, domain.ErrExpired
			}

			return nil, ledgerFailure("read hold "+holdID, err)
		}

		switch s := record.State.(type) {
		case domain.Sold:
			return nil, domain.ErrAlreadySold
		case domain.Open:
			return nil, domain.ErrExpired
		case domain.Held:
			if s.HolderID != holderID {
				return nil, domain.ErrNotOwner
			}

			if s.ExpiredAt(now) {
				return nil, domain.ErrExpired
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// Revoke reopens a seat sold under orderID. It is the only way out of Sold and
// is used by order cancellation. A seat no longer sold under orderID is left
// untouched.
func (e *Engine) Revoke(ctx context.Context, showtimeID, seatID int, orderID string) error {
	ctx, span := e.tracer.Start(ctx, "Engine.Revoke", trace.WithAttributes(
		attribute.Int("showtime.id", showtimeID),
		attribute.Int("seat.id", seatID),
		attribute.String("order.id", orderID),
	))
	defer span.End()

	key := domain.SeatKey{ShowtimeID: showtimeID, SeatID: seatID}

	for range maxAttempts {
		record, err := e.ledger.Get(ctx, key)
		if err != nil {
			return e.fail(ctx, span, ledgerFailure("read seat "+key.String(), err))
		}

		sold, ok := record.State.(domain.Sold)
		if !ok || sold.OrderID != orderID {
			e.logger.Debug("seat not sold under order, nothing to revoke", "seat", key.String(), "order_id", orderID)
			return nil
		}

		ok, err = e.ledger.CompareAndSet(ctx, domain.Transition{
			Key:             key,
			ExpectedVersion: record.Version,
			Next:            domain.Open{},
		})
		if err != nil {
			return e.fail(ctx, span, ledgerFailure("revoke seat "+key.String(), err))
		}

		if ok {
			e.transitioned(ctx, domain.SeatEventRevoked, key, record.Version+1, sold.HoldID, orderID)
			return nil
		}
	}

	return e.fail(ctx, span, fmt.Errorf("revoke seat %s: %w", key, errContended))
}

func (e *Engine) transitioned(ctx context.Context, typ domain.SeatEventType, key domain.SeatKey, version int64, holdID, orderID string) {
	e.mu.RLock()
	observers := e.observers
	e.mu.RUnlock()

	for _, fn := range observers {
		fn(key)
	}

	event := domain.SeatEvent{
		Type:       typ,
		ShowtimeID: key.ShowtimeID,
		SeatID:     key.SeatID,
		HoldID:     holdID,
		OrderID:    orderID,
		Version:    version,
		OccurredAt: e.now(),
	}

	err := e.publisher.Publish(ctx, event)
	if err != nil {
		e.logger.Error("failed to publish seat event", "error", err, "type", typ, "seat", key.String())
	}
}

func (e *Engine) reject(ctx context.Context, span trace.Span, err error) error {
	e.metrics.holdsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", rejectReason(err))))
	span.SetAttributes(attribute.String("rejected.reason", rejectReason(err)))

	return err
}

func (e *Engine) rejectOrFail(ctx context.Context, span trace.Span, err error) error {
	if domain.IsNotFound(err) {
		return e.reject(ctx, span, err)
	}

	return e.fail(ctx, span, err)
}

func (e *Engine) fail(_ context.Context, span trace.Span, err error) error {
	if domain.IsConflict(err) || domain.IsNotFound(err) ||
		errors.Is(err, domain.ErrExpired) || errors.Is(err, domain.ErrNotOwner) {
		span.SetAttributes(attribute.String("rejected.reason", rejectReason(err)))
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}

// ledgerFailure marks an error from ledger I/O as an upstream failure so the
// caller can retry it. Lookup misses are returned unchanged.
func ledgerFailure(op string, err error) error {
	if domain.IsNotFound(err) || errors.Is(err, domain.ErrUpstreamFailure) {
		return err
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamFailure, err)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyHeld):
		return "already_held"
	case errors.Is(err, domain.ErrAlreadySold):
		return "already_sold"
	case errors.Is(err, domain.ErrShowtimeClosed):
		return "showtime_closed"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrNotOwner):
		return "not_owner"
	case domain.IsNotFound(err):
		return "not_found"
	}

	return "error"
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
