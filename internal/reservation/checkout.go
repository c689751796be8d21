package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type CheckoutConfig struct {
	Currency string
	// PaymentAttempts bounds charge and refund calls on upstream failures.
	PaymentAttempts uint
	// PersistAttempts bounds order writes after the seats are sold.
	PersistAttempts uint
	// LedgerAttempts bounds hold checks and the final promotion while the
	// ledger is unreachable.
	LedgerAttempts uint
	RetryInterval   time.Duration
}

// Checkout turns a holder's holds into a paid order. Holds are validated
// before the card is charged, and a charge whose seats could not be sold is
// refunded.
type Checkout struct {
	engine   *Engine
	products domain.ProductRepository
	orders   domain.OrderRepository
	payments domain.PaymentProvider
	logger   *slog.Logger

	currency        string
	paymentAttempts uint
	persistAttempts uint
	ledgerAttempts  uint
	retryInterval   time.Duration

	ordersConfirmed metric.Int64Counter
	ordersCancelled metric.Int64Counter
}

func NewCheckout(
	cfg CheckoutConfig,
	engine *Engine,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	payments domain.PaymentProvider,
	logger *slog.Logger) (*Checkout, error) {

	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}

	if cfg.PaymentAttempts == 0 {
		cfg.PaymentAttempts = 3
	}

	if cfg.PersistAttempts == 0 {
		cfg.PersistAttempts = 3
	}

	if cfg.LedgerAttempts == 0 {
		cfg.LedgerAttempts = 3
	}

	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}

	meter := otel.Meter(instrumentationName)

	confirmed, err := meter.Int64Counter("reservation.orders.confirmed",
		metric.WithDescription("Orders paid and confirmed"))
	if err != nil {
		return nil, err
	}

	cancelled, err := meter.Int64Counter("reservation.orders.cancelled",
		metric.WithDescription("Orders cancelled and refunded"))
	if err != nil {
		return nil, err
	}

	return &Checkout{
		engine:          engine,
		products:        products,
		orders:          orders,
		payments:        payments,
		logger:          logger,
		currency:        cfg.Currency,
		paymentAttempts: cfg.PaymentAttempts,
		persistAttempts: cfg.PersistAttempts,
		ledgerAttempts:  cfg.LedgerAttempts,
		retryInterval:   cfg.RetryInterval,
		ordersConfirmed: confirmed,
		ordersCancelled: cancelled,
	}, nil
}

// ConfirmOrder charges the holder and sells every held seat, or leaves the
// holds untouched and charges nothing.
func (c *Checkout) ConfirmOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	ctx, span := c.engine.tracer.Start(ctx, "Checkout.ConfirmOrder", trace.WithAttributes(
		attribute.Int("holds.count", len(req.HoldIDs)),
	))
	defer span.End()

	holdIDs := uniqueStrings(req.HoldIDs)
	if len(holdIDs) == 0 {
		return nil, c.engine.fail(ctx, span, domain.ErrExpired)
	}

	now := c.engine.now()

	records, err := retryUpstream(ctx, c.newBackOff(), c.ledgerAttempts, func() ([]domain.SeatRecord, error) {
		return c.engine.validHolds(ctx, holdIDs, req.HolderID, now)
	})
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		HolderID:  req.HolderID,
		Currency:  c.currency,
		Status:    domain.OrderStatusConfirmed,
		CreatedAt: now,
	}

	span.SetAttributes(attribute.String("order.id", order.ID))

	order.Seats, err = c.priceSeats(ctx, records, now)
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	order.Items, err = c.priceItems(ctx, req.Items)
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	order.Total = domain.CalculateTotal(order.Seats, order.Items)

	order.PaymentRef, err = c.charge(ctx, domain.Charge{
		Token:          req.PaymentToken,
		Amount:         order.Total,
		Currency:       order.Currency,
		Description:    fmt.Sprintf("Order %s", order.ID),
		IdempotencyKey: order.ID,
	})
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	_, err = retryUpstream(ctx, c.newBackOff(), c.ledgerAttempts, func() (struct{}, error) {
		return struct{}{}, c.engine.PromoteAll(ctx, holdIDs, req.HolderID, order.ID)
	})
	if err != nil {
		c.logger.Warn("seats could not be sold after charge, refunding",
			"error", err, "order_id", order.ID, "payment_ref", order.PaymentRef)
		// A promotion whose reply was lost may have landed; compensate
		// reopens only seats sold under this order.
		c.compensate(ctx, order)

		if errors.Is(err, domain.ErrExpired) || errors.Is(err, domain.ErrNotOwner) ||
			errors.Is(err, domain.ErrAlreadySold) || errors.Is(err, domain.ErrUpstreamFailure) {
			return nil, c.engine.fail(ctx, span, err)
		}

		return nil, c.engine.fail(ctx, span, fmt.Errorf("%w: promote holds: %w", domain.ErrUpstreamFailure, err))
	}

	err = c.persist(ctx, order)
	if err != nil {
		c.logger.Error("order could not be stored, reopening seats and refunding",
			"error", err, "order_id", order.ID, "payment_ref", order.PaymentRef)
		c.compensate(ctx, order)

		if errors.Is(err, domain.ErrAlreadySold) {
			return nil, c.engine.fail(ctx, span, err)
		}

		return nil, c.engine.fail(ctx, span, fmt.Errorf("%w: store order: %w", domain.ErrUpstreamFailure, err))
	}

	c.ordersConfirmed.Add(ctx, 1)
	c.logger.Info("order confirmed", "order_id", order.ID, "seats", len(order.Seats), "total", order.Total.String())

	return order, nil
}

func (c *Checkout) priceSeats(ctx context.Context, records []domain.SeatRecord, now time.Time) ([]domain.OrderSeat, error) {
	showtimes := make(map[int]*domain.Showtime)
	seats := make([]domain.OrderSeat, 0, len(records))

	for _, record := range records {
		showtime, ok := showtimes[record.Key.ShowtimeID]
		if !ok {
			var err error

			showtime, err = c.engine.showtimes.GetByID(ctx, record.Key.ShowtimeID)
			if err != nil {
				return nil, err
			}

			if !showtime.OpenForSale(now) {
				return nil, domain.ErrShowtimeClosed
			}

			showtimes[showtime.ID] = showtime
		}

		seat, err := c.engine.catalog.GetSeat(ctx, showtime.RoomID, record.Key.SeatID)
		if err != nil {
			return nil, err
		}

		seats = append(seats, domain.OrderSeat{
			ShowtimeID: record.Key.ShowtimeID,
			SeatID:     seat.ID,
			Row:        seat.Row,
			Number:     seat.Number,
			Category:   seat.Category,
			Price:      showtime.BasePrice.Add(seat.ExtraPrice),
		})
	}

	return seats, nil
}

func (c *Checkout) priceItems(ctx context.Context, requested []domain.ItemRequest) ([]domain.OrderItem, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	quantities := make(map[int]int, len(requested))
	ids := make([]int, 0, len(requested))

	for _, item := range requested {
		if _, ok := quantities[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}

		quantities[item.ProductID] += item.Quantity
	}

	products, err := c.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(ids))

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, domain.ErrProductNotFound
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantities[id],
			UnitPrice: product.Price,
		})
	}

	return items, nil
}

func (c *Checkout) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	return b
}

// charge retries only when the processor could not be reached. A decline is
// final.
func (c *Checkout) charge(ctx context.Context, charge domain.Charge) (string, error) {
	return backoff.Retry(ctx, func() (string, error) {
		ref, err := c.payments.Charge(ctx, charge)
		if err != nil {
			if errors.Is(err, domain.ErrUpstreamFailure) {
				c.logger.Warn("payment provider unavailable, retrying", "error", err, "order_id", charge.IdempotencyKey)
				return "", err
			}

			return "", backoff.Permanent(err)
		}

		return ref, nil
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.paymentAttempts))
}

// retryUpstream repeats op while it fails with ErrUpstreamFailure. Any other
// error ends the loop at once.
func retryUpstream[T any](ctx context.Context, b backoff.BackOff, attempts uint, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errors.Is(err, domain.ErrUpstreamFailure) {
			return v, backoff.Permanent(err)
		}

		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
}

func (c *Checkout) refund(ctx context.Context, paymentRef string) error {
	_, err := retryUpstream(ctx, c.newBackOff(), c.paymentAttempts, func() (struct{}, error) {
		return struct{}{}, c.payments.Refund(ctx, paymentRef)
	})

	return err
}

func (c *Checkout) refundOrLog(ctx context.Context, paymentRef string) {
	err := c.refund(ctx, paymentRef)
	if err != nil {
		c.logger.Error("refund failed, manual reconciliation required", "error", err, "payment_ref", paymentRef)
	}
}

func (c *Checkout) persist(ctx context.Context, order *domain.Order) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.orders.Create(ctx, order)
		if errors.Is(err, domain.ErrAlreadySold) {
			return struct{}{}, backoff.Permanent(err)
		}

		return struct{}{}, err
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.persistAttempts))

	return err
}

// compensate undoes a sale that could not be recorded.
func (c *Checkout) compensate(ctx context.Context, order *domain.Order) {
	for _, seat := range order.Seats {
		err := c.engine.Revoke(ctx, seat.ShowtimeID, seat.SeatID, order.ID)
		if err != nil {
			c.logger.Error("failed to reopen seat", "error", err, "order_id", order.ID,
				"showtime_id", seat.ShowtimeID, "seat_id", seat.SeatID)
		}
	}

	c.refundOrLog(ctx, order.PaymentRef)
}

func (c *Checkout) GetOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error) {
	order, err := c.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.HolderID != holderID {
		return nil, domain.ErrNotOwner
	}

	return order, nil
}

// CancelOrder refunds a confirmed order and reopens its seats. Orders for a
// showtime that already started or was cancelled cannot be cancelled.
func (c *Checkout) CancelOrder(ctx context.Context, orderID, holderID string) (*domain.Order, error) {
	ctx, span := c.engine.tracer.Start(ctx, "Checkout.CancelOrder", trace.WithAttributes(
		attribute.String("order.id", orderID),
	))
	defer span.End()

	order, err := c.GetOrder(ctx, orderID, holderID)
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	if order.Status == domain.OrderStatusCancelled {
		return nil, c.engine.fail(ctx, span, domain.ErrOrderCancelled)
	}

	now := c.engine.now()

	checked := make(map[int]bool)
	for _, seat := range order.Seats {
		if checked[seat.ShowtimeID] {
			continue
		}

		showtime, err := c.engine.showtimes.GetByID(ctx, seat.ShowtimeID)
		if err != nil {
			return nil, c.engine.fail(ctx, span, err)
		}

		if !showtime.OpenForSale(now) {
			return nil, c.engine.fail(ctx, span, domain.ErrShowtimeClosed)
		}

		checked[seat.ShowtimeID] = true
	}

	// Claiming the order first means a concurrent cancel cannot refund twice.
	err = c.orders.MarkCancelled(ctx, order.ID, now)
	if err != nil {
		return nil, c.engine.fail(ctx, span, err)
	}

	err = c.refund(ctx, order.PaymentRef)
	if err != nil {
		c.reinstate(ctx, order)
		return nil, c.engine.fail(ctx, span, fmt.Errorf("refund order %s: %w", order.ID, err))
	}

	for _, seat := range order.Seats {
		err := c.engine.Revoke(ctx, seat.ShowtimeID, seat.SeatID, order.ID)
		if err != nil {
			c.logger.Error("failed to reopen seat of cancelled order", "error", err, "order_id", order.ID,
				"showtime_id", seat.ShowtimeID, "seat_id", seat.SeatID)
		}
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now

	c.ordersCancelled.Add(ctx, 1)
	c.logger.Info("order cancelled", "order_id", order.ID)

	return order, nil
}

// reinstate puts back an order whose cancellation was claimed but whose refund
// failed. Its seats were never reopened.
func (c *Checkout) reinstate(ctx context.Context, order *domain.Order) {
	err := c.orders.Reinstate(ctx, order.ID)
	if err != nil {
		c.logger.Error("order cancelled without refund, manual reconciliation required",
			"error", err, "order_id", order.ID, "payment_ref", order.PaymentRef)
	}
}
