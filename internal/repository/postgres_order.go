package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

const (
	activeSeatConstraint = "idx_order_seats_active"
	orderPrimaryKey      = "orders_pkey"
)

type PostgresOrderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

func (p *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (id, holder_id, total, currency, payment_ref, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		_, err := tx.Exec(
			ctx,
			query,
			order.ID,
			order.HolderID,
			order.Total,
			order.Currency,
			order.PaymentRef,
			order.Status,
			order.CreatedAt,
		)
		if err != nil {
			return err
		}

		seatRows := make([][]any, 0, len(order.Seats))
		for _, seat := range order.Seats {
			seatRows = append(seatRows, []any{
				order.ID,
				seat.ShowtimeID,
				seat.SeatID,
				seat.Row,
				seat.Number,
				string(seat.Category),
				seat.Price,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"order_seats"},
			[]string{"order_id", "showtime_id", "seat_id", "seat_row", "seat_number", "category", "price"},
			pgx.CopyFromRows(seatRows),
		)
		if err != nil {
			return err
		}

		if len(order.Items) == 0 {
			return nil
		}

		itemRows := make([][]any, 0, len(order.Items))
		for _, item := range order.Items {
			itemRows = append(itemRows, []any{
				order.ID,
				item.ProductID,
				item.Name,
				item.Quantity,
				item.UnitPrice,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"order_items"},
			[]string{"order_id", "product_id", "name", "quantity", "unit_price"},
			pgx.CopyFromRows(itemRows),
		)

		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case activeSeatConstraint:
				return domain.ErrAlreadySold
			case orderPrimaryKey:
				// An earlier attempt committed but its reply was lost.
				return nil
			}
		}

		return err
	}

	return nil
}

func (p *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, holder_id, total, currency, payment_ref, status, created_at, cancelled_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order

	err := p.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.HolderID,
		&order.Total,
		&order.Currency,
		&order.PaymentRef,
		&order.Status,
		&order.CreatedAt,
		&order.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}

		return nil, err
	}

	order.Seats, err = p.getSeats(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Items, err = p.getItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (p *PostgresOrderRepository) getSeats(ctx context.Context, orderID string) ([]domain.OrderSeat, error) {
	query := `
		SELECT showtime_id, seat_id, seat_row, seat_number, category, price
		FROM order_seats
		WHERE order_id = $1
		ORDER BY length(seat_row), seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.OrderSeat, 0)

	for rows.Next() {
		var seat domain.OrderSeat

		err = rows.Scan(
			&seat.ShowtimeID,
			&seat.SeatID,
			&seat.Row,
			&seat.Number,
			&seat.Category,
			&seat.Price,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresOrderRepository) getItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT product_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)

	for rows.Next() {
		var item domain.OrderItem

		err = rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// MarkCancelled flags the order cancelled and frees its seats from the
// active-seat index so they can be sold again.
func (p *PostgresOrderRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET status = 'cancelled', cancelled_at = $2
			WHERE id = $1 AND status = 'confirmed'
		`

		tag, err := tx.Exec(ctx, query, id, at)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			var exists bool

			err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
			if err != nil {
				return err
			}

			if !exists {
				return domain.ErrOrderNotFound
			}

			return domain.ErrOrderCancelled
		}

		_, err = tx.Exec(ctx, `UPDATE order_seats SET active = FALSE WHERE order_id = $1`, id)

		return err
	})
}

// Reinstate reverts a cancellation whose refund did not go through. The seats
// were never reopened in the ledger, so reactivating them cannot collide with
// another sale.
func (p *PostgresOrderRepository) Reinstate(ctx context.Context, id string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET status = 'confirmed', cancelled_at = NULL
			WHERE id = $1 AND status = 'cancelled'
		`

		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}

		_, err = tx.Exec(ctx, `UPDATE order_seats SET active = TRUE WHERE order_id = $1`, id)

		return err
	})
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
