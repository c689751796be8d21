package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

var errVersionMismatch = errors.New("version mismatch")

// PostgresLedger stores one row per written seat key in seat_states. A key
// without a row is Open at version 0.
type PostgresLedger struct {
	db *pgxpool.Pool
}

func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{
		db: db,
	}
}

const seatStateColumns = `
	showtime_id,
	seat_id,
	status,
	hold_id,
	holder_id,
	held_at,
	expires_at,
	order_id,
	sold_at,
	version
`

func scanSeatRecord(row pgx.Row) (domain.SeatRecord, error) {
	var key domain.SeatKey
	var rec ledgerRecord

	err := row.Scan(
		&key.ShowtimeID,
		&key.SeatID,
		&rec.Status,
		&rec.HoldID,
		&rec.HolderID,
		&rec.HeldAt,
		&rec.ExpiresAt,
		&rec.OrderID,
		&rec.SoldAt,
		&rec.Version,
	)
	if err != nil {
		return domain.SeatRecord{}, err
	}

	return rec.toSeatRecord(key)
}

func (p *PostgresLedger) Get(ctx context.Context, key domain.SeatKey) (domain.SeatRecord, error) {
	query := `SELECT ` + seatStateColumns + ` FROM seat_states WHERE showtime_id = $1 AND seat_id = $2`

	record, err := scanSeatRecord(p.db.QueryRow(ctx, query, key.ShowtimeID, key.SeatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SeatRecord{Key: key, State: domain.Open{}}, nil
		}

		return domain.SeatRecord{}, err
	}

	return record, nil
}

func (p *PostgresLedger) GetByHoldID(ctx context.Context, holdID string) (domain.SeatRecord, error) {
	query := `SELECT ` + seatStateColumns + ` FROM seat_states WHERE hold_id = $1`

	record, err := scanSeatRecord(p.db.QueryRow(ctx, query, holdID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SeatRecord{}, domain.ErrHoldNotFound
		}

		return domain.SeatRecord{}, err
	}

	return record, nil
}

func (p *PostgresLedger) ListByShowtime(ctx context.Context, showtimeID int) ([]domain.SeatRecord, error) {
	query := `SELECT ` + seatStateColumns + ` FROM seat_states WHERE showtime_id = $1 ORDER BY seat_id`

	return p.list(ctx, query, showtimeID)
}

func (p *PostgresLedger) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.SeatRecord, error) {
	query := `SELECT ` + seatStateColumns + `
		FROM seat_states
		WHERE status = 'held' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`

	return p.list(ctx, query, now, limit)
}

func (p *PostgresLedger) list(ctx context.Context, query string, args ...any) ([]domain.SeatRecord, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.SeatRecord, 0)

	for rows.Next() {
		record, err := scanSeatRecord(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (p *PostgresLedger) CompareAndSet(ctx context.Context, t domain.Transition) (bool, error) {
	return applyTransition(ctx, p.db, t)
}

func (p *PostgresLedger) CompareAndSetBatch(ctx context.Context, ts []domain.Transition) (bool, error) {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		for _, t := range ts {
			ok, err := applyTransition(ctx, tx, t)
			if err != nil {
				return err
			}

			if !ok {
				return errVersionMismatch
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, errVersionMismatch) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// applyTransition inserts the first row of a key or bumps the version of an
// existing one. Zero affected rows means another writer got there first.
func applyTransition(ctx context.Context, db execer, t domain.Transition) (bool, error) {
	rec := newLedgerRecord(t.Next, t.ExpectedVersion+1)

	var query string

	if t.ExpectedVersion == 0 {
		query = `
			INSERT INTO seat_states (
				showtime_id, seat_id, status, hold_id, holder_id, held_at, expires_at, order_id, sold_at, version
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (showtime_id, seat_id) DO NOTHING
		`
	} else {
		query = `
			UPDATE seat_states
			SET status = $3,
				hold_id = $4,
				holder_id = $5,
				held_at = $6,
				expires_at = $7,
				order_id = $8,
				sold_at = $9,
				version = $10,
				updated_at = NOW()
			WHERE showtime_id = $1 AND seat_id = $2 AND version = $10 - 1
		`
	}

	tag, err := db.Exec(
		ctx,
		query,
		t.Key.ShowtimeID,
		t.Key.SeatID,
		rec.Status,
		rec.HoldID,
		rec.HolderID,
		rec.HeldAt,
		rec.ExpiresAt,
		rec.OrderID,
		rec.SoldAt,
		rec.Version,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
