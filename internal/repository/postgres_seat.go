package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatsForRoom(ctx context.Context, roomID int) ([]domain.Seat, error) {
	var exists bool

	err := p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	// Rows sort by label length first so "AA" follows "Z".
	query := `
		SELECT
			id,
			room_id,
			seat_row,
			seat_number,
			category,
			pos_x,
			pos_y,
			extra_price
		FROM seats
		WHERE room_id = $1
		ORDER BY length(seat_row), seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.RoomID,
			&seat.Row,
			&seat.Number,
			&seat.Category,
			&seat.X,
			&seat.Y,
			&seat.ExtraPrice,
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

func (p *PostgresSeatRepository) GetSeat(ctx context.Context, roomID, seatID int) (*domain.Seat, error) {
	query := `
		SELECT id, room_id, seat_row, seat_number, category, pos_x, pos_y, extra_price
		FROM seats
		WHERE room_id = $1 AND id = $2
	`

	var seat domain.Seat

	err := p.db.QueryRow(ctx, query, roomID, seatID).Scan(
		&seat.ID,
		&seat.RoomID,
		&seat.Row,
		&seat.Number,
		&seat.Category,
		&seat.X,
		&seat.Y,
		&seat.ExtraPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}

		return nil, err
	}

	return &seat, nil
}
