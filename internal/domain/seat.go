package domain

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type SeatCategory string

const (
	SeatCategoryStandard   SeatCategory = "standard"
	SeatCategoryPremium    SeatCategory = "premium"
	SeatCategoryRecliner   SeatCategory = "recliner"
	SeatCategoryAccessible SeatCategory = "accessible"
	SeatCategoryVIP        SeatCategory = "vip"
)

func (c SeatCategory) Valid() bool {
	switch c {
	case SeatCategoryStandard, SeatCategoryPremium, SeatCategoryRecliner, SeatCategoryAccessible, SeatCategoryVIP:
		return true
	}

	return false
}

// Seat is the immutable geometry of a single seat in a room. Its natural
// identity is (RoomID, Row, Number); ID is the catalog key used by the API.
type Seat struct {
	ID         int
	RoomID     int
	Row        string
	Number     int
	Category   SeatCategory
	X          int
	Y          int
	ExtraPrice decimal.Decimal
}

// Label returns the human readable seat name, e.g. "A12".
func (s Seat) Label() string {
	return s.Row + strconv.Itoa(s.Number)
}

type Showtime struct {
	ID          int
	MovieID     int
	RoomID      int
	MovieTitle  string
	StartTime   time.Time
	BasePrice   decimal.Decimal
	CancelledAt *time.Time
}

// OpenForSale reports whether holds may still be taken for the showtime.
func (s Showtime) OpenForSale(now time.Time) bool {
	return s.CancelledAt == nil && now.Before(s.StartTime)
}

type SeatCatalog interface {
	GetSeatsForRoom(ctx context.Context, roomID int) ([]Seat, error)
	GetSeat(ctx context.Context, roomID, seatID int) (*Seat, error)
}

type ShowtimeRepository interface {
	GetByID(ctx context.Context, id int) (*Showtime, error)
}
