package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          string
	HolderID    string
	Seats       []OrderSeat
	Items       []OrderItem
	Total       decimal.Decimal
	Currency    string
	PaymentRef  string
	Status      OrderStatus
	CreatedAt   time.Time
	CancelledAt *time.Time
}

type OrderSeat struct {
	ShowtimeID int
	SeatID     int
	Row        string
	Number     int
	Category   SeatCategory
	Price      decimal.Decimal
}

type OrderItem struct {
	ProductID int
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CalculateTotal sums seat prices and concession subtotals.
func CalculateTotal(seats []OrderSeat, items []OrderItem) decimal.Decimal {
	total := decimal.Zero

	for _, s := range seats {
		total = total.Add(s.Price)
	}

	for _, i := range items {
		total = total.Add(i.Subtotal())
	}

	return total
}

// OrderRequest asks to buy the seats of HoldIDs plus optional concession items.
type OrderRequest struct {
	HolderID     string
	HoldIDs      []string
	PaymentToken string
	Items        []ItemRequest
}

type ItemRequest struct {
	ProductID int
	Quantity  int
}

type Product struct {
	ID     int
	Name   string
	Price  decimal.Decimal
	Active bool
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int) ([]Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// MarkCancelled succeeds only for a confirmed order.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// Reinstate reverts MarkCancelled.
	Reinstate(ctx context.Context, id string) error
}
