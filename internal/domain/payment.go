package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

type Charge struct {
	Token          string
	Amount         decimal.Decimal
	Currency       string
	Description    string
	IdempotencyKey string
}

// PaymentProvider returns ErrPaymentDeclined when the processor refuses the
// charge and wraps ErrUpstreamFailure when it could not be reached.
type PaymentProvider interface {
	Charge(ctx context.Context, charge Charge) (paymentRef string, err error)
	Refund(ctx context.Context, paymentRef string) error
}
