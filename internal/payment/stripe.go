package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

// StripePaymentProvider charges a saved payment method with a confirmed
// PaymentIntent. stripe.Key must be set before use.
type StripePaymentProvider struct {
	newIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	newRefund func(params *stripe.RefundParams) (*stripe.Refund, error)
}

func NewStripePaymentProvider() *StripePaymentProvider {
	return &StripePaymentProvider{
		newIntent: paymentintent.New,
		newRefund: refund.New,
	}
}

func (s *StripePaymentProvider) Charge(ctx context.Context, charge domain.Charge) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(charge.Amount)),
		Currency:      stripe.String(strings.ToLower(charge.Currency)),
		PaymentMethod: stripe.String(charge.Token),
		Description:   stripe.String(charge.Description),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", charge.IdempotencyKey)
	params.SetIdempotencyKey("charge-" + charge.IdempotencyKey)

	intent, err := s.newIntent(params)
	if err != nil {
		return "", classify(err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("%w: payment intent %s is %s", domain.ErrPaymentDeclined, intent.ID, intent.Status)
	}

	return intent.ID, nil
}

// Refund returns the full amount of a charge. Refunding twice is not an error.
func (s *StripePaymentProvider) Refund(ctx context.Context, paymentRef string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRef),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + paymentRef)

	_, err := s.newRefund(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded {
			return nil
		}

		return classify(err)
	}

	return nil
}

// classify maps card errors and rejected requests to a decline. Anything else
// is an upstream failure the caller may retry.
func classify(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, stripeErr.Msg)
	}

	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeInvalidRequest &&
		stripeErr.HTTPStatusCode < 500 && stripeErr.HTTPStatusCode != http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, stripeErr.Msg)
	}

	return fmt.Errorf("%w: stripe: %w", domain.ErrUpstreamFailure, err)
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
