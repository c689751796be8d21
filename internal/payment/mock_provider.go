package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

// Tokens understood by MockPaymentProvider. Any other token is charged.
const (
	TokenDeclined    = "tok_chargeDeclined"
	TokenUnavailable = "tok_unavailable"
)

// MockPaymentProvider is an in-process processor for local runs and
// integration tests.
type MockPaymentProvider struct {
	mu       sync.Mutex
	charges  map[string]domain.Charge
	refunded map[string]bool
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{
		charges:  make(map[string]domain.Charge),
		refunded: make(map[string]bool),
	}
}

func (m *MockPaymentProvider) Charge(_ context.Context, charge domain.Charge) (string, error) {
	switch charge.Token {
	case TokenDeclined:
		return "", fmt.Errorf("%w: card declined", domain.ErrPaymentDeclined)
	case TokenUnavailable:
		return "", fmt.Errorf("%w: processor unreachable", domain.ErrUpstreamFailure)
	}

	ref := "pi_mock_" + charge.IdempotencyKey

	m.mu.Lock()
	defer m.mu.Unlock()

	m.charges[ref] = charge

	return ref, nil
}

func (m *MockPaymentProvider) Refund(_ context.Context, paymentRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.charges[paymentRef]; !ok {
		return fmt.Errorf("%w: unknown payment %s", domain.ErrPaymentDeclined, paymentRef)
	}

	m.refunded[paymentRef] = true

	return nil
}

func (m *MockPaymentProvider) Charged(paymentRef string) (domain.Charge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.charges[paymentRef]

	return c, ok
}

func (m *MockPaymentProvider) Refunded(paymentRef string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.refunded[paymentRef]
}
