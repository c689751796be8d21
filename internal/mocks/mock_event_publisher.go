package mocks

import (
	"context"
	"sync"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []domain.SeatEvent
	Err    error
}

func (p *RecordingPublisher) Publish(ctx context.Context, event domain.SeatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.Err
}

func (p *RecordingPublisher) Close() error {
	return nil
}

func (p *RecordingPublisher) Events() []domain.SeatEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]domain.SeatEvent(nil), p.events...)
}

func (p *RecordingPublisher) Types() []domain.SeatEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]domain.SeatEventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}

	return types
}
