// Package messaging publishes seat state changes to a message broker so other
// services and connected clients can reconcile their seat maps.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

const (
	DefaultBufferSize     = 1024
	defaultPublishTimeout = 5 * time.Second
)

var (
	ErrPublisherClosed = errors.New("publisher is closed")
	ErrBufferFull      = errors.New("event buffer is full")
)

func encodeEvent(event domain.SeatEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal seat event: %w", err)
	}

	return body, nil
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.SeatEvent) error { return nil }
func (NoopPublisher) Close() error                                    { return nil }

// AsyncPublisher hands events to a single background worker so request paths
// never wait on the broker. When the buffer is full the event is dropped and
// ErrBufferFull is returned.
type AsyncPublisher struct {
	next    domain.EventPublisher
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan domain.SeatEvent
	done   chan struct{}
}

func NewAsyncPublisher(next domain.EventPublisher, bufferSize int, logger *slog.Logger) *AsyncPublisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	p := &AsyncPublisher{
		next:    next,
		logger:  logger,
		timeout: defaultPublishTimeout,
		events:  make(chan domain.SeatEvent, bufferSize),
		done:    make(chan struct{}),
	}

	go p.run()

	return p
}

func (p *AsyncPublisher) Publish(_ context.Context, event domain.SeatEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.events <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for event := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.next.Publish(ctx, event)
		cancel()

		if err != nil {
			p.logger.Error("failed to deliver seat event", "error", err,
				"type", event.Type, "showtime_id", event.ShowtimeID, "seat_id", event.SeatID)
		}
	}
}

// Close stops accepting events, delivers the buffered ones and closes the
// underlying publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.done

	return p.next.Close()
}
