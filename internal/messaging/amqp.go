package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultAMQPExchange = "seat.events"
	DefaultAMQPQueue    = "seat.events"
)

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes seat events as persistent JSON messages to a durable
// topic exchange. The routing key is the event type, e.g. "seat.held".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	channel amqpChannel
}

func NewAMQPPublisher(cfg AMQPConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultAMQPExchange
	}

	if cfg.Queue == "" {
		cfg.Queue = DefaultAMQPQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = declareTopology(ch, cfg)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq seat event publisher ready", "exchange", cfg.Exchange, "queue", cfg.Queue)

	p := newAMQPPublisher(ch, cfg.Exchange, logger)
	p.conn = conn

	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		exchange: exchange,
		logger:   logger,
		channel:  ch,
	}
}

// declareTopology is idempotent. The queue keeps every seat event for
// consumers that are not connected yet.
func declareTopology(ch *amqp.Channel, cfg AMQPConfig) error {
	err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	_, err = ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.Queue, err)
	}

	err = ch.QueueBind(cfg.Queue, "seat.#", cfg.Exchange, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue %s: %w", cfg.Queue, err)
	}

	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.SeatEvent) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt.UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg)
	if err != nil {
		return fmt.Errorf("publish %s to rabbitmq: %w", event.Type, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error

	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}

	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}

	return errors.Join(errs...)
}
