package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

const DefaultKafkaTopic = "seat-events"

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Timeout time.Duration
}

// NewSaramaConfig returns the producer settings the publisher relies on:
// acknowledged, idempotent writes hashed by key.
func NewSaramaConfig(cfg KafkaConfig) *sarama.Config {
	sc := sarama.NewConfig()

	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	if cfg.Timeout > 0 {
		sc.Producer.Timeout = cfg.Timeout
	}

	return sc
}

// KafkaPublisher writes seat events keyed by showtime, so every event of a
// showtime lands on the same partition in ledger order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger.Info("kafka seat event publisher ready", "brokers", cfg.Brokers, "topic", cfg.Topic)

	return NewKafkaPublisherWithProducer(producer, cfg.Topic, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}

	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, event domain.SeatEvent) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(event.ShowtimeID)),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("seat_version"), Value: []byte(strconv.FormatInt(event.Version, 10))},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s to kafka: %w", event.Type, err)
	}

	p.logger.Debug("seat event published", "type", event.Type, "partition", partition, "offset", offset)

	return nil
}

func (p *KafkaPublisher) Close() error {
	err := p.producer.Close()
	if err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}

	return nil
}
