package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	saramamocks "github.com/IBM/sarama/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/mocks"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seatEvent(seatID int, typ domain.SeatEventType) domain.SeatEvent {
	return domain.SeatEvent{
		Type:       typ,
		ShowtimeID: 42,
		SeatID:     seatID,
		HoldID:     "hold-" + strconv.Itoa(seatID),
		Version:    1,
		OccurredAt: time.Date(2095, 1, 1, 20, 0, 0, 0, time.UTC),
	}
}

// gatedPublisher blocks every publish until the gate is closed.
type gatedPublisher struct {
	mocks.RecordingPublisher
	gate   chan struct{}
	closed bool
}

func (p *gatedPublisher) Publish(ctx context.Context, event domain.SeatEvent) error {
	<-p.gate
	return p.RecordingPublisher.Publish(ctx, event)
}

func (p *gatedPublisher) Close() error {
	p.closed = true
	return nil
}

func TestAsyncPublisher_DeliversInOrder(t *testing.T) {
	next := &mocks.RecordingPublisher{}
	p := NewAsyncPublisher(next, 16, discard)

	want := []domain.SeatEvent{
		seatEvent(1, domain.SeatEventHeld),
		seatEvent(1, domain.SeatEventReleased),
		seatEvent(2, domain.SeatEventHeld),
	}

	for _, e := range want {
		require.NoError(t, p.Publish(context.Background(), e))
	}

	require.NoError(t, p.Close())

	if diff := cmp.Diff(want, next.Events()); diff != "" {
		t.Errorf("delivered events mismatch (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, p.Publish(context.Background(), seatEvent(3, domain.SeatEventHeld)), ErrPublisherClosed)
	assert.NoError(t, p.Close(), "close is idempotent")
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	next := &gatedPublisher{gate: make(chan struct{})}
	p := NewAsyncPublisher(next, 1, discard)

	// The worker takes the first event and blocks on the gate, the second
	// fills the buffer.
	require.NoError(t, p.Publish(context.Background(), seatEvent(1, domain.SeatEventHeld)))
	require.Eventually(t, func() bool { return len(p.events) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), seatEvent(2, domain.SeatEventHeld)))

	err := p.Publish(context.Background(), seatEvent(3, domain.SeatEventHeld))
	assert.ErrorIs(t, err, ErrBufferFull)

	close(next.gate)
	require.NoError(t, p.Close())

	assert.Len(t, next.Events(), 2)
	assert.True(t, next.closed)
}

func TestAsyncPublisher_KeepsGoingAfterDeliveryFailure(t *testing.T) {
	next := &mocks.RecordingPublisher{Err: errors.New("broker unavailable")}
	p := NewAsyncPublisher(next, 4, discard)

	require.NoError(t, p.Publish(context.Background(), seatEvent(1, domain.SeatEventHeld)))
	require.NoError(t, p.Publish(context.Background(), seatEvent(2, domain.SeatEventHeld)))
	require.NoError(t, p.Close())

	assert.Len(t, next.Events(), 2)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := saramamocks.NewSyncProducer(t, nil)
	event := seatEvent(7, domain.SeatEventSold)
	event.OrderID = "order-1"

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var got domain.SeatEvent
		if err := json.Unmarshal(value, &got); err != nil {
			return err
		}

		if diff := cmp.Diff(event, got); diff != "" {
			return errors.New("unexpected payload: " + diff)
		}

		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "", discard)
	assert.Equal(t, DefaultKafkaTopic, p.topic)

	require.NoError(t, p.Publish(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := saramamocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrNotEnoughReplicas)

	p := NewKafkaPublisherWithProducer(producer, "seats", discard)

	err := p.Publish(context.Background(), seatEvent(1, domain.SeatEventHeld))
	assert.ErrorIs(t, err, sarama.ErrNotEnoughReplicas)
	require.NoError(t, p.Close())
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := NewSaramaConfig(KafkaConfig{Timeout: 3 * time.Second})

	assert.True(t, cfg.Producer.Return.Successes)
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.Equal(t, 3*time.Second, cfg.Producer.Timeout)
	assert.NoError(t, cfg.Validate())
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu        sync.Mutex
	published []publishedMessage
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.published = append(c.published, publishedMessage{exchange: exchange, key: key, msg: msg})

	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newAMQPPublisher(ch, DefaultAMQPExchange, discard)
	event := seatEvent(3, domain.SeatEventExpired)

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, DefaultAMQPExchange, got.exchange)
	assert.Equal(t, "seat.expired", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.JSONEq(t, `{
		"type": "seat.expired",
		"showtimeId": 42,
		"seatId": 3,
		"holdId": "hold-3",
		"version": 1,
		"occurredAt": "2095-01-01T20:00:00Z"
	}`, string(got.msg.Body))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := newAMQPPublisher(ch, DefaultAMQPExchange, discard)

	err := p.Publish(context.Background(), seatEvent(1, domain.SeatEventHeld))
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
