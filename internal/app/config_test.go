package app

import (
	"testing"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Setenv("LEDGER", "")
	t.Setenv("HOLD_TTL_SECONDS", "")
	t.Setenv("EVENTS_BROKER", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, displayVersion, err := ParseConfig(nil)
	require.NoError(t, err)

	assert.False(t, displayVersion)
	assert.Equal(t, LedgerPostgres, cfg.Reservation.Ledger)
	assert.Equal(t, 5*time.Minute, cfg.Reservation.HoldTTL)
	assert.Equal(t, 30*time.Second, cfg.Reservation.SweepInterval)
	assert.Zero(t, cfg.Reservation.AvailabilityCacheTTL)
	assert.Equal(t, BrokerNone, cfg.Events.Broker)
	assert.Equal(t, messaging.DefaultBufferSize, cfg.Events.BufferSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Kafka.Brokers)
}

func TestParseConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("HOLD_TTL_SECONDS", "120")
	t.Setenv("LEDGER", LedgerRedis)

	cfg, _, err := ParseConfig([]string{
		"-sweep-interval-seconds", "5",
		"-ledger", LedgerMemory,
		"-events-broker", BrokerKafka,
		"-kafka-brokers", "k1:9092, k2:9092,",
		"-availability-cache-ttl", "1500ms",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Reservation.HoldTTL, "environment sets the default")
	assert.Equal(t, 5*time.Second, cfg.Reservation.SweepInterval)
	assert.Equal(t, LedgerMemory, cfg.Reservation.Ledger, "flag wins over environment")
	assert.Equal(t, BrokerKafka, cfg.Events.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.Reservation.AvailabilityCacheTTL)
}

func TestParseConfig_Version(t *testing.T) {
	_, displayVersion, err := ParseConfig([]string{"-version"})
	require.NoError(t, err)
	assert.True(t, displayVersion)
}

func TestNewLedger_UnknownBackend(t *testing.T) {
	_, err := NewLedger(Config{Reservation: ReservationConfig{Ledger: "cassandra"}}, nil, nil)
	assert.ErrorContains(t, err, "cassandra")
}

func TestNewEventPublisher(t *testing.T) {
	publisher, err := NewEventPublisher(Config{Events: EventsConfig{Broker: BrokerNone}}, nil)
	require.NoError(t, err)
	assert.IsType(t, messaging.NoopPublisher{}, publisher)

	_, err = NewEventPublisher(Config{Events: EventsConfig{Broker: "nats"}}, nil)
	assert.ErrorContains(t, err, "nats")
}
