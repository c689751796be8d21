package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/app"
	"github.com/metinatakli/seat-reservation-engine/internal/messaging"
	"github.com/metinatakli/seat-reservation-engine/internal/payment"
	"github.com/metinatakli/seat-reservation-engine/internal/reservation"
	appvalidator "github.com/metinatakli/seat-reservation-engine/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App      *app.Application
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Engine   *reservation.Engine
	Payments *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	ledger, err := app.NewLedger(cfg, db, redisClient)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	payments := payment.NewMockPaymentProvider()

	stack, err := app.NewReservationStack(cfg, db, ledger, payments, messaging.NoopPublisher{}, logger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	application, err := app.NewApp(
		cfg,
		logger,
		validator,
		sessionManager,
		stack.Engine,
		stack.Inventory,
		stack.Checkout,
	)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	return &TestApp{
		App:      application,
		DB:       db,
		Redis:    redisClient,
		Engine:   stack.Engine,
		Payments: payments,
	}, nil
}
