package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-engine/internal/domain"
	"github.com/metinatakli/seat-reservation-engine/internal/messaging"
	"github.com/metinatakli/seat-reservation-engine/internal/payment"
	"github.com/metinatakli/seat-reservation-engine/internal/repository"
	"github.com/metinatakli/seat-reservation-engine/internal/reservation"
	appvalidator "github.com/metinatakli/seat-reservation-engine/internal/validator"
	"github.com/metinatakli/seat-reservation-engine/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "seat-reservation-api"

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	validator      *validator.Validate
	sessionManager *scs.SessionManager
	requestRouter  routers.Router

	reservations ReservationService
	inventory    InventoryService
	checkout     CheckoutService
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	sessionManager *scs.SessionManager,
	reservations ReservationService,
	inventory InventoryService,
	checkout CheckoutService) (*Application, error) {

	requestRouter, err := newRequestRouter()
	if err != nil {
		return nil, err
	}

	return &Application{
		config:         cfg,
		logger:         logger,
		validator:      validator,
		sessionManager: sessionManager,
		requestRouter:  requestRouter,
		reservations:   reservations,
		inventory:      inventory,
		checkout:       checkout,
	}, nil
}

func Run() error {
	cfg, displayVersion, err := ParseConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ledger, err := NewLedger(cfg, db, redisClient)
	if err != nil {
		return err
	}

	publisher, err := NewEventPublisher(cfg, logger)
	if err != nil {
		return err
	}

	stack, err := NewReservationStack(cfg, db, ledger, newPaymentProvider(cfg, logger), publisher, logger)
	if err != nil {
		return err
	}

	app, err := NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		NewSessionManager(redisClient),
		stack.Engine,
		stack.Inventory,
		stack.Checkout,
	)
	if err != nil {
		return err
	}

	return app.run(stack.Sweeper, publisher)
}

// ReservationStack is the engine with the components built on top of it.
type ReservationStack struct {
	Engine    *reservation.Engine
	Inventory *reservation.Inventory
	Checkout  *reservation.Checkout
	Sweeper   *reservation.Sweeper
}

func NewReservationStack(
	cfg Config,
	db *pgxpool.Pool,
	ledger domain.Ledger,
	payments domain.PaymentProvider,
	publisher domain.EventPublisher,
	logger *slog.Logger) (*ReservationStack, error) {

	engine, err := reservation.NewEngine(
		reservation.Config{
			HoldTTL:        cfg.Reservation.HoldTTL,
			SweepBatchSize: cfg.Reservation.SweepBatchSize,
		},
		ledger,
		repository.NewPostgresSeatRepository(db),
		repository.NewPostgresShowtimeRepository(db),
		publisher,
		logger,
	)
	if err != nil {
		return nil, err
	}

	checkout, err := reservation.NewCheckout(
		reservation.CheckoutConfig{Currency: cfg.Reservation.Currency},
		engine,
		repository.NewPostgresProductRepository(db),
		repository.NewPostgresOrderRepository(db),
		payments,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &ReservationStack{
		Engine:    engine,
		Inventory: reservation.NewInventory(engine, cfg.Reservation.AvailabilityCacheTTL),
		Checkout:  checkout,
		Sweeper:   reservation.NewSweeper(engine, cfg.Reservation.SweepInterval, logger),
	}, nil
}

func NewLedger(cfg Config, db *pgxpool.Pool, redisClient redis.UniversalClient) (domain.Ledger, error) {
	switch cfg.Reservation.Ledger {
	case LedgerPostgres, "":
		return repository.NewPostgresLedger(db), nil
	case LedgerRedis:
		return repository.NewRedisLedger(redisClient), nil
	case LedgerMemory:
		return repository.NewMemoryLedger(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Reservation.Ledger)
	}
}

// NewEventPublisher returns the configured broker publisher behind a buffer,
// so a slow broker never delays a seat transition.
func NewEventPublisher(cfg Config, logger *slog.Logger) (domain.EventPublisher, error) {
	var (
		next domain.EventPublisher
		err  error
	)

	switch cfg.Events.Broker {
	case BrokerNone, "":
		return messaging.NoopPublisher{}, nil
	case BrokerAMQP:
		next, err = messaging.NewAMQPPublisher(cfg.Events.AMQP, logger)
	case BrokerKafka:
		next, err = messaging.NewKafkaPublisher(cfg.Events.Kafka, logger)
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Events.Broker)
	}

	if err != nil {
		return nil, err
	}

	return messaging.NewAsyncPublisher(next, cfg.Events.BufferSize, logger), nil
}

func newPaymentProvider(cfg Config, logger *slog.Logger) domain.PaymentProvider {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("stripe key not set, using mock payment provider")
		return payment.NewMockPaymentProvider()
	}

	return payment.NewStripePaymentProvider()
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run(sweeper *reservation.Sweeper, publisher domain.EventPublisher) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()

	sweeper.Start(sweepCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)

		// seat events emitted by in-flight requests are flushed before exit
		sweeper.Stop()
		err = errors.Join(err, publisher.Close())

		shutdownError <- err
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env,
		"ledger", app.config.Reservation.Ledger, "hold_ttl", app.config.Reservation.HoldTTL.String())

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
