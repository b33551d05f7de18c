package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"qbooking/internal/app/commands"
	availabilityapp "qbooking/internal/app/handlers/availability"
	bookingapp "qbooking/internal/app/handlers/booking"
	holidayapp "qbooking/internal/app/handlers/holidays"
	inventoryapp "qbooking/internal/app/handlers/inventory"
	"qbooking/internal/app/middleware"
	appoutbox "qbooking/internal/app/outbox"
	"qbooking/internal/app/policies"
	"qbooking/internal/app/queries"
	"qbooking/internal/app/uow"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/infra/broker/kafka"
	rediscache "qbooking/internal/infra/cache/redis"
	"qbooking/internal/infra/config"
	mongodb "qbooking/internal/infra/db/mongo"
	ginserver "qbooking/internal/infra/http/gin"
	"qbooking/internal/infra/inbox"
	"qbooking/internal/infra/obs"
	outboxrelay "qbooking/internal/infra/outbox"
	"qbooking/internal/infra/storage/memory"
	"qbooking/internal/infra/validation"
)

const inventoryTopic = "inventory.events.v1"

// inventoryStore is the write side the fixture loader seeds.
type inventoryStore struct {
	properties inventory.PropertyRepository
	roomTypes  inventory.RoomTypeRepository
	holidays   calendar.HolidayRepository
}

type application struct {
	handlers ginserver.Handlers
	health   obs.HealthHandlers
	store    inventoryStore
	commands commands.Bus
	queries  queries.Bus

	background []func(ctx context.Context) error
	closers    []func(ctx context.Context) error
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{logger: logger}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	clock := policies.Clock{Location: loc}
	checks := map[string]obs.Check{}

	var (
		factory  uow.UoWFactory
		box      appoutbox.Outbox
		idStore  middleware.IdempotencyStore
		mongoCli *mongodb.Client
	)
	switch cfg.StorageMode {
	case config.StorageMongo:
		mongoCli, err = mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		app.closers = append(app.closers, mongoCli.Close)
		checks["mongo"] = mongoCli.Ping

		mf := mongodb.NewFactory(mongoCli.DB)
		factory = mf
		app.store = inventoryStore{properties: mf.PropertiesRepo, roomTypes: mf.RoomTypesRepo, holidays: mf.HolidaysRepo}
		idStore = mongodb.NewIdempotencyStore(mongoCli.DB, cfg.IdempotencyTTL)

		store := outboxrelay.NewStore(mongoCli.DB)
		box = store
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				app.Close()
				return nil, fmt.Errorf("kafka producer: %w", err)
			}
			app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
			worker := &outboxrelay.Worker{
				Queue:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
				Logger:      logger.With("component", "outbox"),
			}
			app.background = append(app.background, worker.Run)
		} else {
			logger.Warn("KAFKA_BROKERS not set, outbox events stay pending")
		}
	default:
		mf := memory.Factory{
			PropertiesRepo: memory.NewPropertyRepository(),
			RoomTypesRepo:  memory.NewRoomTypeRepository(),
			LedgersRepo:    memory.NewLedgerRepository(),
			HolidaysRepo:   memory.NewHolidayRepository(),
		}
		factory = mf
		app.store = inventoryStore{properties: mf.PropertiesRepo, roomTypes: mf.RoomTypesRepo, holidays: mf.HolidaysRepo}
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		box = memory.NewLoggingOutbox(logger.With("component", "outbox"))
	}

	var cache policies.CalendarCache = memory.NewCalendarCache(cfg.CalendarCacheTTL)
	if cfg.RedisAddr != "" {
		rc, err := rediscache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return rc.Close() })
		checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
		cache = rediscache.NewCalendarCache(rc, cfg.CalendarCacheTTL)
	}

	if cfg.KafkaListen && len(cfg.KafkaBrokers) > 0 {
		if err := app.listenForInventoryChanges(cfg, cache, mongoCli); err != nil {
			app.Close()
			return nil, err
		}
	}

	app.wireBuses(factory, box, idStore, cache, clock, logger)
	app.health = obs.HealthHandlers{Checks: checks, Timeout: 2 * time.Second}
	return app, nil
}

// listenForInventoryChanges drops cached calendars when another instance
// reserves or releases rooms. Each instance uses its own consumer group.
func (a *application) listenForInventoryChanges(cfg config.Config, cache policies.CalendarCache, mongoCli *mongodb.Client) error {
	groupID := "qbooking-calendar-" + uuid.NewString()
	listener := kafka.CalendarListener{Cache: cache}
	if mongoCli != nil {
		listener.Inbox = inbox.NewStore(mongoCli.DB, groupID, 24*time.Hour)
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, groupID, nil, listener, a.logger.With("component", "calendar-listener"))
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return consumer.Close() })
	topics := []string{cfg.KafkaTopicPrefix + inventoryTopic}
	a.background = append(a.background, func(ctx context.Context) error { return consumer.Run(ctx, topics) })
	return nil
}

func (a *application) wireBuses(factory uow.UoWFactory, box appoutbox.Outbox, idStore middleware.IdempotencyStore, cache policies.CalendarCache, clock policies.Clock, logger *slog.Logger) {
	validator := validation.New()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, &bookingapp.ReserveRoomsHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder, Clock: clock,
	})
	commands.RegisterHandler(commandBus, &bookingapp.CancelReservationHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder, Clock: clock,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, &availabilityapp.CheckAvailabilityHandler{UoWFactory: factory, Clock: clock})
	queries.RegisterHandler(queryBus, &availabilityapp.GetAvailableDatesHandler{
		UoWFactory: factory, Cache: cache, Clock: clock, Logger: logger,
	})
	queries.RegisterHandler(queryBus, &inventoryapp.GetRoomTypeHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, &inventoryapp.ListRoomTypesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, &holidayapp.ListHolidaysHandler{UoWFactory: factory})

	a.commands = middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(validator),
		middleware.Idempotency(idStore, nil),
		middleware.CalendarInvalidation(cache, logger),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	a.queries = middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	a.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{Queries: a.queries},
		Booking:      ginserver.BookingHandler{Commands: a.commands},
		Inventory:    ginserver.InventoryHandler{Queries: a.queries},
	}
}

func (a *application) startBackground(ctx context.Context) {
	for _, run := range a.background {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("background worker stopped", "error", err)
			}
		}()
	}
}

func (a *application) wait() {
	a.wg.Wait()
}

// Close releases connections in reverse order of acquisition.
func (a *application) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func fixturesPath(cfg config.Config) string {
	if cfg.InventoryFixtures != "" {
		return cfg.InventoryFixtures
	}
	candidates := []string{"data/inventory.json", "../../data/inventory.json"}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
