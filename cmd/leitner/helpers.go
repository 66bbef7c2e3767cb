package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/leitner/internal/backup"
	"github.com/at-ishikawa/leitner/internal/bootstrap"
	"github.com/at-ishikawa/leitner/internal/clock"
	"github.com/at-ishikawa/leitner/internal/config"
	"github.com/at-ishikawa/leitner/internal/database"
	"github.com/at-ishikawa/leitner/internal/flashcard"
	"github.com/at-ishikawa/leitner/internal/progress"
	"github.com/at-ishikawa/leitner/internal/settings"
	"github.com/at-ishikawa/leitner/internal/storage"
)

// appClock is replaced in tests.
var appClock clock.Clock = clock.System()

type application struct {
	config    *config.Config
	clock     clock.Clock
	lifecycle *bootstrap.App
	cards     *flashcard.Store
	tracker   *progress.Tracker
	settings  *settings.Repository
	backup    *backup.Service
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// runApplication opens the configured store, builds the services on top of it and calls fn.
// Everything opened is released when fn returns or the process is interrupted.
func runApplication(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	lifecycle := bootstrap.New()
	app, err := newApplication(ctx, cfg, lifecycle)
	if err != nil {
		return errors.Join(err, lifecycle.Shutdown(context.Background()))
	}
	return lifecycle.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, app)
	})
}

func newApplication(ctx context.Context, cfg *config.Config, lifecycle *bootstrap.App) (*application, error) {
	kv, err := openStore(ctx, cfg, lifecycle)
	if err != nil {
		return nil, fmt.Errorf("openStore() > %w", err)
	}

	cards, err := flashcard.NewStore(ctx, kv, appClock)
	if err != nil {
		return nil, fmt.Errorf("flashcard.NewStore() > %w", err)
	}
	tracker, err := progress.NewTracker(ctx, kv)
	if err != nil {
		return nil, fmt.Errorf("progress.NewTracker() > %w", err)
	}
	settingsRepository := settings.NewRepository(kv, settings.Settings{
		TimerEnabled:   cfg.Study.TimerEnabled,
		MaxCardSeconds: cfg.Study.MaxCardSeconds,
	})

	return &application{
		config:    cfg,
		clock:     appClock,
		lifecycle: lifecycle,
		cards:     cards,
		tracker:   tracker,
		settings:  settingsRepository,
		backup:    backup.NewService(cards, tracker, settingsRepository),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, lifecycle *bootstrap.App) (storage.Store, error) {
	var store storage.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverYAML:
		fileStore, err := storage.NewFileStore(cfg.Storage.Directory)
		if err != nil {
			return nil, fmt.Errorf("storage.NewFileStore() > %w", err)
		}
		store = fileStore
	case config.StorageDriverMemory:
		store = storage.NewMemoryStore()
	case config.StorageDriverMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		lifecycle.AddShutdownHook("mysql", func(ctx context.Context) error {
			return db.Close()
		})
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("db.PingContext() > %w", err)
		}
		store = storage.NewMySQLStore(db)
	case config.StorageDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lifecycle.AddShutdownHook("redis", func(ctx context.Context) error {
			return client.Close()
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("client.Ping() > %w", err)
		}
		store = storage.NewRedisStore(client, cfg.Redis.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	delay := time.Duration(cfg.Storage.Retry.DelayMS) * time.Millisecond
	return storage.NewRetryStore(store, cfg.Storage.Retry.Attempts, delay), nil
}

func parseCardID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid card id: %s", s)
	}
	return id, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	enabled, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %s", s)
	}
	return enabled, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
