package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httphandler "github.com/ogurasousui/roster/internal/adapters/http/handler"
	"github.com/ogurasousui/roster/internal/adapters/kv"
	kvpostgres "github.com/ogurasousui/roster/internal/adapters/kv/postgres"
	kvredis "github.com/ogurasousui/roster/internal/adapters/kv/redis"
	"github.com/ogurasousui/roster/internal/core/employee"
	"github.com/ogurasousui/roster/internal/core/listing"
	"github.com/ogurasousui/roster/internal/core/seed"
	"github.com/ogurasousui/roster/internal/observability/metrics"
	"github.com/ogurasousui/roster/internal/platform/config"
	pgdb "github.com/ogurasousui/roster/internal/platform/db/postgres"
	"github.com/ogurasousui/roster/internal/platform/i18n"
	"github.com/ogurasousui/roster/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	persist, cleanup, err := newPersistence(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize persistence", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	store := employee.NewStore(metrics.InstrumentKV(persist), nil, logger)
	if err := store.Hydrate(ctx); err != nil {
		// 永続化の欠落は劣化モードであり、空の状態で起動を続けます。
		logger.Warn("starting without persisted snapshot", slog.String("error", err.Error()))
	}

	importer := seed.New(cfg.Seed.URL, store, nil, logger)
	importer.Run(ctx)

	engine := listing.NewEngine(store, cfg.List.TablePageSize, cfg.List.CardsPageSize)
	unsubscribe := store.Subscribe(engine.Refresh)
	defer unsubscribe()

	localizer := i18n.New(cfg.I18n.DefaultLocale)
	h := httphandler.NewEmployeeHandler(store, engine, localizer, nil)
	srv := server.New(cfg.Server.ListenAddr, httphandler.NewRouter(h))

	logger.Info("http server listening", slog.String("addr", cfg.Server.ListenAddr))

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store.Flush()
}

func newPersistence(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := pgdb.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return kvpostgres.NewStore(pool), pool.Close, nil
	default:
		store := kvredis.New(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		return store, func() { _ = store.Close() }, nil
	}
}
