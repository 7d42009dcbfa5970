package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quiz-registry/internal/config"
	"github.com/aliskhannn/quiz-registry/internal/delivery/httpapi"
	"github.com/aliskhannn/quiz-registry/internal/delivery/telegram"
	"github.com/aliskhannn/quiz-registry/internal/domain/entities"
	"github.com/aliskhannn/quiz-registry/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/quiz-registry/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-registry/internal/infra/sqlite"
	"github.com/aliskhannn/quiz-registry/internal/logger"
	"github.com/aliskhannn/quiz-registry/internal/service"
	"github.com/aliskhannn/quiz-registry/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("registry stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	tx, stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer closeStores()

	var opts []service.Option
	if cfg.Registry.LegacyGrantResult {
		lg.Warn("legacy grant result enabled: successful educator grants report InvalidCaller")
		opts = append(opts, service.WithLegacyGrantResult())
	}

	owner, _ := entities.ParseIdentity(cfg.Registry.Owner)
	host, err := service.Bootstrap(ctx, tx, stores, owner, lg, opts...)
	if err != nil {
		return fmt.Errorf("bootstrap registry: %w", err)
	}
	lg.Info("registry ready",
		zap.String("owner", host.Owner().String()),
		zap.String("storage", cfg.Storage.Driver),
	)

	var bot *tgbotapi.BotAPI
	if cfg.TelegramAPIToken != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
			lg.Warn("failed to set bot commands", zap.Error(err))
		}
		bot.Debug = cfg.Env != "production"
		lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))
	}

	g, ctx := errgroup.WithContext(ctx)

	auditor := service.NewAuditor(host, cfg.Audit.Schedule, lg.Named("audit"))
	g.Go(func() error { return auditor.Start(ctx) })

	if bot != nil {
		handler := telegram.NewHandler(bot, lg.Named("telegram"), host)
		g.Go(func() error {
			defer bot.StopReceivingUpdates()
			return handler.Run(ctx)
		})
	}

	if cfg.HTTP.JWTSecret != "" {
		api := httpapi.NewHandler(host, httpapi.NewAuthenticator(cfg.HTTP.JWTSecret), lg.Named("http"))
		srv := httpapi.NewServer(cfg.HTTP.Addr, api)

		g.Go(func() error {
			lg.Info("http api listening", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http api: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// openStores returns the transactor and repositories for the configured driver.
func openStores(ctx context.Context, cfg *config.Config) (service.Transactor, service.Stores, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, service.Stores{}, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, service.Stores{}, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, service.Stores{}, nil, err
		}
		stores := service.Stores{
			Owners:    pgrepo.NewOwnerRepository(pool),
			Actors:    pgrepo.NewActorRepository(pool),
			Questions: pgrepo.NewQuestionRepository(pool),
		}
		return postgres.NewTransactor(pool), stores, pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, service.Stores{}, nil, err
		}
		stores := service.Stores{Owners: store, Actors: store, Questions: store}
		return store, stores, func() { _ = store.Close() }, nil

	default:
		store := storage.NewQuizStorage()
		stores := service.Stores{Owners: store, Actors: store, Questions: store}
		return store, stores, func() {}, nil
	}
}
