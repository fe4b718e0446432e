package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/retailflow/plm-console/internal/api"
	"github.com/retailflow/plm-console/internal/api/handler"
	"github.com/retailflow/plm-console/internal/api/middleware"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/core/service"
	"github.com/retailflow/plm-console/internal/infrastructure/db/memory"
	mongostore "github.com/retailflow/plm-console/internal/infrastructure/db/mongo"
	redisstore "github.com/retailflow/plm-console/internal/infrastructure/db/redis"
	"github.com/retailflow/plm-console/internal/infrastructure/gateway"
	"github.com/retailflow/plm-console/internal/infrastructure/queue"
	"github.com/retailflow/plm-console/internal/pkg/config"
	"github.com/retailflow/plm-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "plm-console",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gw := gateway.NewClient(cfg.API.BaseURL, nil, logger.For("gateway"))
	checks := map[string]handler.Check{
		"plm_api": gw.Reachable,
	}

	// Session storage
	var storage ports.SessionStorage
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing redis connection")
			}
		}()
		storage = redisstore.NewSessionStorage(rdb, cfg.Session.Namespace, cfg.Session.TTL, cfg.Session.SealKey)
		checks["redis"] = redisstore.Ping(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Bool("sealed", cfg.Session.SealKey != "").Msg("redis session storage ready")
	default:
		storage = memory.NewSessionStorage()
		log.Info().Msg("in-memory session storage ready")
	}

	// Advance audit trail (optional)
	var audit ports.AdvanceAuditRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("error closing mongo connection")
			}
		}()
		repo := mongostore.NewAdvanceAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure audit indexes")
		}
		dispatcher := queue.NewAuditDispatcher(0, repo, logger.For("audit"))
		dispatcher.Start(context.WithoutCancel(ctx))
		defer dispatcher.Close()
		audit = dispatcher
		checks["mongodb"] = mongostore.Ping(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("advance audit trail enabled")
	}

	// Services
	sessions := service.NewSessionService(gw, storage, logger.For("session"))
	products := service.NewProductService(gw, audit, logger.For("products"))
	guard := service.NewInFlight()

	e := api.NewRouter(api.Deps{
		Sessions:  sessions,
		Products:  products,
		Board:     service.NewProductBoard(products, logger.For("board")),
		Form:      service.NewProductForm(products, guard),
		Analytics: service.NewAnalyticsService(products),
		Alerts:    service.NewNotifier(),
		Guard:     guard,
		Tokens:    middleware.NewTokens(cfg.Console.Secret, cfg.Console.TokenTTL),
		Checks:    checks,
		Log:       logger.For("http"),
	})

	g, gctx := errgroup.WithContext(ctx)

	// Resolve the persisted session while the server starts.
	g.Go(func() error {
		sess, err := sessions.Restore(gctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("could not restore session")
		case sess != nil:
			log.Info().Str("username", sess.Username).Msg("session restored")
		default:
			log.Info().Msg("no session to restore")
		}
		return nil
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("api", cfg.API.BaseURL).Msg("console listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
