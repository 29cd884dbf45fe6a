package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/taekwondodev/go-qa-forum/internal/api"
	authservice "github.com/taekwondodev/go-qa-forum/internal/auth/service"
	"github.com/taekwondodev/go-qa-forum/internal/config"
	"github.com/taekwondodev/go-qa-forum/internal/controller"
	forumservice "github.com/taekwondodev/go-qa-forum/internal/forum/service"
	"github.com/taekwondodev/go-qa-forum/internal/hasher"
	"github.com/taekwondodev/go-qa-forum/internal/health"
	"github.com/taekwondodev/go-qa-forum/internal/middleware"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
	"github.com/taekwondodev/go-qa-forum/internal/repository/postgres"
	"github.com/taekwondodev/go-qa-forum/internal/repository/sqlite"
	"github.com/taekwondodev/go-qa-forum/internal/telemetry"
)

type stores struct {
	db        *sql.DB
	users     repository.UserRepository
	questions repository.QuestionRepository
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.db.Close()

	authService := authservice.NewAuthService(st.users, config.NewJWT(cfg.JWTSecret), hasher.NewBcrypt())
	forumService := forumservice.NewForumService(st.questions)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, logger)
	defer limiter.Stop()

	router := api.SetupRoutes(api.Dependencies{
		Auth:      controller.NewAuthController(authService),
		Questions: controller.NewQuestionController(forumService),
		Gate:      middleware.NewAuthGate(authService, logger),
		Limiter:   limiter,
		CORS:      cfg.CORS,
		Logger:    logger,
	})
	httpServer := api.NewServer(cfg.HTTPAddr, router, cfg.ShutdownTimeout, logger)

	healthServer, err := health.New(cfg.GRPC, st.users, health.Options{
		Interval:        cfg.HealthInterval,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return healthServer.Run(gctx, cfg.GRPC.Addr) })

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := config.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, err
		}
		storage := sqlite.New(db)
		return &stores{db: db, users: storage, questions: storage}, nil

	default:
		db, err := config.OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			db:        db,
			users:     postgres.NewUserRepository(db),
			questions: postgres.NewQuestionRepository(db),
		}, nil
	}
}
