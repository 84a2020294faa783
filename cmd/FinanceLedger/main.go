package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	database "github.com/sebuszqo/FinanceLedger/db"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/config"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/domain"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

func setupLogger(level string) {
	l, err := config.ParseLogLevel(level)
	if err != nil {
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
}

// newEntryRepository returns the Postgres repository, fronted by the Redis
// view cache when a Redis URL is configured.
func newEntryRepository(ctx context.Context, cfg *config.Config, dbService *database.DBService) (domain.EntryRepository, func(), error) {
	repo := infrastructure.NewEntryRepository(dbService.DB)
	if cfg.RedisURL == "" {
		return repo, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis is not reachable, entry reads will go to the database until it is", "error", err)
	}

	closeClient := func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing Redis client", "error", err)
		}
	}
	return infrastructure.NewCachedEntryRepository(repo, client, cfg.EntryCacheTTL), closeClient, nil
}

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Missing configuration, update to start server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString)
	if err != nil {
		slog.Error("Could not initialize database", "error", err)
		os.Exit(1)
	}
	defer dbService.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(dbService.DB); err != nil {
			slog.Error("Could not run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Migrations applied")
	}

	entryRepo, closeCache, err := newEntryRepository(ctx, cfg, dbService)
	if err != nil {
		slog.Error("Could not set up entry repository", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, cfg.BcryptCost)
	userHandler := user.NewHandler(userService)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService)

	entryService := application.NewEntryService(entryRepo, application.NewEntryValidator())
	balanceService := application.NewBalanceService(entryRepo)
	entryHandler := interfaces.NewEntryHandler(entryService, interfaces.RespondJSON, interfaces.RespondError)
	balanceHandler := interfaces.NewBalanceHandler(balanceService, userService, interfaces.RespondJSON, interfaces.RespondError)

	server := NewServer(authHandler, authService, userHandler, entryHandler, balanceHandler, dbService)
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           loggingMiddleware(server.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
