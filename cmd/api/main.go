// Copyright (c) 2026 FarmConnect. All rights reserved.

// Command api runs the FarmConnect marketplace API server.
//
// # Startup Sequence
//
//  1. Load configuration from the environment.
//  2. Connect PostgreSQL and Redis.
//  3. Apply pending schema migrations.
//  4. Construct the token service (fails closed on a weak secret).
//  5. Wire repositories, services, and handlers.
//  6. Serve until SIGINT/SIGTERM, then drain gracefully.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/farmconnect/api/internal/api"
	"github.com/farmconnect/api/internal/market/order"
	"github.com/farmconnect/api/internal/market/product"
	"github.com/farmconnect/api/internal/platform/config"
	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/migration"
	"github.com/farmconnect/api/internal/platform/postgres"
	"github.com/farmconnect/api/internal/platform/redis"
	"github.com/farmconnect/api/internal/platform/sec"
	"github.com/farmconnect/api/internal/users/account"
	"github.com/farmconnect/api/internal/users/auth"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server_exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── Infrastructure ────────────────────────────────────────────────────
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		return err
	}

	// A weak JWT_SECRET must stop the process here, before any token is issued.
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, constants.AuthAudience)
	if err != nil {
		return err
	}

	// ── Domain Wiring ─────────────────────────────────────────────────────
	accountRepo := auth.NewPostgresAccountRepository(pool)
	authService := auth.NewService(accountRepo, tokenService)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())

	adminRepo := account.NewPostgresRepository(pool)
	adminService := account.NewService(adminRepo)
	accountHandler := account.NewHandler(adminService)

	productRepo := product.NewPostgresRepository(pool)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	orderRepo := order.NewPostgresRepository(pool)
	orderService := order.NewService(orderRepo)
	orderHandler := order.NewHandler(orderService)

	server := api.NewServer(ctx, api.Dependencies{
		Config:         cfg,
		Logger:         logger,
		Postgres:       pool,
		Redis:          redisClient,
		TokenVerifier:  tokenService,
		Accounts:       accountRepo,
		AuthHandler:    authHandler,
		AccountHandler: accountHandler,
		ProductHandler: productHandler,
		OrderHandler:   orderHandler,
	})

	// ── Serve ─────────────────────────────────────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server_listening",
			slog.String("addr", server.Addr),
			slog.String("environment", cfg.Environment),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// ── Graceful Shutdown ─────────────────────────────────────────────────
	logger.Info("server_shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server_stopped")
	return nil
}

// newLogger builds the process-wide structured logger. JSON output for log
// aggregation; level comes from DEBUG at parse time, so default to info here.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
