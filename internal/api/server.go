// Copyright (c) 2026 FarmConnect. All rights reserved.

/*
Package api assembles the FarmConnect HTTP server.

It owns the router, the global middleware chain, and the mounting of every
domain handler under /api/v1. Nothing in this package contains business
logic: it is pure composition.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/farmconnect/api/internal/market/order"
	"github.com/farmconnect/api/internal/market/product"
	"github.com/farmconnect/api/internal/platform/config"
	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/middleware"
	"github.com/farmconnect/api/internal/users/account"
	"github.com/farmconnect/api/internal/users/auth"
)

// Dependencies carries everything the server needs to assemble its routes.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Postgres *pgxpool.Pool
	Redis    *redis.Client

	TokenVerifier middleware.TokenVerifier
	Accounts      middleware.AccountSource

	AuthHandler    *auth.Handler
	AccountHandler *account.Handler
	ProductHandler *product.Handler
	OrderHandler   *order.Handler
}

// NewServer builds the configured *http.Server.
//
// ctx bounds the lifetime of the rate limiter's cleanup goroutine; pass the
// process root context.
func NewServer(ctx context.Context, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              ":" + deps.Config.ServerPort,
		Handler:           NewRouter(ctx, deps),
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}
}

// NewRouter assembles the full route tree with the global middleware chain.
//
// # Chain Order
//
// RequestID runs first so every later stage can correlate logs. The rate
// limiter sits before authentication: throttled requests should not cost a
// token verification. Authenticate runs globally and leaves anonymous
// requests untouched; per-route guards decide what anonymity is allowed to do.
func NewRouter(ctx context.Context, deps Dependencies) chi.Router {
	router := chi.NewRouter()

	router.Use(chimw.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(middleware.Authenticate(deps.TokenVerifier, deps.Accounts))

	// Probes stay outside /api/v1: infrastructure addresses them directly.
	health := newHealthHandler(deps.Postgres, deps.Redis)
	router.Get("/health", health.liveness)
	router.Get("/ready", health.readiness)

	router.Route("/api/v1", func(v1 chi.Router) {
		authLimit := middleware.AuthRateLimit(deps.Redis)
		v1.Mount("/auth", deps.AuthHandler.Routes(authLimit))
		v1.Mount("/farmers", deps.AccountHandler.Routes())
		v1.Mount("/admin", deps.AccountHandler.AdminRoutes())
		v1.Mount("/products", deps.ProductHandler.Routes())
		v1.Mount("/orders", deps.OrderHandler.Routes())
	})

	return router
}
