// Copyright (c) 2026 FarmConnect. All rights reserved.

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	rediscli "github.com/redis/go-redis/v9"

	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/postgres"
	"github.com/farmconnect/api/internal/platform/redis"
	"github.com/farmconnect/api/internal/platform/respond"
)

// healthHandler serves the liveness and readiness probes.
type healthHandler struct {
	pool   *pgxpool.Pool
	client *rediscli.Client
}

func newHealthHandler(pool *pgxpool.Pool, client *rediscli.Client) *healthHandler {
	return &healthHandler{pool: pool, client: client}
}

// liveness reports that the process is up. It deliberately touches no
// dependency: a broken database should not get the process restarted.
func (h *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness checks the backing stores and reports per-dependency status.
// Any failing check returns 503 so the load balancer drains this replica.
func (h *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	checks := map[string]string{}
	healthy := true

	if err := postgres.Ping(ctx, h.pool); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := redis.Ping(ctx, h.client); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		constants.FieldStatus: overall,
		constants.FieldChecks: checks,
	})
}
