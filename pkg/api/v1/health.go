// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/gatekeeper/pkg/logger"
	"github.com/stacklok/gatekeeper/pkg/replay"
	"github.com/stacklok/gatekeeper/pkg/storage"
)

// HealthRoutes reports service health and configuration counts.
type HealthRoutes struct {
	store storage.Store
	guard replay.Guard
}

// HealthRouter creates the router for the health endpoint. The guard may be
// nil when replay protection is disabled.
func HealthRouter(store storage.Store, guard replay.Guard) http.Handler {
	routes := &HealthRoutes{store: store, guard: guard}
	r := chi.NewRouter()
	r.Get("/", routes.getHealth)
	return r
}

type healthResponse struct {
	Status            string `json:"status"`
	Database          string `json:"database"`
	RoutesConfigured  int    `json:"routes_configured"`
	ClientsConfigured int    `json:"clients_configured"`
}

type unhealthyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}

// getHealth pings the backing stores and reports configuration counts. Any
// failure yields 503 so the edge proxy can take the instance out of
// rotation.
func (h *HealthRoutes) getHealth(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())

	var routeCount, clientCount int
	g.Go(func() error { return h.store.Ping(ctx) })
	g.Go(func() error {
		var err error
		routeCount, err = h.store.CountRoutes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		clientCount, err = h.store.CountClients(ctx)
		return err
	})
	if h.guard != nil {
		g.Go(func() error { return h.guard.Ping(ctx) })
	}

	w.Header().Set("Content-Type", "application/json")
	if err := g.Wait(); err != nil {
		logger.Errorw("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(unhealthyResponse{
			Status:   "unhealthy",
			Database: "error",
			Message:  err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:            "healthy",
		Database:          "connected",
		RoutesConfigured:  routeCount,
		ClientsConfigured: clientCount,
	})
}
