// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api contains the HTTP surface of gatekeeper: the auth_request
// decision endpoint plus the health, metrics, and version endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/stacklok/gatekeeper/pkg/api/v1"
	"github.com/stacklok/gatekeeper/pkg/engine"
	"github.com/stacklok/gatekeeper/pkg/logger"
	"github.com/stacklok/gatekeeper/pkg/replay"
	"github.com/stacklok/gatekeeper/pkg/storage"
	"github.com/stacklok/gatekeeper/pkg/telemetry"
)

const (
	middlewareTimeout = 60 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second

	// maxBodyBytes caps the forwarded request body. Signature verification
	// hashes the whole body, so unbounded bodies are a memory hazard.
	maxBodyBytes = 1 << 20 // 1MB
)

// Config carries the dependencies of the HTTP server.
type Config struct {
	// Address is the listen address, e.g. ":7843".
	Address string
	// Store answers health and decision queries.
	Store storage.Store
	// Authorizer computes decisions for /authz.
	Authorizer *engine.Authorizer
	// Metrics records decision outcomes.
	Metrics *telemetry.Metrics
	// Registry is gathered by the /metrics endpoint.
	Registry *prometheus.Registry
	// Guard is the optional replay guard, included in health checks when set.
	Guard replay.Guard
}

// requestBodySizeLimitMiddleware rejects oversized bodies up front and caps
// reads for requests that lie about their Content-Length.
func requestBodySizeLimitMiddleware(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxSize {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			next.ServeHTTP(w, r)
		})
	}
}

// Serve starts the server on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully. It is assumed that the caller sets
// up appropriate signal handling.
func Serve(ctx context.Context, cfg Config) error {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Timeout(middlewareTimeout),
		requestBodySizeLimitMiddleware(maxBodyBytes),
	)

	routers := map[string]http.Handler{
		"/authz":   v1.AuthzRouter(cfg.Authorizer, cfg.Metrics),
		"/health":  v1.HealthRouter(cfg.Store, cfg.Guard),
		"/metrics": promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}),
		"/version": v1.VersionRouter(),
	}
	for prefix, router := range routers {
		r.Mount(prefix, router)
	}

	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	logger.Infof("starting authorization server on %s", cfg.Address)

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Panicf("server stopped with error: %v", err)
		}
	}()

	<-ctx.Done()

	// The parent context is already cancelled; give in-flight decisions
	// their own grace window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Infof("authorization server stopped")
	return nil
}
