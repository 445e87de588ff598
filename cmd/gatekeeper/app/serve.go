// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/gatekeeper/pkg/api"
	"github.com/stacklok/gatekeeper/pkg/engine"
	"github.com/stacklok/gatekeeper/pkg/logger"
	"github.com/stacklok/gatekeeper/pkg/replay"
	"github.com/stacklok/gatekeeper/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the authorization server",
	Long: `Start the authorization server that answers edge-proxy auth subrequests.
The server exposes /authz for decisions, /health for readiness, /metrics for
Prometheus scraping, and /version.`,
	RunE: runServe,
}

const (
	redisReadyTries    = 10
	redisReadyInterval = 500 * time.Millisecond
)

func init() {
	serveCmd.Flags().String("address", ":7843", "Address to listen on")
	serveCmd.Flags().Duration("tolerance", engine.DefaultTolerance,
		"Maximum deviation between a signature timestamp and the server clock")
	serveCmd.Flags().Int("max-secret-candidates", engine.DefaultMaxSecretCandidates,
		"Upper bound on the secret scan when a signature arrives without X-Client-Id")
	serveCmd.Flags().Bool("replay-enabled", false, "Reject reuse of a verified signature within the replay TTL")
	serveCmd.Flags().String("replay-redis-addr", "",
		"Redis address for shared replay state; empty keeps replay state in-process")
	serveCmd.Flags().Duration("replay-ttl", replay.DefaultTTL, "How long a recorded signature stays hot")

	for flag, key := range map[string]string{
		"address":               "address",
		"tolerance":             "auth.timestamp_tolerance",
		"max-secret-candidates": "auth.max_secret_candidates",
		"replay-enabled":        "replay.enabled",
		"replay-redis-addr":     "replay.redis_addr",
		"replay-ttl":            "replay.ttl",
	} {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flag)); err != nil {
			logger.Fatalf("Failed to bind %s flag: %v", flag, err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("Failed to close store: %v", err)
		}
	}()

	guard, err := buildReplayGuard(ctx)
	if err != nil {
		return err
	}
	if guard != nil {
		defer func() {
			if err := guard.Close(); err != nil {
				logger.Errorf("Failed to close replay guard: %v", err)
			}
		}()
	}

	opts := []engine.Option{
		engine.WithTolerance(viper.GetDuration("auth.timestamp_tolerance")),
		engine.WithMaxSecretCandidates(viper.GetInt("auth.max_secret_candidates")),
	}
	if guard != nil {
		opts = append(opts, engine.WithReplayGuard(guard, viper.GetDuration("replay.ttl")))
	}
	authorizer := engine.New(store, opts...)

	registry := prometheus.NewRegistry()

	return api.Serve(ctx, api.Config{
		Address:    viper.GetString("address"),
		Store:      store,
		Authorizer: authorizer,
		Metrics:    telemetry.NewMetrics(registry),
		Registry:   registry,
		Guard:      guard,
	})
}

// buildReplayGuard constructs the configured replay guard, or nil when replay
// protection is disabled. A Redis-backed guard is pinged until reachable so a
// service restart does not race its sidecar.
func buildReplayGuard(ctx context.Context) (replay.Guard, error) {
	if !viper.GetBool("replay.enabled") {
		return nil, nil
	}

	addr := viper.GetString("replay.redis_addr")
	if addr == "" {
		logger.Infof("Replay protection enabled with in-process state")
		return replay.NewMemoryGuard(), nil
	}

	guard := replay.NewRedisGuard(addr)

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = redisReadyInterval
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, guard.Ping(ctx)
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(redisReadyTries),
		backoff.WithNotify(func(err error, duration time.Duration) {
			logger.Warnf("Redis not ready at %s, retrying in %v: %v", addr, duration, err)
		}),
	)
	if err != nil {
		_ = guard.Close()
		return nil, fmt.Errorf("replay Redis at %s never became ready: %w", addr, err)
	}

	logger.Infof("Replay protection enabled with Redis state at %s", addr)
	return guard, nil
}
