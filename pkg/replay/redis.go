// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces replay keys so the guard can share a Redis instance
// with other consumers.
const keyPrefix = "gatekeeper:replay:"

// RedisGuard is a Guard backed by Redis, for deployments where several
// service replicas must share replay state. Entries expire server-side via
// SETNX with a TTL.
type RedisGuard struct {
	client redis.UniversalClient
}

// NewRedisGuard connects to the Redis instance at addr.
func NewRedisGuard(addr string) *RedisGuard {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	return NewRedisGuardWithClient(client)
}

// NewRedisGuardWithClient wraps an existing Redis client. Used by tests to
// point the guard at miniredis.
func NewRedisGuardWithClient(client redis.UniversalClient) *RedisGuard {
	return &RedisGuard{client: client}
}

// CheckAndRecord implements Guard.
func (g *RedisGuard) CheckAndRecord(ctx context.Context, clientID, signature string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := keyPrefix + clientID + ":" + signature
	firstUse, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record signature use: %w", err)
	}
	return firstUse, nil
}

// Ping implements Guard.
func (g *RedisGuard) Ping(ctx context.Context) error {
	if err := g.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

// Close implements Guard.
func (g *RedisGuard) Close() error {
	return g.client.Close()
}
