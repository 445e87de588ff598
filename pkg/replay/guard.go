// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package replay provides optional replay protection for signature
// authentication. A guard remembers every accepted signature for a TTL at
// least as long as the freshness window, so a captured request cannot be
// resubmitted while its timestamp is still valid.
package replay

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a recorded signature stays hot when the caller does
// not supply a TTL. It should exceed the signature freshness tolerance.
const DefaultTTL = 600 * time.Second

// Guard records first use of a signature. Implementations must be safe for
// concurrent use.
type Guard interface {
	// CheckAndRecord returns true when the (clientID, signature) pair has not
	// been seen within the TTL window, recording it as used. It returns false
	// for a replay.
	CheckAndRecord(ctx context.Context, clientID, signature string, ttl time.Duration) (bool, error)

	// Ping reports whether the guard's backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the guard.
	Close() error
}

// Expired entries are swept from the in-memory guard at most this often.
const sweepInterval = time.Minute

// MemoryGuard is a process-local Guard. Suitable for single-instance
// deployments; multi-instance deployments need the Redis guard so replicas
// share replay state.
type MemoryGuard struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryGuard creates an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// CheckAndRecord implements Guard.
func (g *MemoryGuard) CheckAndRecord(_ context.Context, clientID, signature string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := clientID + ":" + signature

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Sub(g.lastSweep) >= sweepInterval {
		for k, expiry := range g.seen {
			if now.After(expiry) {
				delete(g.seen, k)
			}
		}
		g.lastSweep = now
	}

	if expiry, ok := g.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	g.seen[key] = now.Add(ttl)
	return true, nil
}

// Ping implements Guard. The in-memory guard is always reachable.
func (*MemoryGuard) Ping(context.Context) error { return nil }

// Close implements Guard.
func (*MemoryGuard) Close() error { return nil }
