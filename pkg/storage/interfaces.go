// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the persistence contracts for gatekeeper's routes,
// clients, and permissions.
package storage

import (
	"context"

	"github.com/stacklok/gatekeeper/pkg/core"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=interfaces.go

// SecretCandidate pairs a client id with its signing secret, for signature
// verification when the caller did not identify itself.
type SecretCandidate struct {
	ClientID string
	Secret   string
}

// DecisionReader is the read-only contract the authorization engine
// consumes. Every call honors context cancellation; a miss is reported as
// ErrNotFound, never as a nil result with a nil error.
type DecisionReader interface {
	// CandidateRoutes returns routes that may match (domain, path). The set
	// may over-approximate; the engine's matcher applies the exact rules.
	CandidateRoutes(ctx context.Context, domain, path string) ([]core.Route, error)
	// ClientByAPIKey resolves the unique holder of an API key.
	ClientByAPIKey(ctx context.Context, apiKey string) (*core.Client, error)
	// ClientBySharedSecret resolves the unique holder of a signing secret.
	ClientBySharedSecret(ctx context.Context, secret string) (*core.Client, error)
	// CandidateSecrets enumerates (client id, secret) pairs for signature
	// verification. A non-empty hint restricts the set to that client; an
	// empty hint returns at most limit candidates in stable order.
	CandidateSecrets(ctx context.Context, clientIDHint string, limit int) ([]SecretCandidate, error)
	// Permission loads the unique grant for (client, route), if any.
	Permission(ctx context.Context, clientID, routeID string) (*core.Permission, error)
}

// Store is the full persistence surface: the decision read contract plus
// the management CRUD used by the CLI, the seed loader, and the health
// endpoint.
type Store interface {
	DecisionReader

	// SaveRoute inserts or updates a route. A route with an empty ID is
	// assigned one.
	SaveRoute(ctx context.Context, route *core.Route) error
	// RouteByID retrieves a route.
	RouteByID(ctx context.Context, id string) (*core.Route, error)
	// ListRoutes returns all routes ordered by domain then pattern.
	ListRoutes(ctx context.Context) ([]core.Route, error)
	// DeleteRoute removes a route and, transitively, its permissions.
	DeleteRoute(ctx context.Context, id string) error
	// CountRoutes returns the number of configured routes.
	CountRoutes(ctx context.Context) (int, error)

	// SaveClient inserts or updates a client. A client with an empty ID is
	// assigned one.
	SaveClient(ctx context.Context, client *core.Client) error
	// ClientByID retrieves a client.
	ClientByID(ctx context.Context, id string) (*core.Client, error)
	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) ([]core.Client, error)
	// DeleteClient removes a client and, transitively, its permissions.
	DeleteClient(ctx context.Context, id string) error
	// CountClients returns the number of configured clients.
	CountClients(ctx context.Context) (int, error)

	// SavePermission inserts or replaces the grant for (client, route).
	SavePermission(ctx context.Context, perm *core.Permission) error
	// PermissionsByClient returns a client's grants ordered by route id.
	PermissionsByClient(ctx context.Context, clientID string) ([]core.Permission, error)
	// ListPermissions returns all grants ordered by (client id, route id).
	ListPermissions(ctx context.Context) ([]core.Permission, error)
	// DeletePermission removes the grant for (client, route).
	DeletePermission(ctx context.Context, clientID, routeID string) error

	// Ping verifies the underlying database is reachable.
	Ping(ctx context.Context) error
	// Close releases any resources held by the store.
	Close() error
}
