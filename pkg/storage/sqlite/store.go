// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sqlite implements the storage contract on an embedded SQLite
// database using the pure-Go modernc driver. Schema changes are applied as
// embedded goose migrations at open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/stacklok/gatekeeper/pkg/core"
	"github.com/stacklok/gatekeeper/pkg/storage"
)

// Store implements storage.Store on SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path and applies any
// pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn under concurrent request load.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const routeColumns = `id, pattern, domain, service_name, methods, created_at, updated_at`

// CandidateRoutes returns the routes plausibly matching (domain, path). The
// query narrows by domain equality or domain wildcard and by path pattern;
// the matcher re-verifies every candidate, so over-approximation is safe.
func (s *Store) CandidateRoutes(ctx context.Context, domain, path string) ([]core.Route, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+routeColumns+` FROM routes
		WHERE (domain = ? OR substr(domain, 1, 1) = '*')
		  AND (pattern = ?
		       OR (substr(pattern, -2) = '/*'
		           AND substr(?, 1, length(pattern) - 1) = substr(pattern, 1, length(pattern) - 1)))
		ORDER BY id`,
		strings.ToLower(domain), path, path,
	)
	if err != nil {
		return nil, fmt.Errorf("querying candidate routes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRoutes(rows)
}

// SaveRoute inserts or updates a route. A missing ID is generated and
// written back to the route.
func (s *Store) SaveRoute(ctx context.Context, route *core.Route) error {
	if err := route.Validate(); err != nil {
		return fmt.Errorf("invalid route: %w", err)
	}
	if route.ID == "" {
		route.ID = uuid.NewString()
	}
	route.Domain = strings.ToLower(route.Domain)

	now := time.Now().UTC()
	if route.CreatedAt.IsZero() {
		route.CreatedAt = now
	}
	route.UpdatedAt = now

	methodsJSON, err := json.Marshal(route.Methods)
	if err != nil {
		return fmt.Errorf("encoding methods: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO routes (id, pattern, domain, service_name, methods, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			pattern = excluded.pattern,
			domain = excluded.domain,
			service_name = excluded.service_name,
			methods = excluded.methods,
			updated_at = excluded.updated_at`,
		route.ID, route.Pattern, route.Domain, route.ServiceName, string(methodsJSON),
		formatTime(route.CreatedAt), formatTime(route.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("saving route: %w", err)
	}
	return nil
}

// RouteByID retrieves one route.
func (s *Store) RouteByID(ctx context.Context, id string) (*core.Route, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE id = ?`, id)
	route, err := scanRoute(row)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// ListRoutes returns all routes ordered by domain then pattern.
func (s *Store) ListRoutes(ctx context.Context) ([]core.Route, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes ORDER BY domain, pattern`)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRoutes(rows)
}

// DeleteRoute removes a route; its permissions are deleted by cascade.
func (s *Store) DeleteRoute(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting route: %w", err)
	}
	return requireAffected(res)
}

// CountRoutes returns the number of configured routes.
func (s *Store) CountRoutes(ctx context.Context) (int, error) {
	return s.count(ctx, "routes")
}

const clientColumns = `id, name, api_key, shared_secret, status, created_at, updated_at`

// SaveClient inserts or updates a client. A missing ID is generated and
// written back to the client.
func (s *Store) SaveClient(ctx context.Context, client *core.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, api_key, shared_secret, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			api_key = excluded.api_key,
			shared_secret = excluded.shared_secret,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		client.ID, client.Name, nullable(client.APIKey), nullable(client.SharedSecret),
		string(client.Status), formatTime(client.CreatedAt), formatTime(client.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("saving client: %w", err)
	}
	return nil
}

// ClientByID retrieves one client.
func (s *Store) ClientByID(ctx context.Context, id string) (*core.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	return scanClientPtr(row)
}

// ClientByAPIKey resolves a client by its API key.
func (s *Store) ClientByAPIKey(ctx context.Context, apiKey string) (*core.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE api_key = ?`, apiKey)
	return scanClientPtr(row)
}

// ClientBySharedSecret resolves a client by its shared secret.
func (s *Store) ClientBySharedSecret(ctx context.Context, secret string) (*core.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE shared_secret = ?`, secret)
	return scanClientPtr(row)
}

// CandidateSecrets returns (client, secret) pairs for signature
// verification. A non-empty hint narrows to a single indexed lookup; without
// one the scan is bounded by limit.
func (s *Store) CandidateSecrets(ctx context.Context, clientIDHint string, limit int) ([]storage.SecretCandidate, error) {
	query := `SELECT id, shared_secret FROM clients WHERE shared_secret IS NOT NULL`
	args := []any{}
	if clientIDHint != "" {
		query += ` AND id = ?`
		args = append(args, clientIDHint)
	} else {
		query += ` ORDER BY id`
		if limit > 0 {
			query += ` LIMIT ?`
			args = append(args, limit)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidate secrets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []storage.SecretCandidate
	for rows.Next() {
		var c storage.SecretCandidate
		if err := rows.Scan(&c.ClientID, &c.Secret); err != nil {
			return nil, fmt.Errorf("scanning secret candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating secret candidates: %w", err)
	}
	return candidates, nil
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clients []core.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}
	return clients, nil
}

// DeleteClient removes a client; its permissions are deleted by cascade.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return requireAffected(res)
}

// CountClients returns the number of configured clients.
func (s *Store) CountClients(ctx context.Context) (int, error) {
	return s.count(ctx, "clients")
}

const permissionColumns = `client_id, route_id, allowed_methods, created_at, updated_at`

// SavePermission inserts or updates the grant for (client, route).
func (s *Store) SavePermission(ctx context.Context, perm *core.Permission) error {
	if err := perm.Validate(); err != nil {
		return fmt.Errorf("invalid permission: %w", err)
	}

	now := time.Now().UTC()
	if perm.CreatedAt.IsZero() {
		perm.CreatedAt = now
	}
	perm.UpdatedAt = now

	methodsJSON, err := json.Marshal(perm.AllowedMethods)
	if err != nil {
		return fmt.Errorf("encoding allowed methods: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO permissions (client_id, route_id, allowed_methods, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (client_id, route_id) DO UPDATE SET
			allowed_methods = excluded.allowed_methods,
			updated_at = excluded.updated_at`,
		perm.ClientID, perm.RouteID, string(methodsJSON),
		formatTime(perm.CreatedAt), formatTime(perm.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("client or route does not exist: %w", storage.ErrNotFound)
		}
		return fmt.Errorf("saving permission: %w", err)
	}
	return nil
}

// Permission retrieves the grant for (client, route).
func (s *Store) Permission(ctx context.Context, clientID, routeID string) (*core.Permission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE client_id = ? AND route_id = ?`,
		clientID, routeID)
	perm, err := scanPermission(row)
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

// PermissionsByClient returns all grants held by one client.
func (s *Store) PermissionsByClient(ctx context.Context, clientID string) ([]core.Permission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions WHERE client_id = ? ORDER BY route_id`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("querying permissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPermissions(rows)
}

// ListPermissions returns every grant.
func (s *Store) ListPermissions(ctx context.Context) ([]core.Permission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM permissions ORDER BY client_id, route_id`)
	if err != nil {
		return nil, fmt.Errorf("querying permissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPermissions(rows)
}

// DeletePermission removes the grant for (client, route).
func (s *Store) DeletePermission(ctx context.Context, clientID, routeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM permissions WHERE client_id = ? AND route_id = ?`, clientID, routeID)
	if err != nil {
		return fmt.Errorf("deleting permission: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanRoute(sc scanner) (core.Route, error) {
	var (
		r           core.Route
		methodsJSON string
		createdAt   string
		updatedAt   string
	)
	err := sc.Scan(&r.ID, &r.Pattern, &r.Domain, &r.ServiceName, &methodsJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Route{}, storage.ErrNotFound
		}
		return core.Route{}, fmt.Errorf("scanning route row: %w", err)
	}
	if err := json.Unmarshal([]byte(methodsJSON), &r.Methods); err != nil {
		return core.Route{}, fmt.Errorf("decoding methods: %w", err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Route{}, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return core.Route{}, err
	}
	return r, nil
}

func collectRoutes(rows *sql.Rows) ([]core.Route, error) {
	var routes []core.Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route rows: %w", err)
	}
	return routes, nil
}

func scanClient(sc scanner) (core.Client, error) {
	var (
		c         core.Client
		apiKey    sql.NullString
		secret    sql.NullString
		status    string
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&c.ID, &c.Name, &apiKey, &secret, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Client{}, storage.ErrNotFound
		}
		return core.Client{}, fmt.Errorf("scanning client row: %w", err)
	}
	c.APIKey = apiKey.String
	c.SharedSecret = secret.String
	c.Status = core.ClientStatus(status)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Client{}, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return core.Client{}, err
	}
	return c, nil
}

func scanClientPtr(sc scanner) (*core.Client, error) {
	c, err := scanClient(sc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanPermission(sc scanner) (core.Permission, error) {
	var (
		p           core.Permission
		methodsJSON string
		createdAt   string
		updatedAt   string
	)
	err := sc.Scan(&p.ClientID, &p.RouteID, &methodsJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Permission{}, storage.ErrNotFound
		}
		return core.Permission{}, fmt.Errorf("scanning permission row: %w", err)
	}
	if err := json.Unmarshal([]byte(methodsJSON), &p.AllowedMethods); err != nil {
		return core.Permission{}, fmt.Errorf("decoding allowed methods: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Permission{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return core.Permission{}, err
	}
	return p, nil
}

func collectPermissions(rows *sql.Rows) ([]core.Permission, error) {
	var perms []core.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating permission rows: %w", err)
	}
	return perms, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullable maps empty strings to SQL NULL so optional unique columns do not
// collide on the empty string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return t, nil
}

// isUniqueViolation checks for a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// isForeignKeyViolation checks for a SQLite FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}
