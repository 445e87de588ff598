// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stacklok/gatekeeper/pkg/core"
	"github.com/stacklok/gatekeeper/pkg/logger"
	"github.com/stacklok/gatekeeper/pkg/replay"
	"github.com/stacklok/gatekeeper/pkg/storage"
)

// DefaultMaxSecretCandidates bounds the secret scan when a signature bundle
// arrives without a client ID hint.
const DefaultMaxSecretCandidates = 1000

// Authorizer runs the decision pipeline. It is stateless and safe for
// unbounded concurrent use; all mutable state lives behind the repository.
type Authorizer struct {
	repo          storage.DecisionReader
	verifier      *Verifier
	clock         Clock
	tolerance     time.Duration
	maxCandidates int
	guard         replay.Guard
	replayTTL     time.Duration
}

// Option configures an Authorizer.
type Option func(*Authorizer)

// WithClock injects the wall clock used for signature freshness.
func WithClock(clock Clock) Option {
	return func(a *Authorizer) { a.clock = clock }
}

// WithTolerance sets the signature freshness window. Non-positive values
// fall back to DefaultTolerance.
func WithTolerance(tolerance time.Duration) Option {
	return func(a *Authorizer) { a.tolerance = tolerance }
}

// WithMaxSecretCandidates bounds the hintless secret scan.
func WithMaxSecretCandidates(n int) Option {
	return func(a *Authorizer) {
		if n > 0 {
			a.maxCandidates = n
		}
	}
}

// WithReplayGuard enables replay protection: verified signatures are
// recorded for ttl and a reuse inside the window is denied.
func WithReplayGuard(guard replay.Guard, ttl time.Duration) Option {
	return func(a *Authorizer) {
		a.guard = guard
		a.replayTTL = ttl
	}
}

// New creates an Authorizer over the given repository.
func New(repo storage.DecisionReader, opts ...Option) *Authorizer {
	a := &Authorizer{
		repo:          repo,
		clock:         systemClock{},
		tolerance:     DefaultTolerance,
		maxCandidates: DefaultMaxSecretCandidates,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.verifier = NewVerifierWithClock(a.tolerance, a.clock)
	return a
}

// Authorize decides one request. It always returns a Decision: expected
// failures become denials with an attributing reason, repository and system
// faults become internal_error denials, and a panic anywhere in the pipeline
// is recovered rather than propagated to the server loop.
func (a *Authorizer) Authorize(ctx context.Context, req *Request) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("authorization pipeline panicked",
				"panic", r, "method", req.Method, "path", req.Path)
			decision = Decision{Reason: ReasonInternalError, Detail: DetailPanic}
		}
	}()

	domain := strings.ToLower(req.Domain)
	method, _ := core.NormalizeMethod(req.Method)

	routes, err := a.repo.CandidateRoutes(ctx, domain, req.Path)
	if err != nil {
		return repositoryFailure(err, "loading candidate routes", "")
	}
	route := MatchRoute(routes, domain, req.Path)
	if route == nil {
		return Decision{Reason: ReasonNoRoute}
	}

	policy, configured := route.Policy(method)
	if !configured {
		return Decision{Reason: ReasonMethodNotConfigured, RouteID: route.ID}
	}
	if !policy.AuthRequired {
		return Decision{Allowed: true, Reason: ReasonNoAuthRequired, RouteID: route.ID}
	}

	creds := ParseCredentials(req.Headers, req.Query)

	client, denied := a.authenticate(ctx, req, method, policy, creds, route.ID)
	if denied != nil {
		return *denied
	}

	if client.Status != core.StatusActive {
		return Decision{
			Reason:     statusReason(client.Status),
			ClientID:   client.ID,
			ClientName: client.Name,
			RouteID:    route.ID,
		}
	}

	perm, err := a.repo.Permission(ctx, client.ID, route.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Decision{
			Reason:     ReasonNoPermission,
			ClientID:   client.ID,
			ClientName: client.Name,
			RouteID:    route.ID,
		}
	}
	if err != nil {
		return repositoryFailure(err, "loading permission", route.ID)
	}
	if !perm.Allows(method) {
		return Decision{
			Reason:     ReasonMethodNotAllowed,
			ClientID:   client.ID,
			ClientName: client.Name,
			RouteID:    route.ID,
		}
	}

	return Decision{
		Allowed:    true,
		Reason:     ReasonAuthenticated,
		ClientID:   client.ID,
		ClientName: client.Name,
		RouteID:    route.ID,
	}
}

// authenticate resolves the client demanded by the method policy. It returns
// either a client or the denial to surface.
func (a *Authorizer) authenticate(ctx context.Context, req *Request, method string, policy core.MethodPolicy, creds Credentials, routeID string) (*core.Client, *Decision) {
	switch policy.AuthType {
	case core.AuthTypeHMAC:
		return a.authenticateSignature(ctx, req, method, creds, routeID)
	case core.AuthTypeAPIKey:
		return a.authenticateKey(ctx, creds, routeID)
	default:
		// Either credential satisfies the policy. Signatures are preferred
		// when a complete bundle is present because they additionally prove
		// integrity.
		if creds.HasSignatureBundle() {
			return a.authenticateSignature(ctx, req, method, creds, routeID)
		}
		if creds.HasAPIKey() {
			return a.authenticateKey(ctx, creds, routeID)
		}
		return nil, &Decision{Reason: ReasonMissingCredentials, RouteID: routeID}
	}
}

func (a *Authorizer) authenticateKey(ctx context.Context, creds Credentials, routeID string) (*core.Client, *Decision) {
	if !creds.HasAPIKey() {
		return nil, &Decision{Reason: ReasonMissingCredentials, RouteID: routeID}
	}

	client, err := a.repo.ClientByAPIKey(ctx, creds.APIKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &Decision{Reason: ReasonInvalidCredentials, RouteID: routeID}
	}
	if err != nil {
		denied := repositoryFailure(err, "resolving client by API key", routeID)
		return nil, &denied
	}
	return client, nil
}

func (a *Authorizer) authenticateSignature(ctx context.Context, req *Request, method string, creds Credentials, routeID string) (*core.Client, *Decision) {
	if !creds.HasSignatureBundle() {
		return nil, &Decision{Reason: ReasonMissingCredentials, RouteID: routeID}
	}

	candidates, err := a.repo.CandidateSecrets(ctx, creds.ClientIDHint, a.maxCandidates)
	if err != nil {
		denied := repositoryFailure(err, "loading candidate secrets", routeID)
		return nil, &denied
	}

	match, err := a.verifier.Verify(candidates, method, req.CanonicalPath(), creds, req.Body)
	if err != nil {
		return nil, &Decision{Reason: verificationReason(err), RouteID: routeID}
	}

	if a.guard != nil {
		firstUse, err := a.guard.CheckAndRecord(ctx, match.ClientID, creds.Signature, a.replayTTL)
		if err != nil {
			denied := repositoryFailure(err, "checking replay state", routeID)
			return nil, &denied
		}
		if !firstUse {
			logger.Warnw("replayed signature rejected",
				"client_id", match.ClientID, "route_id", routeID)
			return nil, &Decision{Reason: ReasonInvalidSignature, RouteID: routeID}
		}
	}

	client, err := a.repo.ClientBySharedSecret(ctx, match.Secret)
	if errors.Is(err, storage.ErrNotFound) {
		// The candidate row vanished between the scan and the lookup.
		return nil, &Decision{Reason: ReasonInvalidCredentials, RouteID: routeID}
	}
	if err != nil {
		denied := repositoryFailure(err, "resolving client by shared secret", routeID)
		return nil, &denied
	}
	return client, nil
}

// verificationReason maps verifier errors onto decision reasons.
func verificationReason(err error) Reason {
	switch {
	case errors.Is(err, ErrSignatureExpired):
		return ReasonSignatureExpired
	case errors.Is(err, ErrBodyTampered):
		return ReasonBodyTampered
	default:
		return ReasonInvalidSignature
	}
}

// statusReason maps a non-active client status onto its denial reason.
func statusReason(status core.ClientStatus) Reason {
	if status == core.StatusRevoked {
		return ReasonClientRevoked
	}
	return ReasonClientSuspended
}

// repositoryFailure turns a repository error into an internal_error decision,
// distinguishing cancellation from backend faults. The error itself is only
// logged; callers never see internal messages.
func repositoryFailure(err error, operation, routeID string) Decision {
	detail := DetailRepositoryError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		detail = DetailTimeout
	}
	logger.Errorw("repository failure during authorization",
		"operation", operation, "error", err)
	return Decision{Reason: ReasonInternalError, Detail: detail, RouteID: routeID}
}
