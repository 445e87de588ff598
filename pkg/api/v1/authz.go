// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package v1 implements the HTTP handlers of the gatekeeper API.
package v1

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/gatekeeper/pkg/core"
	"github.com/stacklok/gatekeeper/pkg/engine"
	"github.com/stacklok/gatekeeper/pkg/logger"
	"github.com/stacklok/gatekeeper/pkg/telemetry"
)

// Headers set by the edge proxy on auth subrequests.
const (
	HeaderOriginalURI    = "X-Original-URI"
	HeaderOriginalMethod = "X-Original-Method"
	HeaderOriginalHost   = "X-Original-Host"
)

// Headers returned to the proxy on allowed requests, for forwarding to the
// upstream service.
const (
	HeaderAuthClientID   = "X-Auth-Client-ID"
	HeaderAuthClientName = "X-Auth-Client-Name"
	HeaderAuthRouteID    = "X-Auth-Route-ID"
)

// AuthzRoutes wires the decision engine to the auth_request endpoint.
type AuthzRoutes struct {
	authorizer *engine.Authorizer
	metrics    *telemetry.Metrics
}

// AuthzRouter creates the router for the authorization endpoint. Every
// canonical method is accepted; the authorized method is the one named by
// X-Original-Method, not the subrequest's own.
func AuthzRouter(authorizer *engine.Authorizer, metrics *telemetry.Metrics) http.Handler {
	routes := &AuthzRoutes{authorizer: authorizer, metrics: metrics}
	r := chi.NewRouter()
	r.Handle("/", http.HandlerFunc(routes.authorize))
	return r
}

// authorize answers one auth subrequest. The original request is described
// by the X-Original-* headers; the response status carries the decision:
// 200 allow, 403 deny with the reason tag as body, 500 internal error.
func (a *AuthzRoutes) authorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	originalURI := r.Header.Get(HeaderOriginalURI)
	originalMethod := r.Header.Get(HeaderOriginalMethod)
	if originalURI == "" || originalMethod == "" {
		logger.Warnw("missing original request headers",
			"uri", originalURI, "method", originalMethod)
		http.Error(w, "Missing required headers", http.StatusBadRequest)
		return
	}

	method, ok := core.NormalizeMethod(originalMethod)
	if !ok {
		logger.Warnw("invalid HTTP method", "method", originalMethod)
		http.Error(w, fmt.Sprintf("Invalid method: %s", originalMethod), http.StatusBadRequest)
		return
	}

	path := originalURI
	var query url.Values
	if i := strings.IndexByte(originalURI, '?'); i >= 0 {
		path = originalURI[:i]
		// Tolerate malformed pairs; ParseQuery keeps whatever it understood.
		query, _ = url.ParseQuery(originalURI[i+1:])
	}

	body, err := readBody(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.Errorw("failed to read request body", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	decision := a.authorizer.Authorize(r.Context(), &engine.Request{
		Domain:     originalDomain(r),
		Path:       path,
		RequestURI: originalURI,
		Method:     method,
		Headers:    r.Header,
		Query:      query,
		Body:       body,
	})

	a.respond(w, decision, path, method, time.Since(start))
}

// respond maps a decision onto the auth_request wire contract and records
// the outcome.
func (a *AuthzRoutes) respond(
	w http.ResponseWriter, decision engine.Decision, path, method string, elapsed time.Duration,
) {
	route := decision.RouteID
	if route == "" {
		route = path
	}
	durationMS := float64(elapsed.Nanoseconds()) / 1e6

	switch {
	case decision.Allowed:
		a.metrics.RecordDecision("allowed", route, method, elapsed)
		clientID := decision.ClientID
		if clientID == "" {
			clientID = "public"
		}
		logger.Infow("authorization allowed",
			"client_id", clientID,
			"route", path,
			"method", method,
			"reason", decision.Reason,
			"duration_ms", durationMS)

		if decision.ClientID != "" {
			w.Header().Set(HeaderAuthClientID, decision.ClientID)
		}
		if decision.ClientName != "" {
			w.Header().Set(HeaderAuthClientName, decision.ClientName)
		}
		if decision.RouteID != "" {
			w.Header().Set(HeaderAuthRouteID, decision.RouteID)
		}
		w.WriteHeader(http.StatusOK)

	case decision.Reason == engine.ReasonInternalError:
		a.metrics.RecordError(decision.Detail)
		logger.Errorw("authorization error",
			"route", path,
			"method", method,
			"error_type", decision.Detail,
			"duration_ms", durationMS)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

	default:
		a.metrics.RecordDecision("denied", route, method, elapsed)
		logger.Warnw("authorization denied",
			"route", path,
			"method", method,
			"reason", decision.Reason,
			"duration_ms", durationMS)
		http.Error(w, string(decision.Reason), http.StatusForbidden)
	}
}

// readBody returns the forwarded body for methods that carry one. The proxy
// mirrors the original method on the subrequest, so everything else
// authorizes against an empty body.
func readBody(r *http.Request) ([]byte, error) {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return io.ReadAll(r.Body)
	default:
		return nil, nil
	}
}

// originalDomain extracts the request domain from X-Original-Host, falling
// back to the subrequest host, with any port stripped and lowercased.
func originalDomain(r *http.Request) string {
	host := r.Header.Get(HeaderOriginalHost)
	if host == "" {
		host = r.Host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
