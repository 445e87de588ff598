// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the authorization decision pipeline: route
// matching, per-method policy resolution, credential validation (API keys
// and HMAC signature bundles), client lifecycle checks, and permission
// enforcement. The engine holds no mutable state; every decision is a pure
// function of the request and the current repository contents.
package engine

import (
	"net/http"
	"net/url"
)

// Reason is the closed vocabulary of decision outcomes. Tags are part of the
// external contract: the HTTP adapter returns them verbatim in deny bodies
// and dashboards aggregate on them, so they must never be renamed.
type Reason string

// Decision reasons.
const (
	// ReasonNoRoute means no configured route matched the request.
	ReasonNoRoute Reason = "no_route"
	// ReasonMethodNotConfigured means a route matched but has no policy for
	// the request method.
	ReasonMethodNotConfigured Reason = "method_not_configured"
	// ReasonMissingCredentials means the method requires authentication and
	// the request carried no usable credential.
	ReasonMissingCredentials Reason = "missing_credentials"
	// ReasonInvalidCredentials means a credential was presented but did not
	// resolve to a client.
	ReasonInvalidCredentials Reason = "invalid_credentials"
	// ReasonInvalidSignature means no candidate secret produced the presented
	// signature.
	ReasonInvalidSignature Reason = "invalid_signature"
	// ReasonSignatureExpired means the signature verified but its timestamp
	// fell outside the freshness window.
	ReasonSignatureExpired Reason = "signature_expired"
	// ReasonBodyTampered means the signature verified but the body does not
	// match the signed body hash.
	ReasonBodyTampered Reason = "body_tampered"
	// ReasonClientSuspended means the authenticated client is suspended.
	ReasonClientSuspended Reason = "client_suspended"
	// ReasonClientRevoked means the authenticated client is revoked.
	ReasonClientRevoked Reason = "client_revoked"
	// ReasonNoPermission means the client holds no grant for the route.
	ReasonNoPermission Reason = "no_permission"
	// ReasonMethodNotAllowed means the client's grant does not cover the
	// request method.
	ReasonMethodNotAllowed Reason = "method_not_allowed"
	// ReasonNoAuthRequired is the allow tag for public methods.
	ReasonNoAuthRequired Reason = "no_auth_required"
	// ReasonAuthenticated is the allow tag for authenticated access.
	ReasonAuthenticated Reason = "authenticated"
	// ReasonInternalError means the decision could not be computed. Always a
	// deny; the Detail field narrows the fault.
	ReasonInternalError Reason = "internal_error"
)

// Internal error details, reported alongside ReasonInternalError.
const (
	// DetailTimeout marks a cancelled or deadline-expired repository call.
	DetailTimeout = "timeout"
	// DetailRepositoryError marks any other repository failure.
	DetailRepositoryError = "repository_error"
	// DetailPanic marks a recovered panic inside the pipeline.
	DetailPanic = "panic"
)

// Request is the engine's view of one original request, as reconstructed by
// the HTTP adapter from the proxy subrequest headers.
type Request struct {
	// Domain the original request was addressed to, already stripped of any
	// port and lowercased. Empty when the proxy did not forward a host.
	Domain string
	// Path is the URL path component, starting with `/`. Used for route
	// matching.
	Path string
	// RequestURI is the raw original URI including any query string. It is
	// the canonical PATH for signature verification; when empty the engine
	// falls back to Path.
	RequestURI string
	// Method is the canonical HTTP method token, uppercase.
	Method string
	// Headers carries the original credential headers.
	Headers http.Header
	// Query carries the original query parameters.
	Query url.Values
	// Body is the original request body. May be empty.
	Body []byte
}

// CanonicalPath returns the string signed by the client: the raw request URI
// when the adapter supplied one, otherwise the bare path.
func (r *Request) CanonicalPath() string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.Path
}

// Decision is the outcome of one authorization. Exactly one Reason is always
// set; a request never ends without a decision.
type Decision struct {
	// Allowed reports whether the proxy should forward the request.
	Allowed bool `json:"allowed"`
	// Reason attributes the outcome.
	Reason Reason `json:"reason"`
	// Detail narrows internal_error outcomes. Empty otherwise.
	Detail string `json:"detail,omitempty"`
	// ClientID and ClientName identify the authenticated client. Set on
	// authenticated allows and on post-authentication denials.
	ClientID   string `json:"client_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	// RouteID is the matched route, set on every outcome after a successful
	// match so denials remain attributable.
	RouteID string `json:"route_id,omitempty"`
}
