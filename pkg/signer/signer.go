// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package signer produces signature bundles for requests to
// signature-protected routes. It is the client half of the verification
// protocol, used by the sign command and by test suites that need to act as
// a signing client.
package signer

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stacklok/gatekeeper/pkg/engine"
)

// Bundle is the set of headers a signed request carries.
type Bundle struct {
	// Signature is the lowercase hex HMAC-SHA-256 over the canonical string.
	Signature string
	// Timestamp is the signing instant in integer epoch seconds.
	Timestamp string
	// BodyHash is the lowercase hex SHA-256 of the body.
	BodyHash string
	// ClientID optionally names the signing client so the verifier can do an
	// indexed secret lookup instead of a scan.
	ClientID string
}

// Sign builds the bundle for one request at the given instant. The path must
// be the exact request URI the client will send, query string included; the
// verifier reconstructs the same string from the proxy subrequest.
func Sign(secret, method, path string, body []byte, at time.Time) Bundle {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	bodyHash := engine.HashBody(body)
	canonical := engine.CanonicalString(strings.ToUpper(method), path, timestamp, bodyHash)
	return Bundle{
		Signature: engine.ComputeSignature(secret, canonical),
		Timestamp: timestamp,
		BodyHash:  bodyHash,
	}
}

// Apply stamps the bundle onto outgoing request headers.
func (b Bundle) Apply(h http.Header) {
	h.Set("X-Signature", b.Signature)
	h.Set("X-Timestamp", b.Timestamp)
	h.Set("X-Body-Hash", b.BodyHash)
	if b.ClientID != "" {
		h.Set("X-Client-Id", b.ClientID)
	}
}
