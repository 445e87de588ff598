// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"net/http"
	"net/url"
	"strings"
)

// Credential header and query parameter names.
const (
	headerAuthorization = "Authorization"
	headerSignature     = "X-Signature"
	headerTimestamp     = "X-Timestamp"
	headerBodyHash      = "X-Body-Hash"
	headerClientID      = "X-Client-Id"

	queryAPIKey = "api_key"
)

// Credentials is everything the parser could extract from a request. Either
// side (or both, or neither) may be present; the authorizer decides which one
// the matched policy needs.
type Credentials struct {
	// APIKey is the bearer-style opaque key, if one was presented.
	APIKey string

	// Signature, Timestamp, and BodyHash form the signature bundle. All
	// three are set or the bundle is treated as absent.
	Signature string
	Timestamp string
	BodyHash  string

	// ClientIDHint optionally names the signing client so secret discovery
	// can do an indexed lookup instead of a scan.
	ClientIDHint string
}

// HasAPIKey reports whether an API key was presented.
func (c Credentials) HasAPIKey() bool {
	return c.APIKey != ""
}

// HasSignatureBundle reports whether a complete signature bundle was
// presented. Partial bundles count as absent so a stray header cannot force
// the signature path.
func (c Credentials) HasSignatureBundle() bool {
	return c.Signature != "" && c.Timestamp != "" && c.BodyHash != ""
}

// ParseCredentials extracts credentials from the request headers and query
// parameters. Header lookups are case-insensitive; empty values are treated
// as absent; tokens are opaque.
func ParseCredentials(headers http.Header, query url.Values) Credentials {
	return Credentials{
		APIKey:       extractAPIKey(headers, query),
		Signature:    headers.Get(headerSignature),
		Timestamp:    headers.Get(headerTimestamp),
		BodyHash:     headers.Get(headerBodyHash),
		ClientIDHint: headers.Get(headerClientID),
	}
}

// extractAPIKey recognizes `Bearer <key>`, `ApiKey <key>` (schemes
// case-insensitive), and a bare key in the Authorization header, falling back
// to the api_key query parameter. The header wins when both are present.
func extractAPIKey(headers http.Header, query url.Values) string {
	if key := apiKeyFromHeader(headers.Get(headerAuthorization)); key != "" {
		return key
	}
	return query.Get(queryAPIKey)
}

func apiKeyFromHeader(authorization string) string {
	value := strings.TrimSpace(authorization)
	if value == "" {
		return ""
	}

	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "bearer "):
		return strings.TrimSpace(value[len("bearer "):])
	case strings.HasPrefix(lower, "apikey "):
		return strings.TrimSpace(value[len("apikey "):])
	case strings.HasPrefix(lower, "hmac "):
		// A signature-scheme Authorization header is not an API key.
		return ""
	default:
		return value
	}
}
