// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCredentialsAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers http.Header
		query   url.Values
		wantKey string
	}{
		{
			name:    "bearer scheme",
			headers: http.Header{"Authorization": []string{"Bearer k-abc"}},
			wantKey: "k-abc",
		},
		{
			name:    "bearer scheme is case-insensitive",
			headers: http.Header{"Authorization": []string{"bEaReR k-abc"}},
			wantKey: "k-abc",
		},
		{
			name:    "apikey scheme",
			headers: http.Header{"Authorization": []string{"ApiKey k-abc"}},
			wantKey: "k-abc",
		},
		{
			name:    "bare token",
			headers: http.Header{"Authorization": []string{"k-abc"}},
			wantKey: "k-abc",
		},
		{
			name:    "hmac scheme is not an API key",
			headers: http.Header{"Authorization": []string{"HMAC client_id=C1,signature=deadbeef"}},
			wantKey: "",
		},
		{
			name:    "query parameter fallback",
			headers: http.Header{},
			query:   url.Values{"api_key": []string{"k-query"}},
			wantKey: "k-query",
		},
		{
			name:    "header wins over query",
			headers: http.Header{"Authorization": []string{"Bearer k-header"}},
			query:   url.Values{"api_key": []string{"k-query"}},
			wantKey: "k-header",
		},
		{
			name:    "empty header falls back to query",
			headers: http.Header{"Authorization": []string{""}},
			query:   url.Values{"api_key": []string{"k-query"}},
			wantKey: "k-query",
		},
		{
			name:    "whitespace around the token is stripped",
			headers: http.Header{"Authorization": []string{"  Bearer  k-abc  "}},
			wantKey: "k-abc",
		},
		{
			name:    "no credentials",
			headers: http.Header{},
			wantKey: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds := ParseCredentials(tt.headers, tt.query)
			assert.Equal(t, tt.wantKey, creds.APIKey)
			assert.Equal(t, tt.wantKey != "", creds.HasAPIKey())
		})
	}
}

func TestParseCredentialsSignatureBundle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    http.Header
		wantBundle bool
		wantHint   string
	}{
		{
			name: "complete bundle",
			headers: http.Header{
				"X-Signature": []string{"deadbeef"},
				"X-Timestamp": []string{"1700000000"},
				"X-Body-Hash": []string{"abc123"},
			},
			wantBundle: true,
		},
		{
			name: "bundle with client hint",
			headers: http.Header{
				"X-Signature": []string{"deadbeef"},
				"X-Timestamp": []string{"1700000000"},
				"X-Body-Hash": []string{"abc123"},
				"X-Client-Id": []string{"C2"},
			},
			wantBundle: true,
			wantHint:   "C2",
		},
		{
			name: "partial bundle counts as absent",
			headers: http.Header{
				"X-Signature": []string{"deadbeef"},
				"X-Timestamp": []string{"1700000000"},
			},
			wantBundle: false,
		},
		{
			name: "empty values count as absent",
			headers: http.Header{
				"X-Signature": []string{"deadbeef"},
				"X-Timestamp": []string{""},
				"X-Body-Hash": []string{"abc123"},
			},
			wantBundle: false,
		},
		{
			name:       "no signature headers",
			headers:    http.Header{},
			wantBundle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds := ParseCredentials(tt.headers, nil)
			assert.Equal(t, tt.wantBundle, creds.HasSignatureBundle())
			assert.Equal(t, tt.wantHint, creds.ClientIDHint)
		})
	}
}

func TestParseCredentialsHeaderNamesAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	// http.Header.Set canonicalizes names, mirroring how the adapter builds
	// the header map from the proxy subrequest.
	headers := http.Header{}
	headers.Set("x-signature", "deadbeef")
	headers.Set("X-TIMESTAMP", "1700000000")
	headers.Set("x-body-hash", "abc123")
	headers.Set("authorization", "Bearer k-abc")

	creds := ParseCredentials(headers, nil)
	assert.True(t, creds.HasSignatureBundle())
	assert.Equal(t, "k-abc", creds.APIKey)
}
