// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/gatekeeper/pkg/core"
)

func route(id, domain, pattern string) core.Route {
	return core.Route{
		ID:      id,
		Pattern: pattern,
		Domain:  domain,
		Methods: map[string]core.MethodPolicy{"GET": {}},
	}
}

func TestMatchRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		routes []core.Route
		domain string
		path   string
		wantID string // empty means no match
	}{
		{
			name:   "no candidates",
			routes: nil,
			domain: "api.example.com",
			path:   "/x",
		},
		{
			name:   "exact pattern match",
			routes: []core.Route{route("r1", "*", "/api/users")},
			domain: "api.example.com",
			path:   "/api/users",
			wantID: "r1",
		},
		{
			name:   "wildcard does not match the bare prefix",
			routes: []core.Route{route("r1", "*", "/a/*")},
			domain: "",
			path:   "/a",
		},
		{
			name:   "wildcard matches the prefix with trailing slash",
			routes: []core.Route{route("r1", "*", "/a/*")},
			domain: "",
			path:   "/a/",
			wantID: "r1",
		},
		{
			name:   "wildcard matches nested paths",
			routes: []core.Route{route("r1", "*", "/a/*")},
			domain: "",
			path:   "/a/b/c",
			wantID: "r1",
		},
		{
			name:   "root wildcard matches the root path",
			routes: []core.Route{route("r1", "*", "/*")},
			domain: "",
			path:   "/",
			wantID: "r1",
		},
		{
			name:   "exact domain beats any-domain",
			routes: []core.Route{route("r-any", "*", "/x"), route("r-exact", "a.example", "/x")},
			domain: "a.example",
			path:   "/x",
			wantID: "r-exact",
		},
		{
			name: "exact domain beats subdomain wildcard",
			routes: []core.Route{
				route("r-sub", "*.example.com", "/x"),
				route("r-exact", "api.example.com", "/x"),
			},
			domain: "api.example.com",
			path:   "/x",
			wantID: "r-exact",
		},
		{
			name: "subdomain wildcard beats any-domain",
			routes: []core.Route{
				route("r-any", "*", "/x"),
				route("r-sub", "*.example.com", "/x"),
			},
			domain: "api.example.com",
			path:   "/x",
			wantID: "r-sub",
		},
		{
			name: "subdomain wildcard does not cover the apex",
			routes: []core.Route{
				route("r-any", "*", "/x"),
				route("r-sub", "*.example.com", "/x"),
			},
			domain: "example.com",
			path:   "/x",
			wantID: "r-any",
		},
		{
			name:   "domain comparison is case-insensitive",
			routes: []core.Route{route("r1", "api.example.com", "/x")},
			domain: "API.Example.com",
			path:   "/x",
			wantID: "r1",
		},
		{
			name: "exact path beats wildcard on the same domain rank",
			routes: []core.Route{
				route("r-wild", "*", "/api/users/*"),
				route("r-exact", "*", "/api/users/42"),
			},
			domain: "api.example.com",
			path:   "/api/users/42",
			wantID: "r-exact",
		},
		{
			name: "longer wildcard prefix wins",
			routes: []core.Route{
				route("r-short", "*", "/api/*"),
				route("r-long", "*", "/api/users/*"),
			},
			domain: "",
			path:   "/api/users/42",
			wantID: "r-long",
		},
		{
			name: "domain rank outweighs path rank",
			routes: []core.Route{
				route("r-any-exact", "*", "/api/users/42"),
				route("r-exact-wild", "api.example.com", "/api/users/*"),
			},
			domain: "api.example.com",
			path:   "/api/users/42",
			wantID: "r-exact-wild",
		},
		{
			name: "residual tie broken by smaller route id",
			routes: []core.Route{
				route("r-b", "*", "/x"),
				route("r-a", "*", "/x"),
			},
			domain: "",
			path:   "/x",
			wantID: "r-a",
		},
		{
			name: "over-approximated candidates are re-verified",
			routes: []core.Route{
				route("r-other-path", "*", "/y"),
				route("r-other-domain", "other.example", "/x"),
				route("r-match", "*", "/x"),
			},
			domain: "a.example",
			path:   "/x",
			wantID: "r-match",
		},
		{
			name:   "empty request domain only matches any-domain routes",
			routes: []core.Route{route("r-exact", "api.example.com", "/x"), route("r-any", "*", "/x")},
			domain: "",
			path:   "/x",
			wantID: "r-any",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MatchRoute(tt.routes, tt.domain, tt.path)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestMatchRouteOrderIndependent(t *testing.T) {
	t.Parallel()

	// The winner must not depend on candidate order. Rotate the slice through
	// every starting offset and expect the same route each time.
	routes := []core.Route{
		route("r-any-wild", "*", "/api/*"),
		route("r-any-exact", "*", "/api/users"),
		route("r-sub-wild", "*.example.com", "/api/*"),
		route("r-exact-wild", "api.example.com", "/api/*"),
		route("r-exact-exact", "api.example.com", "/api/users"),
	}

	want := MatchRoute(routes, "api.example.com", "/api/users")
	require.NotNil(t, want)
	require.Equal(t, "r-exact-exact", want.ID)

	for offset := 1; offset < len(routes); offset++ {
		rotated := append(append([]core.Route{}, routes[offset:]...), routes[:offset]...)
		got := MatchRoute(rotated, "api.example.com", "/api/users")
		require.NotNil(t, got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("winner changed with candidate order (offset %d), diff (-want +got):\n%s", offset, diff)
		}
	}
}
