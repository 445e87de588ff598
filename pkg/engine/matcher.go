// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strings"

	"github.com/stacklok/gatekeeper/pkg/core"
)

// MatchRoute selects the best route for (domain, path) from a candidate set,
// or nil when nothing matches. The repository may over-approximate the
// candidates; matching is re-verified here.
//
// Specificity is a total order: exact domain beats subdomain wildcard beats
// any-domain; within a domain rank, an exact path beats a wildcard; among
// wildcards the longer prefix wins. A residual tie is broken by the
// lexicographically smaller route ID so the winner is deterministic.
func MatchRoute(routes []core.Route, domain, path string) *core.Route {
	d := strings.ToLower(domain)

	var best *core.Route
	for i := range routes {
		r := &routes[i]
		if !r.MatchesPath(path) || !r.MatchesDomain(d) {
			continue
		}
		if best == nil || moreSpecific(r, best) {
			best = r
		}
	}
	return best
}

// moreSpecific reports whether route a should be preferred over route b.
func moreSpecific(a, b *core.Route) bool {
	if as, bs := a.DomainSpecificity(), b.DomainSpecificity(); as != bs {
		return as > bs
	}

	aWild, bWild := a.IsWildcard(), b.IsWildcard()
	if aWild != bWild {
		return !aWild
	}

	if aWild && bWild {
		if ap, bp := len(a.WildcardPrefix()), len(b.WildcardPrefix()); ap != bp {
			return ap > bp
		}
	}

	return a.ID < b.ID
}
