// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"
	"time"
)

// AuthType identifies which credential kind satisfies a method policy.
type AuthType string

const (
	// AuthTypeAPIKey requires a bearer-style opaque API key.
	AuthTypeAPIKey AuthType = "api_key"
	// AuthTypeHMAC requires a signature bundle over the request.
	AuthTypeHMAC AuthType = "hmac"
	// AuthTypeAny accepts either credential kind; signatures are preferred
	// when a complete bundle is present.
	AuthTypeAny AuthType = "any"
)

// MethodPolicy is the authentication rule for one HTTP method on a route.
// AuthType is set exactly when AuthRequired is true.
type MethodPolicy struct {
	AuthRequired bool     `json:"auth_required"`
	AuthType     AuthType `json:"auth_type,omitempty"`
}

// Validate checks the required/type pairing.
func (p MethodPolicy) Validate() error {
	if p.AuthRequired {
		switch p.AuthType {
		case AuthTypeAPIKey, AuthTypeHMAC, AuthTypeAny:
			return nil
		default:
			return fmt.Errorf("auth_type must be one of %q, %q, %q when auth is required",
				AuthTypeAPIKey, AuthTypeHMAC, AuthTypeAny)
		}
	}
	if p.AuthType != "" {
		return fmt.Errorf("auth_type must be empty when auth is not required")
	}
	return nil
}

// Route declares that a (domain, path) family is protected, with a policy
// per HTTP method. Patterns are either exact (`/api/users`) or
// prefix-wildcard (`/api/users/*`); domains are an exact FQDN, a subdomain
// wildcard (`*.example.com`), or `*` for any.
type Route struct {
	// ID is the opaque stable identifier.
	ID string `json:"id"`
	// Pattern is the URL path pattern. Must begin with `/`.
	Pattern string `json:"pattern"`
	// Domain the route applies to. Compared case-insensitively; stored lowercase.
	Domain string `json:"domain"`
	// ServiceName is an opaque backend label carried through on allow.
	ServiceName string `json:"service_name"`
	// Methods maps canonical HTTP method tokens to their policies. Non-empty.
	Methods map[string]MethodPolicy `json:"methods"`
	// CreatedAt and UpdatedAt are audit timestamps; the decision path never
	// consults them.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the pattern, domain, and method table invariants.
func (r *Route) Validate() error {
	if !strings.HasPrefix(r.Pattern, "/") {
		return fmt.Errorf("pattern must start with /")
	}
	if strings.Contains(r.Pattern, "*") {
		if !strings.HasSuffix(r.Pattern, "/*") {
			return fmt.Errorf("wildcard * may only appear at the end as /*")
		}
		if strings.Count(r.Pattern, "*") > 1 {
			return fmt.Errorf("only one wildcard is allowed per pattern")
		}
	}
	if err := validateDomain(r.Domain); err != nil {
		return err
	}
	if len(r.Methods) == 0 {
		return fmt.Errorf("at least one HTTP method must be configured")
	}
	for method, policy := range r.Methods {
		if _, ok := NormalizeMethod(method); !ok || method != strings.ToUpper(method) {
			return fmt.Errorf("unknown HTTP method %q", method)
		}
		if err := policy.Validate(); err != nil {
			return fmt.Errorf("method %s: %w", method, err)
		}
	}
	return nil
}

func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if domain == "*" {
		return nil
	}
	if strings.HasPrefix(domain, "*.") {
		rest := domain[2:]
		if rest == "" || strings.Contains(rest, "*") {
			return fmt.Errorf("invalid subdomain wildcard %q", domain)
		}
		return nil
	}
	if strings.Contains(domain, "*") {
		return fmt.Errorf("domain wildcards must be `*` or `*.suffix`, got %q", domain)
	}
	return nil
}

// Policy returns the method policy for a canonical method token, or ok=false
// when the method is not configured on this route.
func (r *Route) Policy(method string) (MethodPolicy, bool) {
	p, ok := r.Methods[method]
	return p, ok
}

// IsWildcard reports whether the pattern is a prefix wildcard.
func (r *Route) IsWildcard() bool {
	return strings.HasSuffix(r.Pattern, "/*")
}

// WildcardPrefix returns the pattern characters before the trailing `/*`.
// Empty for non-wildcard patterns.
func (r *Route) WildcardPrefix() string {
	if !r.IsWildcard() {
		return ""
	}
	return strings.TrimSuffix(r.Pattern, "/*")
}

// MatchesPath reports whether the pattern matches the request path. A
// wildcard pattern `P/*` matches exactly the paths beginning with `P` + `/`,
// so `/a/*` matches `/a/` and `/a/b` but not the bare `/a`.
func (r *Route) MatchesPath(path string) bool {
	if r.IsWildcard() {
		return strings.HasPrefix(path, r.Pattern[:len(r.Pattern)-1])
	}
	return path == r.Pattern
}

// Domain specificity ranks, highest wins.
const (
	DomainAny       = 0
	DomainSubdomain = 1
	DomainExact     = 2
)

// DomainSpecificity classifies the route's domain form.
func (r *Route) DomainSpecificity() int {
	switch {
	case r.Domain == "*":
		return DomainAny
	case strings.HasPrefix(r.Domain, "*."):
		return DomainSubdomain
	default:
		return DomainExact
	}
}

// MatchesDomain reports whether the route applies to the given request
// domain. The request domain must already be lowercased; an empty domain
// only matches any-domain routes.
func (r *Route) MatchesDomain(domain string) bool {
	routeDomain := strings.ToLower(r.Domain)
	switch r.DomainSpecificity() {
	case DomainAny:
		return true
	case DomainSubdomain:
		suffix := routeDomain[1:] // keep the leading dot
		return strings.HasSuffix(domain, suffix) && domain != routeDomain[2:]
	default:
		return domain == routeDomain
	}
}
