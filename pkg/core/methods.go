// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package core defines the entities the authorization service operates on:
// routes with per-method policies, clients with credentials and lifecycle
// status, and client-to-route permissions.
package core

import "strings"

// CanonicalMethods is the set of HTTP method tokens a route may configure
// and a permission may grant.
var CanonicalMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// NormalizeMethod uppercases a method token and reports whether it belongs
// to the canonical set.
func NormalizeMethod(method string) (string, bool) {
	m := strings.ToUpper(strings.TrimSpace(method))
	for _, known := range CanonicalMethods {
		if m == known {
			return m, true
		}
	}
	return m, false
}
