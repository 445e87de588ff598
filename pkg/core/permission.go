// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"
	"time"
)

// Permission grants a client a set of methods on a route. Unique per
// (client, route) pair; removed transitively when either side is deleted.
type Permission struct {
	ClientID string `json:"client_id"`
	RouteID  string `json:"route_id"`
	// AllowedMethods is a non-empty subset of the canonical method tokens.
	AllowedMethods []string  `json:"allowed_methods"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate enforces the method set invariants.
func (p *Permission) Validate() error {
	if p.ClientID == "" || p.RouteID == "" {
		return fmt.Errorf("permission requires client_id and route_id")
	}
	if len(p.AllowedMethods) == 0 {
		return fmt.Errorf("at least one method must be allowed")
	}
	for _, method := range p.AllowedMethods {
		if _, ok := NormalizeMethod(method); !ok || method != strings.ToUpper(method) {
			return fmt.Errorf("unknown HTTP method %q", method)
		}
	}
	return nil
}

// Allows reports whether the canonical method token is granted.
func (p *Permission) Allows(method string) bool {
	for _, m := range p.AllowedMethods {
		if m == method {
			return true
		}
	}
	return false
}
