// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"time"
)

// ClientStatus is the lifecycle state of a client. Only active clients
// authenticate.
type ClientStatus string

const (
	// StatusActive clients may authenticate.
	StatusActive ClientStatus = "active"
	// StatusSuspended clients are temporarily barred.
	StatusSuspended ClientStatus = "suspended"
	// StatusRevoked clients are permanently barred.
	StatusRevoked ClientStatus = "revoked"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s ClientStatus) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRevoked:
		return true
	default:
		return false
	}
}

// Client is an identified caller holding one or two credentials and a
// lifecycle status.
type Client struct {
	// ID is the opaque stable identifier.
	ID string `json:"id"`
	// Name is human-readable and returned to the backend on allow.
	Name string `json:"name"`
	// APIKey is an optional opaque bearer token, globally unique when present.
	APIKey string `json:"api_key,omitempty"`
	// SharedSecret is an optional signing key, globally unique when present.
	SharedSecret string `json:"shared_secret,omitempty"`
	// Status gates authentication; only StatusActive passes.
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Validate enforces the credential and status invariants.
func (c *Client) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("client name must not be empty")
	}
	if c.APIKey == "" && c.SharedSecret == "" {
		return fmt.Errorf("client must hold an api_key or a shared_secret")
	}
	if !ValidStatus(c.Status) {
		return fmt.Errorf("unknown client status %q", c.Status)
	}
	return nil
}
