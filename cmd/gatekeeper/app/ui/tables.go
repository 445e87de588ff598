// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ui renders CLI output tables.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stacklok/gatekeeper/pkg/core"
)

// newTable builds a bordered, left-aligned table writer on stdout.
func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader(header),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(header), tw.AlignLeft)),
	)
	return table
}

// DescribePolicy renders a method policy the way route listings show it.
func DescribePolicy(policy core.MethodPolicy) string {
	if !policy.AuthRequired {
		return "public (no auth)"
	}
	return fmt.Sprintf("%s authentication required", policy.AuthType)
}

// methodSummary renders a route's method table as compact METHOD:policy
// pairs in canonical method order.
func methodSummary(methods map[string]core.MethodPolicy) string {
	var parts []string
	for _, method := range core.CanonicalMethods {
		policy, ok := methods[method]
		if !ok {
			continue
		}
		word := "public"
		if policy.AuthRequired {
			word = string(policy.AuthType)
		}
		parts = append(parts, method+":"+word)
	}
	return strings.Join(parts, " ")
}

// RenderRoutesTable renders the route list to stdout.
func RenderRoutesTable(routes []core.Route) error {
	if len(routes) == 0 {
		fmt.Println("No routes configured.")
		return nil
	}

	table := newTable([]string{"ID", "Domain", "Pattern", "Service", "Methods"})
	for _, route := range routes {
		if err := table.Append([]string{
			route.ID,
			route.Domain,
			route.Pattern,
			route.ServiceName,
			methodSummary(route.Methods),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// RenderClientsTable renders the client list to stdout. Credential values
// are never shown, only whether each kind is present.
func RenderClientsTable(clients []core.Client) error {
	if len(clients) == 0 {
		fmt.Println("No clients configured.")
		return nil
	}

	table := newTable([]string{"ID", "Name", "Status", "API Key", "HMAC Secret"})
	for _, client := range clients {
		apiKey := "❌ No"
		if client.APIKey != "" {
			apiKey = "✅ Yes"
		}
		secret := "❌ No"
		if client.SharedSecret != "" {
			secret = "✅ Yes"
		}
		if err := table.Append([]string{
			client.ID,
			client.Name,
			string(client.Status),
			apiKey,
			secret,
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// RenderPermissionsTable renders the permission list to stdout.
func RenderPermissionsTable(perms []core.Permission) error {
	if len(perms) == 0 {
		fmt.Println("No permissions granted.")
		return nil
	}

	sort.Slice(perms, func(i, j int) bool {
		if perms[i].ClientID != perms[j].ClientID {
			return perms[i].ClientID < perms[j].ClientID
		}
		return perms[i].RouteID < perms[j].RouteID
	})

	table := newTable([]string{"Client ID", "Route ID", "Allowed Methods"})
	for _, perm := range perms {
		if err := table.Append([]string{
			perm.ClientID,
			perm.RouteID,
			strings.Join(perm.AllowedMethods, ","),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
