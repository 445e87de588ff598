// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stacklok/gatekeeper/cmd/gatekeeper/app/ui"
	"github.com/stacklok/gatekeeper/pkg/core"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Manage client-to-route permissions",
	Long: `The permission command provides subcommands to manage which methods a
client may call on a route. A grant replaces any previous grant for the same
(client, route) pair.`,
}

var permissionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List permissions, optionally for one client",
	RunE:  permissionListCmdFunc,
}

var permissionGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant a client methods on a route",
	Long: `Grant a client a set of methods on a route:

  gatekeeper permission grant --client CLIENT_ID --route ROUTE_ID --methods GET,POST`,
	RunE: permissionGrantCmdFunc,
}

var permissionRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke a client's grant on a route",
	RunE:  permissionRevokeCmdFunc,
}

var (
	permissionClientID string
	permissionRouteID  string
	permissionMethods  string
)

func init() {
	for _, cmd := range []*cobra.Command{permissionGrantCmd, permissionRevokeCmd} {
		cmd.Flags().StringVar(&permissionClientID, "client", "", "Client ID")
		cmd.Flags().StringVar(&permissionRouteID, "route", "", "Route ID")
	}
	permissionGrantCmd.Flags().StringVar(&permissionMethods, "methods", "",
		"Comma-separated method tokens, e.g. GET,POST")
	permissionListCmd.Flags().StringVar(&permissionClientID, "client", "", "Only this client's grants")

	permissionCmd.AddCommand(permissionListCmd)
	permissionCmd.AddCommand(permissionGrantCmd)
	permissionCmd.AddCommand(permissionRevokeCmd)
}

// parseMethodList splits and canonicalizes a comma-separated method list.
func parseMethodList(list string) ([]string, error) {
	var methods []string
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		method, ok := core.NormalizeMethod(token)
		if !ok {
			return nil, fmt.Errorf("unknown HTTP method %q", token)
		}
		methods = append(methods, method)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("at least one method is required")
	}
	return methods, nil
}

func requirePair() error {
	if permissionClientID == "" || permissionRouteID == "" {
		return fmt.Errorf("--client and --route are required")
	}
	return nil
}

func permissionListCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	var perms []core.Permission
	if permissionClientID != "" {
		perms, err = store.PermissionsByClient(ctx, permissionClientID)
	} else {
		perms, err = store.ListPermissions(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list permissions: %w", err)
	}
	return ui.RenderPermissionsTable(perms)
}

func permissionGrantCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := requirePair(); err != nil {
		return err
	}
	methods, err := parseMethodList(permissionMethods)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	perm := &core.Permission{
		ClientID:       permissionClientID,
		RouteID:        permissionRouteID,
		AllowedMethods: methods,
	}
	if err := store.SavePermission(ctx, perm); err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	fmt.Printf("Granted %s on route %s to client %s\n",
		strings.Join(methods, ","), permissionRouteID, permissionClientID)
	return nil
}

func permissionRevokeCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := requirePair(); err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeletePermission(ctx, permissionClientID, permissionRouteID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}

	fmt.Printf("Revoked client %s's grant on route %s\n", permissionClientID, permissionRouteID)
	return nil
}
