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

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage protected routes",
	Long: `The route command provides subcommands to manage the routes gatekeeper
protects: the (domain, path pattern) families and the per-method
authentication policies on them.`,
}

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all routes",
	RunE:  routeListCmdFunc,
}

var routeGetCmd = &cobra.Command{
	Use:   "get [route-id]",
	Short: "Show one route in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  routeGetCmdFunc,
}

var routeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new route",
	Long: `Create a new protected route. Method policies are given as METHOD:POLICY
pairs, where POLICY is one of public, api_key, hmac, or any:

  gatekeeper route create --pattern '/api/users/*' --domain api.example.com \
    --service user-service --method GET:public --method POST:api_key`,
	RunE: routeCreateCmdFunc,
}

var routeUpdateCmd = &cobra.Command{
	Use:   "update [route-id]",
	Short: "Update an existing route",
	Long: `Update an existing route. Only the supplied flags change; --method
replaces the whole method table when given.`,
	Args: cobra.ExactArgs(1),
	RunE: routeUpdateCmdFunc,
}

var routeDeleteCmd = &cobra.Command{
	Use:   "delete [route-id]",
	Short: "Delete a route and its permissions",
	Args:  cobra.ExactArgs(1),
	RunE:  routeDeleteCmdFunc,
}

var (
	routePattern string
	routeDomain  string
	routeService string
	routeMethods []string
)

func init() {
	for _, cmd := range []*cobra.Command{routeCreateCmd, routeUpdateCmd} {
		cmd.Flags().StringVar(&routePattern, "pattern", "",
			"URL path pattern, exact (/api/users) or prefix wildcard (/api/users/*)")
		cmd.Flags().StringVar(&routeDomain, "domain", "*",
			"Domain the route applies to: an FQDN, *.suffix, or * for any")
		cmd.Flags().StringVar(&routeService, "service", "", "Backend service label")
		cmd.Flags().StringArrayVar(&routeMethods, "method", nil,
			"METHOD:POLICY pair, repeatable (policies: public, api_key, hmac, any)")
	}

	routeCmd.AddCommand(routeListCmd)
	routeCmd.AddCommand(routeGetCmd)
	routeCmd.AddCommand(routeCreateCmd)
	routeCmd.AddCommand(routeUpdateCmd)
	routeCmd.AddCommand(routeDeleteCmd)
}

// parsePolicy maps a policy word onto a method policy.
func parsePolicy(word string) (core.MethodPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "public":
		return core.MethodPolicy{}, nil
	case string(core.AuthTypeAPIKey):
		return core.MethodPolicy{AuthRequired: true, AuthType: core.AuthTypeAPIKey}, nil
	case string(core.AuthTypeHMAC):
		return core.MethodPolicy{AuthRequired: true, AuthType: core.AuthTypeHMAC}, nil
	case string(core.AuthTypeAny):
		return core.MethodPolicy{AuthRequired: true, AuthType: core.AuthTypeAny}, nil
	default:
		return core.MethodPolicy{}, fmt.Errorf("unknown policy %q (want public, api_key, hmac, or any)", word)
	}
}

// parseMethodSpecs turns METHOD:POLICY pairs into a route method table.
func parseMethodSpecs(specs []string) (map[string]core.MethodPolicy, error) {
	methods := make(map[string]core.MethodPolicy, len(specs))
	for _, spec := range specs {
		token, policyWord, found := strings.Cut(spec, ":")
		if !found {
			return nil, fmt.Errorf("invalid method spec %q (want METHOD:POLICY)", spec)
		}
		method, ok := core.NormalizeMethod(token)
		if !ok {
			return nil, fmt.Errorf("unknown HTTP method %q", token)
		}
		if _, dup := methods[method]; dup {
			return nil, fmt.Errorf("method %s specified twice", method)
		}
		policy, err := parsePolicy(policyWord)
		if err != nil {
			return nil, err
		}
		methods[method] = policy
	}
	return methods, nil
}

func routeListCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	routes, err := store.ListRoutes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}
	return ui.RenderRoutesTable(routes)
}

func routeGetCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	route, err := store.RouteByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load route %s: %w", args[0], err)
	}

	fmt.Printf("ID:      %s\n", route.ID)
	fmt.Printf("Pattern: %s\n", route.Pattern)
	fmt.Printf("Domain:  %s\n", route.Domain)
	fmt.Printf("Service: %s\n", route.ServiceName)
	fmt.Println("Methods:")
	for _, method := range core.CanonicalMethods {
		policy, ok := route.Methods[method]
		if !ok {
			continue
		}
		fmt.Printf("  %-8s %s\n", method, ui.DescribePolicy(policy))
	}
	return nil
}

func routeCreateCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	methods, err := parseMethodSpecs(routeMethods)
	if err != nil {
		return err
	}
	route := &core.Route{
		Pattern:     routePattern,
		Domain:      routeDomain,
		ServiceName: routeService,
		Methods:     methods,
	}
	if err := route.Validate(); err != nil {
		return fmt.Errorf("invalid route: %w", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveRoute(ctx, route); err != nil {
		return fmt.Errorf("failed to save route: %w", err)
	}

	fmt.Printf("Route %s created for %s %s\n", route.ID, route.Domain, route.Pattern)
	return nil
}

func routeUpdateCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	route, err := store.RouteByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load route %s: %w", args[0], err)
	}

	if cmd.Flags().Changed("pattern") {
		route.Pattern = routePattern
	}
	if cmd.Flags().Changed("domain") {
		route.Domain = routeDomain
	}
	if cmd.Flags().Changed("service") {
		route.ServiceName = routeService
	}
	if cmd.Flags().Changed("method") {
		methods, err := parseMethodSpecs(routeMethods)
		if err != nil {
			return err
		}
		route.Methods = methods
	}

	if err := store.SaveRoute(ctx, route); err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}

	fmt.Printf("Route %s updated\n", route.ID)
	return nil
}

func routeDeleteCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteRoute(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete route %s: %w", args[0], err)
	}

	fmt.Printf("Route %s deleted\n", args[0])
	return nil
}
