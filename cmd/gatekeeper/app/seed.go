// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/gatekeeper/pkg/core"
	"github.com/stacklok/gatekeeper/pkg/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-load routes, clients, and permissions from a YAML file",
	Long: `Load configuration from a YAML file into the database. Permissions may
reference clients by name and routes by pattern, so a seed file does not need
to hard-code IDs:

  routes:
    - pattern: /api/users/*
      domain: api.example.com
      service_name: user-service
      methods:
        GET: public
        POST: api_key
  clients:
    - name: mobile-app
      api_key: k-abc
  permissions:
    - client: mobile-app
      route: /api/users/*
      methods: [GET, POST]`,
	RunE: seedCmdFunc,
}

var seedFile string

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Path to the seed YAML file")
	if err := seedCmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
}

// seedDocument is the YAML shape of a seed file.
type seedDocument struct {
	Routes      []seedRoute      `yaml:"routes"`
	Clients     []seedClient     `yaml:"clients"`
	Permissions []seedPermission `yaml:"permissions"`
}

type seedRoute struct {
	ID          string            `yaml:"id"`
	Pattern     string            `yaml:"pattern"`
	Domain      string            `yaml:"domain"`
	ServiceName string            `yaml:"service_name"`
	// Methods maps method tokens to policy words (public, api_key, hmac, any).
	Methods map[string]string `yaml:"methods"`
}

type seedClient struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	APIKey       string `yaml:"api_key"`
	SharedSecret string `yaml:"shared_secret"`
	Status       string `yaml:"status"`
}

type seedPermission struct {
	// Client is a client ID or the name of a client seeded in this file.
	Client string `yaml:"client"`
	// Route is a route ID or the pattern of a route seeded in this file.
	Route string `yaml:"route"`
	// Domain disambiguates Route when the same pattern is seeded on several
	// domains.
	Domain  string   `yaml:"domain"`
	Methods []string `yaml:"methods"`
}

func seedCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	routes, clients, perms, err := applySeed(ctx, store, &doc)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d route(s), %d client(s), %d permission(s) from %s\n",
		routes, clients, perms, seedFile)
	return nil
}

// applySeed loads the document into the store in dependency order and
// resolves the permissions' by-name references. It returns the number of
// entities written.
func applySeed(ctx context.Context, store storage.Store, doc *seedDocument) (int, int, int, error) {
	routeIDs := make(map[string]string, len(doc.Routes))
	for i := range doc.Routes {
		sr := &doc.Routes[i]
		methods := make(map[string]core.MethodPolicy, len(sr.Methods))
		for token, word := range sr.Methods {
			method, ok := core.NormalizeMethod(token)
			if !ok {
				return 0, 0, 0, fmt.Errorf("route %s: unknown HTTP method %q", sr.Pattern, token)
			}
			policy, err := parsePolicy(word)
			if err != nil {
				return 0, 0, 0, fmt.Errorf("route %s: %w", sr.Pattern, err)
			}
			methods[method] = policy
		}

		route := &core.Route{
			ID:          sr.ID,
			Pattern:     sr.Pattern,
			Domain:      sr.Domain,
			ServiceName: sr.ServiceName,
			Methods:     methods,
		}
		if route.Domain == "" {
			route.Domain = "*"
		}
		if err := store.SaveRoute(ctx, route); err != nil {
			return 0, 0, 0, fmt.Errorf("failed to seed route %s: %w", sr.Pattern, err)
		}
		routeIDs[route.ID] = route.ID
		routeIDs[routeKey(route.Pattern, route.Domain)] = route.ID
		routeIDs[route.Pattern] = route.ID
	}

	clientIDs := make(map[string]string, len(doc.Clients))
	for i := range doc.Clients {
		sc := &doc.Clients[i]
		client := &core.Client{
			ID:           sc.ID,
			Name:         sc.Name,
			APIKey:       sc.APIKey,
			SharedSecret: sc.SharedSecret,
			Status:       core.ClientStatus(sc.Status),
		}
		if client.Status == "" {
			client.Status = core.StatusActive
		}
		if err := store.SaveClient(ctx, client); err != nil {
			return 0, 0, 0, fmt.Errorf("failed to seed client %s: %w", sc.Name, err)
		}
		clientIDs[client.ID] = client.ID
		clientIDs[client.Name] = client.ID
	}

	for i := range doc.Permissions {
		sp := &doc.Permissions[i]
		clientID, ok := clientIDs[sp.Client]
		if !ok {
			// Not seeded in this file; assume it is an existing ID.
			clientID = sp.Client
		}
		routeID, ok := routeIDs[routeKey(sp.Route, sp.Domain)]
		if !ok {
			if routeID, ok = routeIDs[sp.Route]; !ok {
				routeID = sp.Route
			}
		}

		perm := &core.Permission{
			ClientID:       clientID,
			RouteID:        routeID,
			AllowedMethods: sp.Methods,
		}
		for j, method := range perm.AllowedMethods {
			canonical, ok := core.NormalizeMethod(method)
			if !ok {
				return 0, 0, 0, fmt.Errorf("permission for %s: unknown HTTP method %q", sp.Client, method)
			}
			perm.AllowedMethods[j] = canonical
		}
		if err := store.SavePermission(ctx, perm); err != nil {
			return 0, 0, 0, fmt.Errorf("failed to seed permission for %s on %s: %w", sp.Client, sp.Route, err)
		}
	}

	return len(doc.Routes), len(doc.Clients), len(doc.Permissions), nil
}

func routeKey(pattern, domain string) string {
	return pattern + "@" + domain
}
