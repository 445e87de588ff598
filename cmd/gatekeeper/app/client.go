// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stacklok/gatekeeper/cmd/gatekeeper/app/ui"
	"github.com/stacklok/gatekeeper/pkg/core"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage API clients",
	Long: `The client command provides subcommands to manage the identified callers:
their credentials (API key, HMAC shared secret) and lifecycle status.`,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE:  clientListCmdFunc,
}

var clientCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new client",
	Long: `Create a new client. By default a fresh API key is generated; pass
--generate-secret for an HMAC shared secret, or supply explicit values with
--api-key / --shared-secret (or --prompt-key / --prompt-secret to enter them
without putting secrets into the shell history).

Generated credentials are printed once and cannot be retrieved later.`,
	RunE: clientCreateCmdFunc,
}

var clientUpdateCmd = &cobra.Command{
	Use:   "update [client-id]",
	Short: "Update a client's name or lifecycle status",
	Long: `Update a client. Status transitions (active, suspended, revoked) take
effect on the next authorization decision; only active clients authenticate.`,
	Args: cobra.ExactArgs(1),
	RunE: clientUpdateCmdFunc,
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete [client-id]",
	Short: "Delete a client and its permissions",
	Args:  cobra.ExactArgs(1),
	RunE:  clientDeleteCmdFunc,
}

var (
	clientName           string
	clientAPIKey         string
	clientSharedSecret   string
	clientGenerateKey    bool
	clientGenerateSecret bool
	clientPromptKey      bool
	clientPromptSecret   bool
	clientStatus         string
)

func init() {
	clientCreateCmd.Flags().StringVar(&clientName, "name", "", "Human-readable client name")
	clientCreateCmd.Flags().StringVar(&clientAPIKey, "api-key", "", "Explicit API key value")
	clientCreateCmd.Flags().StringVar(&clientSharedSecret, "shared-secret", "", "Explicit HMAC shared secret value")
	clientCreateCmd.Flags().BoolVar(&clientGenerateKey, "generate-key", true, "Generate a fresh API key")
	clientCreateCmd.Flags().BoolVar(&clientGenerateSecret, "generate-secret", false, "Generate a fresh HMAC shared secret")
	clientCreateCmd.Flags().BoolVar(&clientPromptKey, "prompt-key", false, "Prompt for the API key on the terminal")
	clientCreateCmd.Flags().BoolVar(&clientPromptSecret, "prompt-secret", false, "Prompt for the shared secret on the terminal")
	clientCreateCmd.Flags().StringVar(&clientStatus, "status", string(core.StatusActive),
		"Lifecycle status: active, suspended, or revoked")

	clientUpdateCmd.Flags().StringVar(&clientName, "name", "", "Human-readable client name")
	clientUpdateCmd.Flags().StringVar(&clientStatus, "status", "",
		"Lifecycle status: active, suspended, or revoked")

	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientCreateCmd)
	clientCmd.AddCommand(clientUpdateCmd)
	clientCmd.AddCommand(clientDeleteCmd)
}

// generateToken returns a 32-byte URL-safe random token, the shape both
// credential kinds use.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// readSecret prompts for a credential with terminal echo disabled.
func readSecret(label string) (string, error) {
	fmt.Printf("Enter %s (input will be hidden): ", label)
	valueBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println("")
	if err != nil {
		return "", fmt.Errorf("failed to read %s from terminal: %w", label, err)
	}
	return string(valueBytes), nil
}

// resolveCredential picks the credential value from, in priority order, the
// terminal prompt, the explicit flag value, or a fresh token.
func resolveCredential(label, explicit string, prompt, generate bool) (string, error) {
	switch {
	case prompt:
		value, err := readSecret(label)
		if err != nil {
			return "", err
		}
		if value == "" {
			return "", fmt.Errorf("%s must not be empty", label)
		}
		return value, nil
	case explicit != "":
		return explicit, nil
	case generate:
		return generateToken()
	default:
		return "", nil
	}
}

func clientListCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	clients, err := store.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	return ui.RenderClientsTable(clients)
}

func clientCreateCmdFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if clientName == "" {
		return fmt.Errorf("--name is required")
	}

	apiKey, err := resolveCredential("API key", clientAPIKey, clientPromptKey, clientGenerateKey)
	if err != nil {
		return err
	}
	sharedSecret, err := resolveCredential("shared secret", clientSharedSecret, clientPromptSecret, clientGenerateSecret)
	if err != nil {
		return err
	}

	client := &core.Client{
		Name:         clientName,
		APIKey:       apiKey,
		SharedSecret: sharedSecret,
		Status:       core.ClientStatus(clientStatus),
	}
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveClient(ctx, client); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}

	fmt.Printf("Client %s created\n", client.ID)
	fmt.Printf("Name:   %s\n", client.Name)
	if client.APIKey != "" {
		fmt.Printf("API Key:       %s\n", client.APIKey)
	}
	if client.SharedSecret != "" {
		fmt.Printf("Shared Secret: %s\n", client.SharedSecret)
	}
	fmt.Printf("Status: %s\n", client.Status)
	fmt.Println("\nSave these credentials securely. They cannot be retrieved later.")
	return nil
}

func clientUpdateCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := store.ClientByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load client %s: %w", args[0], err)
	}

	if cmd.Flags().Changed("name") {
		client.Name = clientName
	}
	if cmd.Flags().Changed("status") {
		status := core.ClientStatus(clientStatus)
		if !core.ValidStatus(status) {
			return fmt.Errorf("unknown status %q (want active, suspended, or revoked)", clientStatus)
		}
		client.Status = status
	}

	if err := store.SaveClient(ctx, client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	fmt.Printf("Client %s updated (status %s)\n", client.ID, client.Status)
	return nil
}

func clientDeleteCmdFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteClient(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", args[0], err)
	}

	fmt.Printf("Client %s deleted\n", args[0])
	return nil
}
