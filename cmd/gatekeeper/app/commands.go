// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the gatekeeper command-line
// application.
package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/gatekeeper/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "gatekeeper",
	DisableAutoGenTag: true,
	Short:             "Gatekeeper is an out-of-band authorization service for edge proxies",
	Long: `Gatekeeper decides whether API requests should be forwarded to a backend.
An edge proxy (nginx auth_request or equivalent) sends a subrequest per
protected request carrying the original method, URI, host, and credential
headers; gatekeeper matches the request to a configured route, validates the
client's API key or HMAC signature, checks permissions, and answers
allow/deny with attribution headers.

Routes, clients, and permissions live in a local SQLite database managed
through this CLI.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		logger.Initialize()
		return nil
	},
}

// NewRootCmd creates a new root command for the gatekeeper CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a gatekeeper configuration file")
	rootCmd.PersistentFlags().String("db", "gatekeeper.db", "Path to the SQLite database")

	for flag, key := range map[string]string{
		"debug":  "debug",
		"config": "config",
		"db":     "database.path",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			logger.Errorf("Error binding %s flag: %v", flag, err)
		}
	}

	// Environment overrides: GATEKEEPER_DATABASE_PATH, GATEKEEPER_DEBUG, ...
	viper.SetEnvPrefix("GATEKEEPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(permissionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

// loadConfigFile merges an optional configuration file into viper. Flags and
// environment variables still win over file values.
func loadConfigFile() error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}
