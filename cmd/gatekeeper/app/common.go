// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/stacklok/gatekeeper/pkg/storage/sqlite"
)

// openStore opens the configured SQLite database, applying any pending
// migrations. Callers own the returned store and must Close it.
func openStore(ctx context.Context) (*sqlite.Store, error) {
	path := viper.GetString("database.path")
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return store, nil
}
