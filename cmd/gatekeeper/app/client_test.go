// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	first, err := generateToken()
	require.NoError(t, err)
	second, err := generateToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.NotEqual(t, first, second)
}

func TestResolveCredential(t *testing.T) {
	t.Parallel()

	// Explicit value wins over generation.
	value, err := resolveCredential("API key", "explicit-key", false, true)
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", value)

	// Generation produces a decodable token.
	value, err = resolveCredential("API key", "", false, true)
	require.NoError(t, err)
	_, err = base64.RawURLEncoding.DecodeString(value)
	require.NoError(t, err)

	// Neither explicit nor generated leaves the credential unset.
	value, err = resolveCredential("shared secret", "", false, false)
	require.NoError(t, err)
	assert.Empty(t, value)
}
