// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/gatekeeper/pkg/replay"
	"github.com/stacklok/gatekeeper/pkg/storage/mocks"
)

type failingGuard struct{}

func (failingGuard) CheckAndRecord(context.Context, string, string, time.Duration) (bool, error) {
	return false, errors.New("guard unavailable")
}
func (failingGuard) Ping(context.Context) error { return errors.New("guard unavailable") }
func (failingGuard) Close() error               { return nil }

func TestGetHealthHealthy(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(nil)
	store.EXPECT().CountRoutes(gomock.Any()).Return(3, nil)
	store.EXPECT().CountClients(gomock.Any()).Return(2, nil)

	handler := HealthRouter(store, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, 3, resp.RoutesConfigured)
	assert.Equal(t, 2, resp.ClientsConfigured)
}

func TestGetHealthIncludesGuard(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(nil)
	store.EXPECT().CountRoutes(gomock.Any()).Return(0, nil)
	store.EXPECT().CountClients(gomock.Any()).Return(0, nil)

	handler := HealthRouter(store, replay.NewMemoryGuard())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetHealthDatabaseDown(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(errors.New("disk I/O error"))
	store.EXPECT().CountRoutes(gomock.Any()).Return(0, nil).AnyTimes()
	store.EXPECT().CountClients(gomock.Any()).Return(0, nil).AnyTimes()

	handler := HealthRouter(store, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp unhealthyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "error", resp.Database)
	assert.Contains(t, resp.Message, "disk I/O error")
}

func TestGetHealthGuardDown(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()
	store.EXPECT().CountRoutes(gomock.Any()).Return(0, nil).AnyTimes()
	store.EXPECT().CountClients(gomock.Any()).Return(0, nil).AnyTimes()

	handler := HealthRouter(store, failingGuard{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp unhealthyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "guard unavailable")
}
