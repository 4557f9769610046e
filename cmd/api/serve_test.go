package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/config"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

func TestNewApp_MemoryBackendWithSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Load()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SnapshotDir = dir
	cfg.Redis.Enabled = false

	a, err := newApp(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.NotNil(t, a.flusher)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/venues", strings.NewReader(`{"title":"ホールA","address":"東京都"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, a.flusher.FlushAll(context.Background()))
	assert.FileExists(t, filepath.Join(dir, venueSnapshotFile))
	assert.FileExists(t, filepath.Join(dir, timeslotSnapshotFile))
	require.NoError(t, a.close())

	// 再起動後もデータが残る
	b, err := newApp(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	b.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/venues/0", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ホールA")
}

func TestNewApp_MemoryBackendWithoutSnapshot(t *testing.T) {
	cfg := config.Load()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SnapshotDir = ""
	cfg.Redis.Enabled = false

	a, err := newApp(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	assert.Nil(t, a.flusher)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := config.Load()
	cfg.Store.Backend = "sqlite"

	a, err := newApp(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()))
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestNewApp_CorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, venueSnapshotFile), "{broken"))

	cfg := config.Load()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SnapshotDir = dir
	cfg.Redis.Enabled = false

	_, err := newApp(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()))
	assert.Error(t, err)
}

func TestMigrateCmd_InvalidDirection(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "sideways", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := cmd.Execute()
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
