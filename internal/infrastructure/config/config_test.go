package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, ":9102", cfg.Metrics.ListenAddr)
	assert.Equal(t, "*/15 * * * *", cfg.Batch.Schedule)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)

	assert.InDelta(t, 1.0, cfg.Matching.Weights.Sum(), 1e-9)
	assert.Equal(t, 50, cfg.Matching.CandidatePoolSize)
	assert.Equal(t, 10, cfg.Matching.MaxResults)
	assert.InDelta(t, 0.85, cfg.Matching.Thresholds.High, 1e-9)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
environment: production
batch:
  workers: 8
matching:
  max_results: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 5, cfg.Matching.MaxResults)
	// Untouched keys keep their defaults
	assert.Equal(t, ":9102", cfg.Metrics.ListenAddr)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
batch:
  workers: 8
`)

	t.Setenv("TICKET_BATCH_WORKERS", "2")
	t.Setenv("TICKET_DATABASE_URL", "postgres://localhost:5432/matching")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "postgres://localhost:5432/matching", cfg.Database.URL)
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	path := writeConfigFile(t, `
matching:
  weights:
    price: 0.9
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid matching policy")
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
}
